// Package errors defines the error categories shared by every domain module.
//
// Domain packages never return these category errors directly. They derive
// their own named sentinels by wrapping a category, for example
//
//	ErrKeyspaceNotFound = errors.Wrap(errors.ErrNotFound, "keyspace not found")
//
// and call sites may wrap the sentinel once more with request detail. The
// HTTP layer only ever matches on the category, so the mapping from error to
// status code stays in one switch regardless of how many sentinels exist.
package errors

import (
	"errors"
	"fmt"
)

// The five categories. Each one corresponds to a fixed HTTP status in the
// response mapping.
var (
	// ErrNotFound covers lookups of keyspaces, clients, or tokens that do
	// not exist. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers duplicate names during environment loading. Maps
	// to 409.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput covers malformed identifiers, tokens, and
	// configuration entries. Maps to 422, and its message is considered
	// client-safe.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized covers missing or bad credentials. Maps to 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden covers policy denials for authenticated clients. Maps
	// to 403.
	ErrForbidden = errors.New("forbidden")
)

// New returns an error outside the five categories. The HTTP layer reports
// such errors as a 500 with a generic body.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message, keeping the chain intact so category
// matching still works. A nil err stays nil, which lets callers wrap
// unconditionally.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target. It exists so
// domain packages can match categories without importing both this package
// and the standard library one under different names.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target any) bool {
	return errors.As(err, target)
}
