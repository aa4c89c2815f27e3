package domain

import (
	"github.com/allisson/opaqueid/internal/errors"
)

// Obfuscation domain errors.
var (
	// ErrInvalidIdentifier is returned when an identifier is not a non-negative
	// decimal integer.
	ErrInvalidIdentifier = errors.Wrap(errors.ErrInvalidInput, "invalid identifier")

	// ErrUnsupportedBase is returned when a base conversion names a base
	// outside the supported 2..62 range.
	ErrUnsupportedBase = errors.Wrap(errors.ErrInvalidInput, "unsupported base")

	// ErrInvalidDigit is returned when a digit string contains a symbol that
	// is not valid in its base.
	ErrInvalidDigit = errors.Wrap(errors.ErrInvalidInput, "invalid digit")

	// ErrInvalidToken is the single rejection surfaced for any token that
	// fails decoding. Both ErrMalformedToken and ErrTagMismatch wrap it, so
	// callers that must not reveal the failure kind match on this error alone.
	ErrInvalidToken = errors.Wrap(errors.ErrInvalidInput, "invalid token")

	// ErrMalformedToken is returned when a token is structurally unusable:
	// too short to carry a tag, or holding symbols outside the token alphabet.
	ErrMalformedToken = errors.Wrap(ErrInvalidToken, "malformed token")

	// ErrTagMismatch is returned when a well-formed token carries an integrity
	// tag that does not match the recomputed one.
	ErrTagMismatch = errors.Wrap(ErrInvalidToken, "integrity tag mismatch")

	// ErrKeyspaceNotFound is returned when a request names an unknown keyspace.
	ErrKeyspaceNotFound = errors.Wrap(errors.ErrNotFound, "keyspace not found")

	// ErrInvalidTagBits is returned when a tag bit length cannot be used with
	// its keyspace's algorithm.
	ErrInvalidTagBits = errors.Wrap(errors.ErrInvalidInput, "invalid tag bits")

	// ErrUnsupportedHashAlgorithm is returned for hash algorithms other than
	// sha256 and sha512.
	ErrUnsupportedHashAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported hash algorithm")
)

// Keyspace loading errors.
var (
	// ErrKeyspacesNotSet is returned when the OBFUSCATION_KEYSPACES environment
	// variable is missing or empty.
	ErrKeyspacesNotSet = errors.New("OBFUSCATION_KEYSPACES environment variable not set")

	// ErrKMSKeyURINotSet is returned when the KMS_KEY_URI environment variable
	// is missing or empty.
	ErrKMSKeyURINotSet = errors.New("KMS_KEY_URI environment variable not set")

	// ErrInvalidKeyspaceFormat is returned when a keyspace entry does not have
	// the name:password:salt:algorithm:tagBits shape.
	ErrInvalidKeyspaceFormat = errors.Wrap(errors.ErrInvalidInput, "invalid keyspace format")

	// ErrInvalidKeyspaceBase64 is returned when a keyspace password or salt is
	// not valid base64.
	ErrInvalidKeyspaceBase64 = errors.Wrap(errors.ErrInvalidInput, "invalid keyspace base64")

	// ErrKeyspaceUnwrapFailed is returned when the KMS keeper cannot decrypt a
	// wrapped keyspace password.
	ErrKeyspaceUnwrapFailed = errors.New("keyspace unwrap failed")

	// ErrDuplicateKeyspace is returned when two keyspace entries share a name.
	ErrDuplicateKeyspace = errors.Wrap(errors.ErrConflict, "duplicate keyspace")
)
