// Package validation provides custom rules shared by the HTTP DTOs and the
// CLI commands, built on github.com/jellydator/validation.
package validation

import (
	"strconv"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/opaqueid/internal/errors"
)

// WrapValidationError converts a validation error into the domain's
// ErrInvalidInput so handlers map it to a 422.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// PasswordStrength validates that a password meets minimum requirements. Zero
// fields are not enforced, so PasswordStrength{MinLength: 16} checks length
// alone.
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// Validate implements validation.Rule.
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if len(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password must be at least "+strconv.Itoa(p.MinLength)+" characters",
		)
	}
	if p.RequireUpper && !containsRune(s, unicode.IsUpper) {
		return validation.NewError(
			"validation_password_uppercase",
			"password must contain at least one uppercase letter",
		)
	}
	if p.RequireLower && !containsRune(s, unicode.IsLower) {
		return validation.NewError(
			"validation_password_lowercase",
			"password must contain at least one lowercase letter",
		)
	}
	if p.RequireNumber && !containsRune(s, unicode.IsNumber) {
		return validation.NewError("validation_password_number", "password must contain at least one number")
	}
	if p.RequireSpecial && !containsRune(s, isSpecial) {
		return validation.NewError(
			"validation_password_special",
			"password must contain at least one special character",
		)
	}

	return nil
}

func containsRune(s string, matches func(rune) bool) bool {
	for _, r := range s {
		if matches(r) {
			return true
		}
	}
	return false
}

func isSpecial(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// DigitString validates that a string is a plain decimal digit sequence.
// Identifier fields may exceed the native integer range and therefore travel
// as strings; unicode digit classes and signs do not count.
var DigitString = validation.NewStringRuleWithError(
	func(s string) bool {
		if s == "" {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	},
	validation.NewError("validation_digit_string", "must contain only decimal digits"),
)

// NoWhitespace rejects strings with leading or trailing whitespace. Interior
// whitespace is allowed.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank rejects strings that are empty once whitespace is trimmed. Pair it
// with validation.Required; string rules are skipped for empty input.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
