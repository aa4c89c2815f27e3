// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/opaqueid/internal/validation"
)

// EncodeRequest contains the parameters for obfuscating an identifier.
type EncodeRequest struct {
	Keyspace string `json:"keyspace"`
	ID       string `json:"id"` // Decimal identifier; a string so values beyond int64 survive JSON
}

// Validate checks if the encode request is valid.
func (r *EncodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Keyspace,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.ID,
			validation.Required,
			customValidation.DigitString,
		),
	)
}

// DecodeRequest contains the parameters for recovering an identifier from a token.
type DecodeRequest struct {
	Keyspace string `json:"keyspace"`
	Token    string `json:"token"`
}

// Validate checks if the decode request is valid.
//
// The token is only required to be present. Shape checks stay out of the DTO so
// every unusable token takes the tokenizer's single rejection path instead of
// leaking a distinct validation message here.
func (r *DecodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Keyspace,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Token,
			validation.Required,
		),
	)
}
