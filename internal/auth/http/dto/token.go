// Package dto carries the request and response shapes for the token endpoint.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/opaqueid/internal/validation"
)

// IssueTokenRequest carries the client credentials exchanged for a bearer token.
type IssueTokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Validate checks if the issue token request is valid.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ClientID,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.ClientSecret,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// IssueTokenResponse contains the issued bearer token and its expiry.
// The plaintext token is shown once; only its hash is retained server side.
type IssueTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
