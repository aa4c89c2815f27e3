package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is an issued access token held in the in-memory session store. Only
// the SHA-256 hash of the bearer token is retained; the plain token exists
// solely in the issuance response.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	ClientID  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token expiration has passed at the given
// instant.
func (t *Token) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// IssueTokenInput contains the credentials presented to obtain an access
// token.
type IssueTokenInput struct {
	ClientID     string
	ClientSecret string
}

// IssueTokenOutput contains the result of issuing a token.
// SECURITY: The PlainToken is only returned once and must be securely
// transmitted to the client. It is never retrievable again.
type IssueTokenOutput struct {
	PlainToken string
	ExpiresAt  time.Time
}
