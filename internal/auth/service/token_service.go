package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/allisson/opaqueid/internal/errors"
)

// tokenBytes is the entropy of a generated bearer token.
const tokenBytes = 32

// tokenService implements TokenService with SHA-256 token hashing.
type tokenService struct{}

// NewTokenService creates a TokenService.
func NewTokenService() TokenService {
	return &tokenService{}
}

// GenerateToken draws a random 256-bit bearer token and returns it base64
// URL-encoded together with the SHA-256 hash under which its session is
// stored. The store never sees the plain token.
func (t *tokenService) GenerateToken() (string, string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken := base64.URLEncoding.EncodeToString(raw)

	return plainToken, t.HashToken(plainToken), nil
}

// HashToken maps a plain token to the hex SHA-256 digest used as its store
// key. Tokens are high-entropy random values, so no salt or work factor is
// involved; the Argon2id path in SecretService covers operator-chosen
// secrets.
func (t *tokenService) HashToken(plainToken string) string {
	digest := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(digest[:])
}
