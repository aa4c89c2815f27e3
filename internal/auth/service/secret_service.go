package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/opaqueid/internal/errors"
)

// secretBytes is the entropy of a generated client secret.
const secretBytes = 32

// secretService implements SecretService on top of go-pwdhash's Argon2id
// hasher.
type secretService struct {
	hasher *pwdhash.PasswordHasher
}

// NewSecretService creates a SecretService hashing with the Argon2id Moderate
// policy, which balances verification latency on the token endpoint against
// brute-force cost.
func NewSecretService() SecretService {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		// pwdhash.New fails only on an invalid option.
		panic(err)
	}

	return &secretService{hasher: hasher}
}

// GenerateSecret draws a random 256-bit secret and returns it base64
// URL-encoded together with its Argon2id PHC hash. The plaintext goes to the
// operator exactly once; only the hash lands in the client entry.
func (s *secretService) GenerateSecret() (string, string, error) {
	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random secret")
	}

	plainSecret := base64.URLEncoding.EncodeToString(raw)

	hashedSecret, err := s.HashSecret(plainSecret)
	if err != nil {
		return "", "", err
	}

	return plainSecret, hashedSecret, nil
}

// HashSecret hashes a plaintext secret into an Argon2id PHC string.
func (s *secretService) HashSecret(plainSecret string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(plainSecret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash secret")
	}

	return hashed, nil
}

// CompareSecret reports whether the plaintext matches the hash. The
// comparison runs in constant time; an unparsable hash reads as a mismatch.
func (s *secretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	ok, err := s.hasher.Verify([]byte(plainSecret), hashedSecret)
	return err == nil && ok
}
