// Package service provides technical services for authentication operations.
//
// This package implements client secret hashing, bearer token generation, and
// the in-memory session store backing issued tokens.
package service

// SecretService defines operations for client secret generation and
// validation. Implementations must use cryptographically secure random
// generation and a memory-hard hashing algorithm.
type SecretService interface {
	// GenerateSecret creates a new cryptographically secure random secret.
	// Returns both the plain text secret (to be shared with the client once)
	// and the hashed version (to be placed in the API_CLIENTS entry).
	GenerateSecret() (plainSecret string, hashedSecret string, error error)

	// HashSecret hashes a plain text secret for storage in a client entry.
	HashSecret(plainSecret string) (hashedSecret string, error error)

	// CompareSecret compares a plain text secret against a hashed secret.
	// Returns true if the plain secret matches the hash, false otherwise.
	// The comparison is constant-time to prevent timing attacks.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenService defines operations for bearer token generation and hashing.
// Tokens are short-lived, so a fast hash (SHA-256) keys the session store
// rather than a password hash.
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain text token (shown to the client once) and the
	// hash under which the session is stored.
	GenerateToken() (plainToken string, tokenHash string, error error)

	// HashToken hashes a plain text token using SHA-256. Used to look up the
	// session for a presented bearer token.
	HashToken(plainToken string) string
}
