// Package usecase defines business logic interfaces for authentication and authorization operations.
package usecase

import (
	"context"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
)

// ClientProvider resolves API clients loaded from the environment at startup.
type ClientProvider interface {
	// Get retrieves a client by id.
	Get(id string) (*authDomain.Client, bool)

	// Len returns the number of configured clients.
	Len() int
}

// TokenStore defines persistence operations for issued access tokens. The
// process-local implementation keeps sessions in memory; a restart invalidates
// them all.
type TokenStore interface {
	// Store saves a newly issued token under its hash.
	Store(ctx context.Context, token *authDomain.Token) error

	// GetByTokenHash retrieves a token by its SHA-256 hash. Returns
	// ErrTokenNotFound if no session carries the hash.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)
}

// TokenUseCase defines business logic operations for issuing and validating
// access tokens.
type TokenUseCase interface {
	// Issue authenticates a client by id and secret and returns a fresh
	// bearer token. Returns ErrInvalidCredentials for unknown clients and
	// wrong secrets alike.
	Issue(
		ctx context.Context,
		issueTokenInput *authDomain.IssueTokenInput,
	) (*authDomain.IssueTokenOutput, error)

	// Authenticate resolves a bearer token hash to the client that owns it.
	// Returns ErrInvalidCredentials for unknown and expired tokens.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error)
}
