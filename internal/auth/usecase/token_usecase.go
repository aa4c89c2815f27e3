package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	authService "github.com/allisson/opaqueid/internal/auth/service"
	"github.com/allisson/opaqueid/internal/config"
)

// tokenUseCase implements TokenUseCase against the environment-loaded client
// registry and the in-memory session store.
type tokenUseCase struct {
	config        *config.Config
	clients       ClientProvider
	tokenStore    TokenStore
	secretService authService.SecretService
	tokenService  authService.TokenService
}

// NewTokenUseCase creates a TokenUseCase.
func NewTokenUseCase(
	config *config.Config,
	clients ClientProvider,
	tokenStore TokenStore,
	secretService authService.SecretService,
	tokenService authService.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		config:        config,
		clients:       clients,
		tokenStore:    tokenStore,
		secretService: secretService,
		tokenService:  tokenService,
	}
}

// Issue verifies the client credentials and opens a new session, returning
// the plain bearer token and its expiry. The session lifetime comes from
// AUTH_TOKEN_EXPIRATION_SECONDS and only the token's hash is stored.
//
// An unknown client id and a wrong secret both come back as
// ErrInvalidCredentials, so the endpoint does not confirm which client ids
// exist.
func (t *tokenUseCase) Issue(
	ctx context.Context,
	issueTokenInput *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	client, ok := t.clients.Get(issueTokenInput.ClientID)
	if !ok {
		return nil, authDomain.ErrInvalidCredentials
	}

	if !t.secretService.CompareSecret(issueTokenInput.ClientSecret, client.Secret) {
		return nil, authDomain.ErrInvalidCredentials
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	token := &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		ClientID:  client.ID,
		ExpiresAt: now.Add(t.config.AuthTokenExpiration),
		CreatedAt: now,
	}

	if err := t.tokenStore.Store(ctx, token); err != nil {
		return nil, err
	}

	return &authDomain.IssueTokenOutput{
		PlainToken: plainToken,
		ExpiresAt:  token.ExpiresAt,
	}, nil
}

// Authenticate resolves a token hash to its owning client.
//
// A missing session, an expired session, and an owner that has since been
// removed from API_CLIENTS all come back as ErrInvalidCredentials; callers
// cannot tell which it was. Store failures pass through unchanged so they
// surface as 500 rather than 401.
func (t *tokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error) {
	token, err := t.tokenStore.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrTokenNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	// The store sweeper runs on an interval, so an expired session can still
	// be present here.
	if token.Expired(time.Now().UTC()) {
		return nil, authDomain.ErrInvalidCredentials
	}

	client, ok := t.clients.Get(token.ClientID)
	if !ok {
		return nil, authDomain.ErrInvalidCredentials
	}

	return client, nil
}
