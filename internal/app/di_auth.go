package app

import (
	"fmt"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	authHTTP "github.com/allisson/opaqueid/internal/auth/http"
	authService "github.com/allisson/opaqueid/internal/auth/service"
	authUseCase "github.com/allisson/opaqueid/internal/auth/usecase"
)

// SecretService returns the Argon2id secret hasher.
func (c *Container) SecretService() authService.SecretService {
	return c.secretService.get(authService.NewSecretService)
}

// TokenService returns the bearer token generator and hasher.
func (c *Container) TokenService() authService.TokenService {
	return c.tokenService.get(authService.NewTokenService)
}

// ClientRegistry returns the API clients loaded from the environment.
func (c *Container) ClientRegistry() (authUseCase.ClientProvider, error) {
	return c.clientRegistry.get(c.initClientRegistry)
}

// TokenStore returns the in-memory token store. The store starts its expiry
// sweeper on first access; Shutdown stops it.
func (c *Container) TokenStore() *authService.MemoryTokenStore {
	return c.tokenStore.get(c.initTokenStore)
}

// TokenUseCase returns the token issue and authenticate use case.
func (c *Container) TokenUseCase() (authUseCase.TokenUseCase, error) {
	return c.tokenUseCase.get(c.initTokenUseCase)
}

// TokenHandler returns the HTTP handler for token operations.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	return c.tokenHandler.get(c.initTokenHandler)
}

func (c *Container) initClientRegistry() (authUseCase.ClientProvider, error) {
	registry, err := authDomain.LoadClientRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load client registry: %w", err)
	}
	return registry, nil
}

func (c *Container) initTokenStore() *authService.MemoryTokenStore {
	return authService.NewMemoryTokenStore(authService.DefaultSweepInterval)
}

func (c *Container) initTokenUseCase() (authUseCase.TokenUseCase, error) {
	clientRegistry, err := c.ClientRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get client registry for token use case: %w", err)
	}

	baseUseCase := authUseCase.NewTokenUseCase(
		c.config,
		clientRegistry,
		c.TokenStore(),
		c.SecretService(),
		c.TokenService(),
	)

	if !c.config.MetricsEnabled {
		return baseUseCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
	}
	return authUseCase.NewTokenUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}

func (c *Container) initTokenHandler() (*authHTTP.TokenHandler, error) {
	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for token handler: %w", err)
	}

	return authHTTP.NewTokenHandler(tokenUseCase, c.Logger()), nil
}
