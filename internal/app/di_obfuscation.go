package app

import (
	"context"
	"fmt"

	obfuscationDomain "github.com/allisson/opaqueid/internal/obfuscation/domain"
	obfuscationHTTP "github.com/allisson/opaqueid/internal/obfuscation/http"
	obfuscationService "github.com/allisson/opaqueid/internal/obfuscation/service"
	obfuscationUseCase "github.com/allisson/opaqueid/internal/obfuscation/usecase"
)

// TokenizerRegistry returns the per-keyspace tokenizers built from the
// environment configuration.
func (c *Container) TokenizerRegistry() (*obfuscationService.TokenizerRegistry, error) {
	return c.tokenizerRegistry.get(c.initTokenizerRegistry)
}

// ObfuscationUseCase returns the encode and decode use case.
func (c *Container) ObfuscationUseCase() (obfuscationUseCase.ObfuscationUseCase, error) {
	return c.obfuscationUseCase.get(c.initObfuscationUseCase)
}

// KeyspaceUseCase returns the keyspace introspection use case.
func (c *Container) KeyspaceUseCase() (obfuscationUseCase.KeyspaceUseCase, error) {
	return c.keyspaceUseCase.get(c.initKeyspaceUseCase)
}

// ObfuscationHandler returns the HTTP handler for encode and decode operations.
func (c *Container) ObfuscationHandler() (*obfuscationHTTP.ObfuscationHandler, error) {
	return c.obfuscationHandler.get(c.initObfuscationHandler)
}

// KeyspaceHandler returns the HTTP handler for keyspace introspection.
func (c *Container) KeyspaceHandler() (*obfuscationHTTP.KeyspaceHandler, error) {
	return c.keyspaceHandler.get(c.initKeyspaceHandler)
}

// initTokenizerRegistry loads the keyspace chain from the environment,
// derives a tokenizer per keyspace, and zeroes the source passwords.
func (c *Container) initTokenizerRegistry() (*obfuscationService.TokenizerRegistry, error) {
	chain, err := obfuscationDomain.LoadKeyspaceChain(
		context.Background(),
		c.config,
		c.KMSService(),
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyspace chain: %w", err)
	}
	// The registry owns derived keys, so the unwrapped passwords can be
	// zeroed as soon as it is built
	defer chain.Close()

	registry, err := obfuscationService.NewTokenizerRegistry(chain)
	if err != nil {
		return nil, fmt.Errorf("failed to build tokenizer registry: %w", err)
	}

	return registry, nil
}

func (c *Container) initObfuscationUseCase() (obfuscationUseCase.ObfuscationUseCase, error) {
	registry, err := c.TokenizerRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer registry for obfuscation use case: %w", err)
	}

	baseUseCase := obfuscationUseCase.NewObfuscationUseCase(registry)

	if !c.config.MetricsEnabled {
		return baseUseCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for obfuscation use case: %w", err)
	}
	return obfuscationUseCase.NewObfuscationUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}

func (c *Container) initKeyspaceUseCase() (obfuscationUseCase.KeyspaceUseCase, error) {
	registry, err := c.TokenizerRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer registry for keyspace use case: %w", err)
	}

	baseUseCase := obfuscationUseCase.NewKeyspaceUseCase(registry)

	if !c.config.MetricsEnabled {
		return baseUseCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for keyspace use case: %w", err)
	}
	return obfuscationUseCase.NewKeyspaceUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}

func (c *Container) initObfuscationHandler() (*obfuscationHTTP.ObfuscationHandler, error) {
	useCase, err := c.ObfuscationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get obfuscation use case for obfuscation handler: %w", err)
	}

	return obfuscationHTTP.NewObfuscationHandler(useCase, c.Logger()), nil
}

func (c *Container) initKeyspaceHandler() (*obfuscationHTTP.KeyspaceHandler, error) {
	useCase, err := c.KeyspaceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get keyspace use case for keyspace handler: %w", err)
	}

	return obfuscationHTTP.NewKeyspaceHandler(useCase, c.Logger()), nil
}
