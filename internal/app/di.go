// Package app assembles the application object graph. Every component is
// built on first access and cached for the life of the container, so the
// server command and the CLI commands share one wiring path.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authHTTP "github.com/allisson/opaqueid/internal/auth/http"
	authService "github.com/allisson/opaqueid/internal/auth/service"
	authUseCase "github.com/allisson/opaqueid/internal/auth/usecase"
	"github.com/allisson/opaqueid/internal/config"
	cryptoService "github.com/allisson/opaqueid/internal/crypto/service"
	"github.com/allisson/opaqueid/internal/http"
	"github.com/allisson/opaqueid/internal/metrics"
	obfuscationHTTP "github.com/allisson/opaqueid/internal/obfuscation/http"
	obfuscationService "github.com/allisson/opaqueid/internal/obfuscation/service"
	obfuscationUseCase "github.com/allisson/opaqueid/internal/obfuscation/usecase"
)

// lazy memoizes a constructor so a component is built exactly once.
type lazy[T any] struct {
	once  sync.Once
	value T
}

func (l *lazy[T]) get(build func() T) T {
	l.once.Do(func() {
		l.value = build()
	})
	return l.value
}

// lazyErr is lazy for constructors that can fail. The first call decides the
// outcome and every later call repeats it, so a component that failed to come
// up stays failed until the process restarts.
type lazyErr[T any] struct {
	once  sync.Once
	value T
	err   error
}

func (l *lazyErr[T]) get(build func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.value, l.err = build()
		if l.err != nil {
			var zero T
			l.value = zero
		}
	})
	return l.value, l.err
}

// Container holds all application dependencies and provides methods to access
// them.
type Container struct {
	config *config.Config

	// Infrastructure
	logger            lazy[*slog.Logger]
	kmsService        lazy[cryptoService.KMSService]
	tokenStore        lazy[*authService.MemoryTokenStore]
	clientRegistry    lazyErr[authUseCase.ClientProvider]
	tokenizerRegistry lazyErr[*obfuscationService.TokenizerRegistry]
	metricsProvider   lazyErr[*metrics.Provider]
	businessMetrics   lazyErr[metrics.BusinessMetrics]

	// Services
	secretService lazy[authService.SecretService]
	tokenService  lazy[authService.TokenService]

	// Use Cases
	tokenUseCase       lazyErr[authUseCase.TokenUseCase]
	obfuscationUseCase lazyErr[obfuscationUseCase.ObfuscationUseCase]
	keyspaceUseCase    lazyErr[obfuscationUseCase.KeyspaceUseCase]

	// HTTP Handlers
	tokenHandler       lazyErr[*authHTTP.TokenHandler]
	obfuscationHandler lazyErr[*obfuscationHTTP.ObfuscationHandler]
	keyspaceHandler    lazyErr[*obfuscationHTTP.KeyspaceHandler]

	// Servers
	httpServer    lazyErr[*http.Server]
	metricsServer lazyErr[*http.MetricsServer]

	// mu serializes Shutdown
	mu sync.Mutex
}

// NewContainer creates a container around the given configuration. Nothing is
// built until the first accessor call.
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the process-wide structured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger.get(c.initLogger)
}

// MetricsProvider returns the OpenTelemetry metrics provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return c.metricsProvider.get(c.initMetricsProvider)
}

// BusinessMetrics returns the business metrics recorder. When metrics are
// disabled it returns a no-op implementation so use cases never branch on the
// setting themselves.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return c.businessMetrics.get(c.initBusinessMetrics)
}

// HTTPServer returns the API HTTP server with the full route tree assembled.
func (c *Container) HTTPServer() (*http.Server, error) {
	return c.httpServer.get(c.initHTTPServer)
}

// MetricsServer returns the metrics HTTP server.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return c.metricsServer.get(c.initMetricsServer)
}

// Shutdown releases every resource the container has built so far. Servers
// drain first so in-flight requests finish before the tokenizer registry
// zeroes its derived keys.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if server := c.httpServer.value; server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if server := c.metricsServer.value; server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if provider := c.metricsProvider.value; provider != nil {
		if err := provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if store := c.tokenStore.value; store != nil {
		store.Close()
	}

	if registry := c.tokenizerRegistry.value; registry != nil {
		registry.Close()
	}

	return errors.Join(errs...)
}

// initLogger builds a JSON logger at the configured level, defaulting to info
// for unknown values.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	provider, err := metrics.NewProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	return businessMetrics, nil
}

// initHTTPServer assembles the router configuration from the handlers, the
// authentication middleware, and the optional rate limit and metrics layers.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	registry, err := c.TokenizerRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer registry for http server: %w", err)
	}

	tokenHandler, err := c.TokenHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get token handler for http server: %w", err)
	}

	obfuscationHandler, err := c.ObfuscationHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get obfuscation handler for http server: %w", err)
	}

	keyspaceHandler, err := c.KeyspaceHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get keyspace handler for http server: %w", err)
	}

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for http server: %w", err)
	}

	routerConfig := http.RouterConfig{
		TokenHandler:       tokenHandler,
		ObfuscationHandler: obfuscationHandler,
		KeyspaceHandler:    keyspaceHandler,
		AuthMiddleware:     authHTTP.AuthenticationMiddleware(tokenUseCase, c.TokenService(), logger),
		CORSEnabled:        c.config.CORSEnabled,
		CORSAllowOrigins:   c.config.CORSAllowOrigins,
	}

	if c.config.RateLimitEnabled {
		routerConfig.RateLimitMiddleware = authHTTP.RateLimitMiddleware(
			c.config.RateLimitRequestsPerSec,
			c.config.RateLimitBurst,
			logger,
		)
	}

	if c.config.RateLimitTokenEnabled {
		routerConfig.TokenRateLimitMiddleware = authHTTP.TokenRateLimitMiddleware(
			c.config.RateLimitTokenRequestsPerSec,
			c.config.RateLimitTokenBurst,
			logger,
		)
	}

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
		}
		routerConfig.MetricsMiddleware = metrics.HTTPMetricsMiddleware(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
		)
	}

	server := http.NewServer(registry, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(routerConfig)

	return server, nil
}

// initMetricsServer builds the metrics HTTP server. Without a provider the
// server still runs but exposes no /metrics route.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	logger := c.Logger()

	var provider *metrics.Provider
	if c.config.MetricsEnabled {
		p, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
		}
		provider = p
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, logger, provider), nil
}
