// Package http provides the API HTTP server: route assembly, liveness and
// readiness endpoints, and graceful shutdown.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/opaqueid/internal/auth/http"
	obfuscationHTTP "github.com/allisson/opaqueid/internal/obfuscation/http"
	"github.com/allisson/opaqueid/internal/obfuscation/service"
)

// Timeouts shared by the API and metrics listeners. Encode and decode work is
// CPU-bound and fast, so slow requests indicate a stuck client, not a slow
// backend.
const (
	serverReadTimeout  = 15 * time.Second
	serverWriteTimeout = 15 * time.Second
	serverIdleTimeout  = 60 * time.Second
)

// newHTTPServer builds an http.Server with the standard timeouts. The
// handler may be nil when routes are assembled later.
func newHTTPServer(host string, port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      handler,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}
}

// Server represents the API HTTP server.
type Server struct {
	server   *http.Server
	router   *gin.Engine
	registry *service.TokenizerRegistry
	logger   *slog.Logger
}

// NewServer creates a new HTTP server. The registry is consulted only by the
// readiness endpoint; SetupRouter wires the routes.
func NewServer(
	registry *service.TokenizerRegistry,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		server:   newHTTPServer(host, port, nil),
		registry: registry,
		logger:   logger,
	}
}

// RouterConfig carries the handlers and middleware SetupRouter assembles into
// the route tree. Nil middleware entries are skipped, which is how disabled
// features (rate limiting, metrics, CORS) stay out of the chain.
type RouterConfig struct {
	TokenHandler       *authHTTP.TokenHandler
	ObfuscationHandler *obfuscationHTTP.ObfuscationHandler
	KeyspaceHandler    *obfuscationHTTP.KeyspaceHandler

	AuthMiddleware           gin.HandlerFunc
	RateLimitMiddleware      gin.HandlerFunc
	TokenRateLimitMiddleware gin.HandlerFunc
	MetricsMiddleware        gin.HandlerFunc

	CORSEnabled      bool
	CORSAllowOrigins string
}

// SetupRouter builds the gin engine with the full middleware chain and route
// tree. The chain order matters: the request id comes first so every later log
// line can carry it, the logger sits outside recovery so panics are still
// logged with their 500 status, and metrics wrap everything below them.
func (s *Server) SetupRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	router.Use(gin.Recovery())

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if cfg.MetricsMiddleware != nil {
		router.Use(cfg.MetricsMiddleware)
	}

	// Liveness and readiness stay outside authentication
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/api/v1")

	// Token issuance is unauthenticated; the per-IP limiter guards it against
	// credential guessing
	auth := v1.Group("/auth")
	if cfg.TokenRateLimitMiddleware != nil {
		auth.Use(cfg.TokenRateLimitMiddleware)
	}
	auth.POST("/token", cfg.TokenHandler.IssueTokenHandler)

	// Everything else requires a bearer token
	protected := v1.Group("")
	protected.Use(cfg.AuthMiddleware)
	if cfg.RateLimitMiddleware != nil {
		protected.Use(cfg.RateLimitMiddleware)
	}

	obfuscation := protected.Group("/obfuscation")
	obfuscation.POST("/encode", cfg.ObfuscationHandler.EncodeHandler)
	obfuscation.POST("/decode", cfg.ObfuscationHandler.DecodeHandler)

	keyspaces := protected.Group("/keyspaces")
	keyspaces.GET("", cfg.KeyspaceHandler.ListHandler)
	keyspaces.GET("/:name", cfg.KeyspaceHandler.GetHandler)

	s.router = router
	return router
}

// GetHandler returns the assembled handler, primarily for tests that serve the
// router through httptest.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. SetupRouter must have been called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not initialized, call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can do useful work. Ready means
// the keyspace registry loaded with at least one tokenizer; a server that
// decodes nothing should not receive traffic.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.registry == nil || s.registry.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"keyspaces": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"keyspaces": "ok"},
	})
}
