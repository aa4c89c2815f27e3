package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/opaqueid/internal/metrics"
)

// MetricsServer serves the Prometheus scrape endpoint on its own listener so
// operational traffic stays off the API port.
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
}

// metricsRouter assembles the scrape route. A nil provider yields a router
// with no /metrics route, so the listener still answers when metrics are
// disabled.
func metricsRouter(logger *slog.Logger, provider *metrics.Provider) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), CustomLoggerMiddleware(logger))

	if provider != nil {
		router.GET("/metrics", gin.WrapH(provider.Handler()))
	}

	return router
}

// NewMetricsServer builds the metrics listener.
func NewMetricsServer(
	host string,
	port int,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
) *MetricsServer {
	return &MetricsServer{
		server: newHTTPServer(host, port, metricsRouter(logger, metricsProvider)),
		logger: logger,
	}
}

// GetHandler returns the scrape handler, primarily for tests.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start runs the listener until Shutdown is called.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.Info("starting metrics server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the listener.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.server.Shutdown(ctx)
}
