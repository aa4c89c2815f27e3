package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/opaqueid/internal/app"
	"github.com/allisson/opaqueid/internal/config"
)

// shutdownTimeout bounds how long in-flight requests may run once shutdown
// begins.
const shutdownTimeout = 30 * time.Second

// RunServer starts the HTTP API and metrics servers with graceful shutdown
// support. Loads configuration, initializes the DI container, and runs both
// servers in an errgroup. Blocks until receiving SIGINT/SIGTERM or until one
// server fails; either way both servers are shut down within shutdownTimeout.
func RunServer(ctx context.Context, version string) error {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on log level
	gin.SetMode(cfg.GetGinMode())

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Getting the HTTP server initializes the whole dependency graph, keyspace
	// loading included, so configuration problems surface here rather than on
	// the first request.
	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	// Get Metrics server from container
	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.Start(groupCtx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		if err := metricsServer.Start(groupCtx); err != nil {
			return fmt.Errorf("metrics server error: %w", err)
		}
		return nil
	})

	// The group context ends on a signal or when one server fails. Shut down
	// both servers and let Wait surface whichever errors occurred.
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down servers")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var shutdownErrors []error

		if err := server.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
		}

		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}

		return errors.Join(shutdownErrors...)
	})

	return group.Wait()
}
