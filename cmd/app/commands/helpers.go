// Package commands contains CLI command implementations for the application.
// Each command takes its dependencies and an io.Writer explicitly so tests can
// drive it without a process or real stdout.
package commands

import (
	"context"
	"log/slog"

	"github.com/allisson/opaqueid/internal/app"
)

// closeContainer releases the container's resources and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}
