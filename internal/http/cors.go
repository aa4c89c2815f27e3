package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware builds the CORS middleware from configuration, or
// returns nil when CORS is disabled or no usable origin is configured (nil
// keeps the middleware out of the chain entirely).
//
// CORS is off by default: the API is meant for server-to-server callers, and
// only browser-based clients need it. The allow list covers exactly what the
// API serves, GET and POST with bearer authentication.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOriginsStr)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured - CORS will not be applied")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(origins)),
		slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// parseOrigins splits a comma-separated origin list, trimming whitespace and
// dropping empty entries.
func parseOrigins(originsStr string) []string {
	if originsStr == "" {
		return nil
	}

	var origins []string
	for _, part := range strings.Split(originsStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
