// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
//
// Keyspace and API client definitions are not part of this struct: they carry
// secret material and are parsed straight from their environment variables by
// the domain loaders (OBFUSCATION_KEYSPACES, API_CLIENTS).
type Config struct {
	// ServerHost is the address the API server binds to.
	ServerHost string
	// ServerPort is the API server port.
	ServerPort int

	// LogLevel sets the slog level: "debug", "info", "warn", or "error".
	LogLevel string

	// AuthTokenExpiration is how long an issued access token stays valid.
	AuthTokenExpiration time.Duration

	// RateLimitEnabled toggles per-client rate limiting on authenticated endpoints.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the sustained per-client request rate.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the per-client burst capacity.
	RateLimitBurst int

	// RateLimitTokenEnabled toggles per-IP rate limiting on the token endpoint.
	RateLimitTokenEnabled bool
	// RateLimitTokenRequestsPerSec is the sustained per-IP request rate.
	RateLimitTokenRequestsPerSec float64
	// RateLimitTokenBurst is the per-IP burst capacity.
	RateLimitTokenBurst int

	// CORSEnabled toggles the CORS middleware.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled toggles the metrics provider and its server.
	MetricsEnabled bool
	// MetricsNamespace prefixes every application metric name.
	MetricsNamespace string
	// MetricsPort is the metrics server port.
	MetricsPort int

	// KMSKeyURI selects the keeper that unwraps keyspace passwords. The provider
	// is inferred from the URI scheme (gcpkms://, awskms://, azurekeyvault://,
	// hashivault://, base64key://).
	KMSKeyURI string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Auth
		AuthTokenExpiration: env.GetDuration("AUTH_TOKEN_EXPIRATION_SECONDS", 14400, time.Second),

		// Rate limiting for authenticated endpoints
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// Rate limiting for the token endpoint (credential guessing protection)
		RateLimitTokenEnabled:        env.GetBool("RATE_LIMIT_TOKEN_ENABLED", true),
		RateLimitTokenRequestsPerSec: env.GetFloat64("RATE_LIMIT_TOKEN_REQUESTS_PER_SEC", 5.0),
		RateLimitTokenBurst:          env.GetInt("RATE_LIMIT_TOKEN_BURST", 10),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "opaqueid"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// KMS configuration
		KMSKeyURI: env.GetString("KMS_KEY_URI", ""),
	}
}

// GetGinMode maps the log level to a Gin mode: debug logging gets Gin's debug
// mode, everything else runs in release mode.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// loadDotEnv walks from the working directory toward the filesystem root and
// loads the first .env file it finds. A missing file is fine; deployments set
// environment variables directly.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
