package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	authService "github.com/allisson/opaqueid/internal/auth/service"
	"github.com/allisson/opaqueid/internal/config"
	"github.com/allisson/opaqueid/internal/testutil"
)

// newTestClientRegistry loads a registry with a single client through the
// same env path the server uses.
func newTestClientRegistry(
	t *testing.T,
	clientID string,
	policy authDomain.PolicyDocument,
) *authDomain.ClientRegistry {
	t.Helper()

	entry, _ := testutil.ClientEntry(t, authService.NewSecretService(), clientID, policy)
	t.Setenv("API_CLIENTS", entry)

	registry, err := authDomain.LoadClientRegistry()
	require.NoError(t, err)

	return registry
}

func TestRunCheckConfig(t *testing.T) {
	keyspaces := newTestRegistry(t)

	allowAll := authDomain.PolicyDocument{
		Statements: []authDomain.PolicyStatement{
			{Operations: []string{"*"}, Keyspaces: []string{"*"}},
		},
	}

	t.Run("success", func(t *testing.T) {
		clients := newTestClientRegistry(t, "billing-service", allowAll)
		cfg := &config.Config{
			ServerHost:                   "127.0.0.1",
			ServerPort:                   9090,
			AuthTokenExpiration:          4 * time.Hour,
			RateLimitEnabled:             true,
			RateLimitRequestsPerSec:      10,
			RateLimitBurst:               20,
			RateLimitTokenEnabled:        true,
			RateLimitTokenRequestsPerSec: 5,
			RateLimitTokenBurst:          10,
			MetricsEnabled:               true,
			MetricsNamespace:             "opaqueid",
			MetricsPort:                  9191,
			KMSKeyURI:                    localKMSKeyURI,
		}

		var out bytes.Buffer
		RunCheckConfig(cfg, keyspaces, clients, &out)
		summary := out.String()

		assert.Contains(t, summary, "keyspaces (2):")
		assert.Contains(t, summary, "  users: sha256, 64-bit tag (13 token chars)")
		assert.Contains(t, summary, "  orders: sha256, 64-bit tag (13 token chars)")
		assert.Contains(t, summary, "clients (1):")
		assert.Contains(t, summary, "  billing-service")
		assert.Contains(t, summary, "server: 127.0.0.1:9090")
		assert.Contains(t, summary, `metrics: port 9191, namespace "opaqueid"`)
		assert.Contains(t, summary, "rate limit (authenticated): 10 req/s, burst 20")
		assert.Contains(t, summary, "rate limit (token endpoint): 5 req/s, burst 10")
		assert.Contains(t, summary, "auth token ttl: 4h0m0s")
		assert.Contains(t, summary, "cors: disabled")
		assert.Contains(t, summary, "kms: base64key")
		assert.NotContains(t, summary, "warning:")

		// The key material after the scheme must never be echoed.
		keyBytes := strings.TrimPrefix(localKMSKeyURI, "base64key://")
		assert.NotContains(t, summary, keyBytes)
	})

	t.Run("disabled-features", func(t *testing.T) {
		clients := newTestClientRegistry(t, "billing-service", allowAll)
		cfg := &config.Config{
			ServerHost: "0.0.0.0",
			ServerPort: 8080,
		}

		var out bytes.Buffer
		RunCheckConfig(cfg, keyspaces, clients, &out)
		summary := out.String()

		assert.Contains(t, summary, "metrics: disabled")
		assert.Contains(t, summary, "rate limit (authenticated): disabled")
		assert.Contains(t, summary, "rate limit (token endpoint): disabled")
		assert.Contains(t, summary, "kms: not configured")
	})

	t.Run("cors-origins-listed", func(t *testing.T) {
		clients := newTestClientRegistry(t, "billing-service", allowAll)
		cfg := &config.Config{
			CORSEnabled:      true,
			CORSAllowOrigins: "https://app.example.com",
		}

		var out bytes.Buffer
		RunCheckConfig(cfg, keyspaces, clients, &out)

		assert.Contains(t, out.String(), "cors: https://app.example.com")
	})

	t.Run("unknown-keyspace-warning", func(t *testing.T) {
		policy := authDomain.PolicyDocument{
			Statements: []authDomain.PolicyStatement{
				{Operations: []string{"encode"}, Keyspaces: []string{"users", "payments", "orders-*"}},
			},
		}
		clients := newTestClientRegistry(t, "billing-service", policy)

		var out bytes.Buffer
		RunCheckConfig(&config.Config{}, keyspaces, clients, &out)
		summary := out.String()

		assert.Contains(t, summary, `warning: client "billing-service" grants access to unknown keyspace "payments"`)
		assert.NotContains(t, summary, `unknown keyspace "users"`)
		assert.NotContains(t, summary, `unknown keyspace "orders-*"`)
	})
}

func TestKMSScheme(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{name: "LocalKey", uri: "base64key://c2VjcmV0", want: "base64key"},
		{name: "CloudKey", uri: "gcpkms://projects/p/locations/l/keyRings/r/cryptoKeys/k", want: "gcpkms"},
		{name: "Empty", uri: "", want: "not configured"},
		{name: "NoScheme", uri: "just-a-value", want: "not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kmsScheme(tt.uri))
		})
	}
}
