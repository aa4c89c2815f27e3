package commands

import (
	"fmt"
	"io"
	"strings"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	"github.com/allisson/opaqueid/internal/config"
	obfuscationService "github.com/allisson/opaqueid/internal/obfuscation/service"
)

// RunCheckConfig prints the configuration the server would boot with: every
// keyspace and API client loaded from the environment plus the effective
// server settings. The registries come from the same loaders the server runs
// at startup, so the command doubles as a deploy preflight: an environment
// this command accepts is an environment the server accepts.
//
// Secret material stays out of the output. Keyspaces appear with their public
// parameters, clients by id only, and the KMS key URI is reduced to its
// scheme because local key URIs embed the key itself.
func RunCheckConfig(
	cfg *config.Config,
	keyspaces *obfuscationService.TokenizerRegistry,
	clients *authDomain.ClientRegistry,
	writer io.Writer,
) {
	_, _ = fmt.Fprintf(writer, "keyspaces (%d):\n", keyspaces.Len())
	for _, info := range keyspaces.Keyspaces() {
		_, _ = fmt.Fprintf(writer, "  %s: %s, %d-bit tag (%d token chars)\n",
			info.Name, info.Algorithm, info.TagBits, info.TagLength)
	}

	_, _ = fmt.Fprintf(writer, "clients (%d):\n", clients.Len())
	for _, id := range clients.IDs() {
		_, _ = fmt.Fprintf(writer, "  %s\n", id)
	}

	_, _ = fmt.Fprintf(writer, "server: %s:%d\n", cfg.ServerHost, cfg.ServerPort)

	if cfg.MetricsEnabled {
		_, _ = fmt.Fprintf(writer, "metrics: port %d, namespace %q\n", cfg.MetricsPort, cfg.MetricsNamespace)
	} else {
		_, _ = fmt.Fprintln(writer, "metrics: disabled")
	}

	_, _ = fmt.Fprintf(writer, "rate limit (authenticated): %s\n",
		limitSummary(cfg.RateLimitEnabled, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst))
	_, _ = fmt.Fprintf(writer, "rate limit (token endpoint): %s\n",
		limitSummary(cfg.RateLimitTokenEnabled, cfg.RateLimitTokenRequestsPerSec, cfg.RateLimitTokenBurst))

	_, _ = fmt.Fprintf(writer, "auth token ttl: %s\n", cfg.AuthTokenExpiration)

	if cfg.CORSEnabled {
		_, _ = fmt.Fprintf(writer, "cors: %s\n", cfg.CORSAllowOrigins)
	} else {
		_, _ = fmt.Fprintln(writer, "cors: disabled")
	}

	_, _ = fmt.Fprintf(writer, "kms: %s\n", kmsScheme(cfg.KMSKeyURI))

	for _, warning := range policyWarnings(keyspaces, clients) {
		_, _ = fmt.Fprintf(writer, "warning: %s\n", warning)
	}
}

// limitSummary renders one rate limit setting for the summary output.
func limitSummary(enabled bool, requestsPerSec float64, burst int) string {
	if !enabled {
		return "disabled"
	}

	return fmt.Sprintf("%g req/s, burst %d", requestsPerSec, burst)
}

// kmsScheme reduces a KMS key URI to its scheme. A base64key URI carries the
// raw key bytes after the scheme, so the rest of the URI must never be echoed.
func kmsScheme(uri string) string {
	scheme, _, found := strings.Cut(uri, "://")
	if !found || scheme == "" {
		return "not configured"
	}

	return scheme
}

// policyWarnings flags client policy statements that name keyspaces the
// environment does not define. A statement like that is almost always a typo
// or a keyspace that was removed without updating the client. Wildcard
// patterns are skipped because a prefix pattern legitimately matches
// keyspaces that do not exist yet.
func policyWarnings(
	keyspaces *obfuscationService.TokenizerRegistry,
	clients *authDomain.ClientRegistry,
) []string {
	var warnings []string

	for _, id := range clients.IDs() {
		client, ok := clients.Get(id)
		if !ok {
			continue
		}

		for _, statement := range client.Policy.Statements {
			for _, pattern := range statement.Keyspaces {
				if strings.HasSuffix(pattern, authDomain.Wildcard) {
					continue
				}

				if _, ok := keyspaces.Get(pattern); !ok {
					warnings = append(warnings,
						fmt.Sprintf("client %q grants access to unknown keyspace %q", id, pattern))
				}
			}
		}
	}

	return warnings
}
