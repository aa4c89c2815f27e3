package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Client represents an API client loaded from the environment at startup.
// Clients authenticate with a secret whose argon2id hash is held here, and are
// authorized through their policy document.
type Client struct {
	ID     string         // Client identifier from the environment entry
	Secret string         // Argon2id PHC hash of the client secret, never the plain text
	Policy PolicyDocument // Authorization policy for this client
}

// IsAllowed checks if the client's policy permits the given operation on the
// specified keyspace. Matching is case-sensitive; keyspace patterns support
// full ("*") and trailing ("users-*") wildcards.
func (c *Client) IsAllowed(operation Operation, keyspace string) bool {
	// Edge case: empty operation or keyspace
	if operation == "" || keyspace == "" {
		return false
	}

	return c.Policy.Allows(operation, keyspace)
}

// ClientRegistry manages the set of API clients loaded at startup.
//
// The registry is immutable after loading; adding or removing a client means
// restarting with a changed API_CLIENTS value. Issued access tokens reference
// clients by id, so a client removed from the environment loses access on the
// next restart even if its sessions are still live.
//
// Thread safety: the registry uses sync.Map internally for concurrent access.
type ClientRegistry struct {
	ids     []string
	clients sync.Map
}

// Get retrieves a client from the registry by its id.
func (r *ClientRegistry) Get(id string) (*Client, bool) {
	if client, ok := r.clients.Load(id); ok {
		return client.(*Client), ok
	}

	return nil, false
}

// IDs returns the client ids in sorted order.
func (r *ClientRegistry) IDs() []string {
	ids := make([]string, len(r.ids))
	copy(ids, r.ids)
	return ids
}

// Len returns the number of clients in the registry.
func (r *ClientRegistry) Len() int {
	return len(r.ids)
}

// LoadClientRegistry loads API clients from the API_CLIENTS environment
// variable, a comma-separated list of entries in the format:
//
//	id:base64(argon2id hash):base64(policy JSON)
//
// Both fields after the id are base64-encoded because PHC hash strings and
// JSON documents contain the separator characters. Entries are produced by the
// create-client command. Example policy document:
//
//	{"statements":[{"operations":["encode","decode"],"keyspaces":["users","orders-*"]}]}
//
// Validation is fail-fast: a malformed entry, an invalid hash, or an invalid
// policy document aborts loading with an error rather than skipping the entry.
//
// Returns:
//   - A fully initialized ClientRegistry ready for use
//   - ErrClientsNotSet if API_CLIENTS is not configured
//   - ErrInvalidClientFormat if an entry does not have three fields
//   - ErrInvalidClientBase64 if base64 decoding fails
//   - ErrInvalidClientSecretHash if a decoded hash is not argon2id PHC
//   - ErrInvalidPolicyDocument if a policy document is unusable
//   - ErrDuplicateClient if two entries share an id
func LoadClientRegistry() (*ClientRegistry, error) {
	raw := os.Getenv("API_CLIENTS")
	if raw == "" {
		return nil, ErrClientsNotSet
	}

	registry := &ClientRegistry{}

	entries := strings.SplitSeq(raw, ",")
	for entry := range entries {
		p := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(p) != 3 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidClientFormat, entry)
		}
		id := p[0]
		if id == "" {
			return nil, fmt.Errorf("%w: empty client id in %q", ErrInvalidClientFormat, entry)
		}

		hashBytes, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			return nil, fmt.Errorf("%w: secret hash for %s: %v", ErrInvalidClientBase64, id, err)
		}
		hashedSecret := string(hashBytes)
		if !strings.HasPrefix(hashedSecret, "$argon2id$") {
			return nil, fmt.Errorf("%w: client %s", ErrInvalidClientSecretHash, id)
		}

		policyBytes, err := base64.StdEncoding.DecodeString(p[2])
		if err != nil {
			return nil, fmt.Errorf("%w: policy for %s: %v", ErrInvalidClientBase64, id, err)
		}
		var policy PolicyDocument
		if err := json.Unmarshal(policyBytes, &policy); err != nil {
			return nil, fmt.Errorf("%w: client %s: %v", ErrInvalidPolicyDocument, id, err)
		}
		if err := policy.Validate(); err != nil {
			return nil, fmt.Errorf("client %s: %w", id, err)
		}

		if _, exists := registry.clients.Load(id); exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateClient, id)
		}

		registry.clients.Store(id, &Client{
			ID:     id,
			Secret: hashedSecret,
			Policy: policy,
		})
		registry.ids = append(registry.ids, id)
	}

	sort.Strings(registry.ids)

	return registry, nil
}
