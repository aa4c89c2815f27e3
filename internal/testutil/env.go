// Package testutil provides helpers for tests that build environment
// configuration entries.
//
// Keyspaces and API clients reach the application through the
// OBFUSCATION_KEYSPACES and API_CLIENTS environment variables. Assembling a
// valid entry takes several steps (wrap the password with a keeper, hash the
// client secret, base64-encode the parts), so tests share the assembly here.
//
// Usage:
//
//	keeper, _ := kmsService.OpenKeeper(ctx, testutil.LocalKMSKeyURI)
//	entry := testutil.KeyspaceEntry(t, keeper, "users", "password", "salt", "sha256", 64)
//	t.Setenv("OBFUSCATION_KEYSPACES", entry)
//
//	entry, secret := testutil.ClientEntry(t, secretService, "ci-client", policy)
//	t.Setenv("API_CLIENTS", entry)
package testutil

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	authService "github.com/allisson/opaqueid/internal/auth/service"
	cryptoDomain "github.com/allisson/opaqueid/internal/crypto/domain"
)

// LocalKMSKeyURI selects a fixed base64key keeper so tests never need cloud
// credentials. The key is test-only material.
const LocalKMSKeyURI = "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

// KeyspaceEntry builds one OBFUSCATION_KEYSPACES entry with the password
// wrapped by the keeper. Join entries with commas to configure several
// keyspaces at once.
func KeyspaceEntry(
	t *testing.T,
	keeper cryptoDomain.KMSKeeper,
	name, password, salt, algorithm string,
	tagBits int,
) string {
	t.Helper()

	wrapped, err := keeper.Encrypt(context.Background(), []byte(password))
	require.NoError(t, err, "failed to wrap keyspace password")

	return fmt.Sprintf("%s:%s:%s:%s:%d",
		name,
		base64.StdEncoding.EncodeToString(wrapped),
		base64.StdEncoding.EncodeToString([]byte(salt)),
		algorithm,
		tagBits,
	)
}

// ClientEntry builds one API_CLIENTS entry for the given policy and returns it
// together with the plain client secret.
func ClientEntry(
	t *testing.T,
	secretService authService.SecretService,
	clientID string,
	policy authDomain.PolicyDocument,
) (string, string) {
	t.Helper()

	require.NoError(t, policy.Validate(), "policy must be valid")

	plainSecret, hashedSecret, err := secretService.GenerateSecret()
	require.NoError(t, err, "failed to generate client secret")

	policyJSON, err := json.Marshal(policy)
	require.NoError(t, err, "failed to marshal policy")

	entry := fmt.Sprintf("%s:%s:%s",
		clientID,
		base64.StdEncoding.EncodeToString([]byte(hashedSecret)),
		base64.StdEncoding.EncodeToString(policyJSON),
	)

	return entry, plainSecret
}
