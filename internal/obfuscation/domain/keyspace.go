package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/allisson/opaqueid/internal/config"
	cryptoDomain "github.com/allisson/opaqueid/internal/crypto/domain"
)

// Keyspace holds the secret material and parameters for one independent token
// namespace.
//
// Each keyspace derives its own obfuscation key from its password and salt, so
// tokens issued under one keyspace never decode under another. The password is
// the only secret; the salt, algorithm, and tag length are public parameters
// that must nevertheless stay stable for the lifetime of the keyspace, because
// every one of them feeds the derived key or the token layout.
//
// Fields:
//   - Name: Unique identifier for the keyspace (e.g., "users", "orders")
//   - Password: The unwrapped secret used for key derivation
//   - Salt: Public key derivation salt
//   - Algorithm: HMAC digest for key derivation and integrity tags
//   - TagBits: Integrity tag length in bits
type Keyspace struct {
	Name      string
	Password  []byte
	Salt      []byte
	Algorithm HashAlgorithm
	TagBits   int
}

// KeyspaceInfo is the public description of a keyspace, safe to list over the
// API. It carries no key material.
type KeyspaceInfo struct {
	Name      string        `json:"name"`
	Algorithm HashAlgorithm `json:"algorithm"`
	TagBits   int           `json:"tag_bits"`
	TagLength int           `json:"tag_length"`
}

// KeyspaceChain manages the set of keyspaces loaded at startup.
//
// Multiple keyspaces can coexist so that different entity types (or different
// tenants) obfuscate identifiers under unrelated keys. The chain is immutable
// after loading; adding a keyspace means restarting with an extended
// OBFUSCATION_KEYSPACES value, which leaves existing tokens valid because each
// keyspace's parameters are untouched.
//
// Thread safety: the chain uses sync.Map internally for concurrent access.
type KeyspaceChain struct {
	names []string
	keys  sync.Map
}

// Get retrieves a keyspace from the chain by its name.
func (k *KeyspaceChain) Get(name string) (*Keyspace, bool) {
	if keyspace, ok := k.keys.Load(name); ok {
		return keyspace.(*Keyspace), ok
	}

	return nil, false
}

// Names returns the keyspace names in sorted order.
func (k *KeyspaceChain) Names() []string {
	names := make([]string, len(k.names))
	copy(names, k.names)
	return names
}

// Len returns the number of keyspaces in the chain.
func (k *KeyspaceChain) Len() int {
	return len(k.names)
}

// Close securely clears all keyspace passwords from memory and resets the
// chain.
//
// This method should be called when the chain is no longer needed (e.g. during
// application shutdown). It ensures the unwrapped passwords are removed from
// memory.
func (k *KeyspaceChain) Close() {
	k.keys.Range(func(_, value any) bool {
		keyspace := value.(*Keyspace)
		cryptoDomain.Zero(keyspace.Password)
		return true
	})
	k.names = nil
	k.keys.Clear()
}

// KMSService opens keepers capable of unwrapping keyspace passwords.
//
// The concrete implementation lives in the crypto service package; the
// interface is declared here so keyspace loading does not depend on it.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

// LoadKeyspaceChain loads keyspaces from environment variables, unwrapping
// each password through the KMS keeper named by the configuration.
//
// The function reads keyspace configuration from OBFUSCATION_KEYSPACES, a
// comma-separated list of entries in the format:
//
//	name:base64(wrapped password):base64(salt):algorithm:tagBits
//
// The password field is the KMS-wrapped secret produced by the
// create-keyspace command. The algorithm and tagBits fields may be left empty
// to use the defaults (sha256, 64). Example:
//
//	OBFUSCATION_KEYSPACES="users:bXl3cmFwcGVk...:YmF0dGVyeQ==:sha256:64,orders:ZXhhbXBsZQ==:c2FsdA==::"
//
// Validation is fail-fast: an unusable entry (bad format, bad base64, unwrap
// failure, unsupported algorithm, or a tag length the algorithm cannot
// provide) aborts loading with an error rather than clamping or skipping the
// entry. Tag lengths below MinRecommendedTagBits load but log a warning.
//
// Security notes:
//   - Wrapped password bytes are zeroed once the unwrapped copy is stored
//   - On error, the chain is closed to prevent partial initialization
//
// Returns:
//   - A fully initialized KeyspaceChain ready for use
//   - ErrKeyspacesNotSet if OBFUSCATION_KEYSPACES is not configured
//   - ErrKMSKeyURINotSet if the configuration has no KMS key URI
//   - ErrInvalidKeyspaceFormat if an entry does not have five fields
//   - ErrInvalidKeyspaceBase64 if base64 decoding fails
//   - ErrKeyspaceUnwrapFailed if the keeper cannot decrypt a password
//   - ErrInvalidTagBits if a tag length cannot be used with its algorithm
//   - ErrDuplicateKeyspace if two entries share a name
func LoadKeyspaceChain(
	ctx context.Context,
	cfg *config.Config,
	kmsService KMSService,
	logger *slog.Logger,
) (*KeyspaceChain, error) {
	raw := os.Getenv("OBFUSCATION_KEYSPACES")
	if raw == "" {
		return nil, ErrKeyspacesNotSet
	}

	if cfg.KMSKeyURI == "" {
		return nil, ErrKMSKeyURINotSet
	}

	keeper, err := kmsService.OpenKeeper(ctx, cfg.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	kc := &KeyspaceChain{}

	parts := strings.SplitSeq(raw, ",")
	for part := range parts {
		p := strings.SplitN(strings.TrimSpace(part), ":", 5)
		if len(p) != 5 {
			kc.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidKeyspaceFormat, part)
		}
		name := p[0]
		if name == "" {
			kc.Close()
			return nil, fmt.Errorf("%w: empty keyspace name in %q", ErrInvalidKeyspaceFormat, part)
		}

		wrapped, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			kc.Close()
			return nil, fmt.Errorf("%w: password for %s: %v", ErrInvalidKeyspaceBase64, name, err)
		}
		salt, err := base64.StdEncoding.DecodeString(p[2])
		if err != nil {
			kc.Close()
			return nil, fmt.Errorf("%w: salt for %s: %v", ErrInvalidKeyspaceBase64, name, err)
		}

		algorithm := HashSHA256
		if p[3] != "" {
			algorithm = HashAlgorithm(p[3])
		}
		tagBits := DefaultTagBits
		if p[4] != "" {
			tagBits, err = strconv.Atoi(p[4])
			if err != nil {
				kc.Close()
				return nil, fmt.Errorf("%w: tag bits for %s: %v", ErrInvalidKeyspaceFormat, name, err)
			}
		}
		if err := ValidateTagBits(algorithm, tagBits); err != nil {
			kc.Close()
			return nil, fmt.Errorf("keyspace %s: %w", name, err)
		}

		password, err := keeper.Decrypt(ctx, wrapped)
		cryptoDomain.Zero(wrapped)
		if err != nil {
			kc.Close()
			return nil, fmt.Errorf("%w for %s: %v", ErrKeyspaceUnwrapFailed, name, err)
		}

		if _, exists := kc.keys.Load(name); exists {
			cryptoDomain.Zero(password)
			kc.Close()
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKeyspace, name)
		}

		if tagBits < MinRecommendedTagBits {
			logger.Warn("keyspace tag length below recommended minimum",
				slog.String("keyspace", name),
				slog.Int("tag_bits", tagBits),
				slog.Int("min_recommended", MinRecommendedTagBits),
			)
		}

		kc.keys.Store(name, &Keyspace{
			Name:      name,
			Password:  password,
			Salt:      salt,
			Algorithm: algorithm,
			TagBits:   tagBits,
		})
		kc.names = append(kc.names, name)
	}

	sort.Strings(kc.names)

	return kc, nil
}
