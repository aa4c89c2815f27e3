// Package usecase defines interfaces and implementations for obfuscation use cases.
// Provides keyspace-scoped identifier encoding and decoding plus keyspace introspection.
package usecase

import (
	"context"

	"github.com/allisson/opaqueid/internal/obfuscation/domain"
	"github.com/allisson/opaqueid/internal/obfuscation/service"
)

// TokenizerProvider supplies the per-keyspace tokenizers built at startup.
type TokenizerProvider interface {
	Get(name string) (*service.Tokenizer, bool)
	Keyspaces() []domain.KeyspaceInfo
	Len() int
}

// ObfuscationUseCase defines the identifier obfuscation operations.
type ObfuscationUseCase interface {
	// Encode obfuscates a non-negative decimal identifier under the named
	// keyspace. Returns domain.ErrKeyspaceNotFound for unknown keyspaces and
	// domain.ErrInvalidIdentifier for identifiers that are not decimal integers.
	Encode(ctx context.Context, keyspace, id string) (string, error)

	// Decode verifies a token under the named keyspace and recovers the
	// original identifier. Every invalid token reports domain.ErrInvalidToken;
	// whether it was malformed or failed tag verification is preserved in the
	// wrapped error for logging, never in the caller-visible outcome.
	Decode(ctx context.Context, keyspace, token string) (string, error)
}

// KeyspaceUseCase defines keyspace introspection operations.
type KeyspaceUseCase interface {
	// List returns public keyspace descriptions ordered by name with pagination.
	List(ctx context.Context, offset, limit int) ([]domain.KeyspaceInfo, error)

	// Get returns the public description of a single keyspace.
	Get(ctx context.Context, name string) (*domain.KeyspaceInfo, error)
}
