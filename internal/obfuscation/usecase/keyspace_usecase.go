package usecase

import (
	"context"

	"github.com/allisson/opaqueid/internal/obfuscation/domain"
)

// keyspaceUseCase implements KeyspaceUseCase over the registry's public
// keyspace descriptions.
type keyspaceUseCase struct {
	tokenizers TokenizerProvider
}

// List returns public keyspace descriptions ordered by name with pagination.
func (k *keyspaceUseCase) List(ctx context.Context, offset, limit int) ([]domain.KeyspaceInfo, error) {
	infos := k.tokenizers.Keyspaces()

	if offset >= len(infos) {
		return []domain.KeyspaceInfo{}, nil
	}

	end := offset + limit
	if end > len(infos) {
		end = len(infos)
	}

	return infos[offset:end], nil
}

// Get returns the public description of a single keyspace.
func (k *keyspaceUseCase) Get(ctx context.Context, name string) (*domain.KeyspaceInfo, error) {
	for _, info := range k.tokenizers.Keyspaces() {
		if info.Name == name {
			return &info, nil
		}
	}

	return nil, domain.ErrKeyspaceNotFound
}

// NewKeyspaceUseCase creates a new KeyspaceUseCase with injected dependencies.
func NewKeyspaceUseCase(tokenizers TokenizerProvider) KeyspaceUseCase {
	return &keyspaceUseCase{tokenizers: tokenizers}
}
