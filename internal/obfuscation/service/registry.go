package service

import (
	"fmt"

	"github.com/allisson/opaqueid/internal/obfuscation/domain"
)

// TokenizerRegistry holds one ready tokenizer per keyspace.
//
// The registry is built once at startup from the loaded keyspace chain. After
// construction it only carries derived keys and public keyspace parameters,
// so the chain (and the passwords it holds) can be closed immediately.
type TokenizerRegistry struct {
	tokenizers map[string]*Tokenizer
	infos      []domain.KeyspaceInfo
}

// NewTokenizerRegistry derives a tokenizer for every keyspace in the chain.
// Construction is all or nothing: a keyspace whose tokenizer cannot be built
// fails the whole registry, and keys derived for earlier keyspaces are zeroed
// before returning the error.
func NewTokenizerRegistry(chain *domain.KeyspaceChain) (*TokenizerRegistry, error) {
	tokenizers := make(map[string]*Tokenizer, chain.Len())
	infos := make([]domain.KeyspaceInfo, 0, chain.Len())

	for _, name := range chain.Names() {
		keyspace, ok := chain.Get(name)
		if !ok {
			continue
		}

		tokenizer, err := NewTokenizer(
			keyspace.Password,
			keyspace.Salt,
			keyspace.Algorithm,
			keyspace.TagBits,
		)
		if err != nil {
			for _, t := range tokenizers {
				t.Close()
			}
			return nil, fmt.Errorf("keyspace %s: %w", name, err)
		}

		tokenizers[name] = tokenizer
		infos = append(infos, domain.KeyspaceInfo{
			Name:      name,
			Algorithm: keyspace.Algorithm,
			TagBits:   keyspace.TagBits,
			TagLength: domain.TagLenBase32(keyspace.TagBits),
		})
	}

	return &TokenizerRegistry{tokenizers: tokenizers, infos: infos}, nil
}

// Get retrieves the tokenizer for a keyspace by name.
func (r *TokenizerRegistry) Get(name string) (*Tokenizer, bool) {
	tokenizer, ok := r.tokenizers[name]
	return tokenizer, ok
}

// Keyspaces returns the public descriptions of all keyspaces in name order.
func (r *TokenizerRegistry) Keyspaces() []domain.KeyspaceInfo {
	infos := make([]domain.KeyspaceInfo, len(r.infos))
	copy(infos, r.infos)
	return infos
}

// Len returns the number of keyspaces in the registry.
func (r *TokenizerRegistry) Len() int {
	return len(r.tokenizers)
}

// Close zeroes every derived key. The registry must not be used afterwards.
func (r *TokenizerRegistry) Close() {
	for _, tokenizer := range r.tokenizers {
		tokenizer.Close()
	}
}
