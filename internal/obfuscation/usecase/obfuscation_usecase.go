package usecase

import (
	"context"

	"github.com/allisson/opaqueid/internal/obfuscation/domain"
)

// obfuscationUseCase implements ObfuscationUseCase on top of the tokenizer
// registry built at startup.
type obfuscationUseCase struct {
	tokenizers TokenizerProvider
}

// Encode obfuscates a non-negative decimal identifier under the named keyspace.
func (o *obfuscationUseCase) Encode(ctx context.Context, keyspace, id string) (string, error) {
	tokenizer, ok := o.tokenizers.Get(keyspace)
	if !ok {
		return "", domain.ErrKeyspaceNotFound
	}

	return tokenizer.Encode(id)
}

// Decode verifies a token under the named keyspace and recovers the original
// identifier.
func (o *obfuscationUseCase) Decode(ctx context.Context, keyspace, token string) (string, error) {
	tokenizer, ok := o.tokenizers.Get(keyspace)
	if !ok {
		return "", domain.ErrKeyspaceNotFound
	}

	return tokenizer.Decode(token)
}

// NewObfuscationUseCase creates a new ObfuscationUseCase with injected dependencies.
func NewObfuscationUseCase(tokenizers TokenizerProvider) ObfuscationUseCase {
	return &obfuscationUseCase{tokenizers: tokenizers}
}
