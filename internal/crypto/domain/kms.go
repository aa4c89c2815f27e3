// Package domain defines the KMS keeper abstraction used to protect keyspace
// passwords at rest, plus helpers for handling secret material in memory.
package domain

import "context"

// KMSKeeper is the subset of gocloud.dev's *secrets.Keeper used to wrap and
// unwrap keyspace passwords. The server only ever unwraps; Encrypt exists for
// the create-keyspace command, which prints wrapped env entries.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
