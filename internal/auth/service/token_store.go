package service

import (
	"context"
	"sync"
	"time"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
)

// DefaultSweepInterval is how often the token store removes expired sessions.
const DefaultSweepInterval = 5 * time.Minute

// MemoryTokenStore holds issued access tokens in process memory, keyed by the
// SHA-256 hash of the bearer token. Sessions do not survive restarts: clients
// re-authenticate after a deploy.
//
// A sweeper goroutine removes expired sessions periodically so abandoned
// tokens do not accumulate. Expiration is still enforced on every lookup by
// the token use case; the sweeper only bounds memory.
type MemoryTokenStore struct {
	tokens    sync.Map // map[string]*authDomain.Token (token hash -> token)
	done      chan struct{}
	closeOnce sync.Once
}

// Store saves an issued token under its hash.
func (s *MemoryTokenStore) Store(_ context.Context, token *authDomain.Token) error {
	s.tokens.Store(token.TokenHash, token)
	return nil
}

// GetByTokenHash retrieves a token by its SHA-256 hash. Returns
// ErrTokenNotFound when the hash is unknown or the session was swept.
func (s *MemoryTokenStore) GetByTokenHash(_ context.Context, tokenHash string) (*authDomain.Token, error) {
	val, ok := s.tokens.Load(tokenHash)
	if !ok {
		return nil, authDomain.ErrTokenNotFound
	}
	return val.(*authDomain.Token), nil
}

// Len returns the number of sessions currently held, expired ones included.
func (s *MemoryTokenStore) Len() int {
	count := 0
	s.tokens.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// Close stops the expiry sweeper. Safe to call more than once.
func (s *MemoryTokenStore) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// sweep removes expired tokens on an interval until Close is called.
func (s *MemoryTokenStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now().UTC()
			s.tokens.Range(func(key, value any) bool {
				if value.(*authDomain.Token).Expired(now) {
					s.tokens.Delete(key)
				}
				return true
			})
		}
	}
}

// NewMemoryTokenStore creates a token store and starts its expiry sweeper.
// The caller owns the store and must Close it to stop the sweeper.
func NewMemoryTokenStore(sweepInterval time.Duration) *MemoryTokenStore {
	store := &MemoryTokenStore{
		done: make(chan struct{}),
	}
	go store.sweep(sweepInterval)
	return store
}
