package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/opaqueid/internal/errors"
	"github.com/allisson/opaqueid/internal/httputil"
)

const (
	// limiterEvictInterval is how often idle limiters are swept.
	limiterEvictInterval = 5 * time.Minute
	// limiterStaleAfter is how long a limiter may sit unused before eviction.
	limiterStaleAfter = time.Hour
)

// limiterStore hands out one token bucket limiter per key and evicts entries
// idle past limiterStaleAfter. Keys are client IDs for authenticated traffic
// and IP addresses for the token endpoint.
type limiterStore struct {
	limiters sync.Map // map[string]*limiterEntry
	rps      float64
	burst    int
}

type limiterEntry struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

func (e *limiterEntry) touch() {
	e.mu.Lock()
	e.lastAccess = time.Now()
	e.mu.Unlock()
}

// newLimiterStore creates a store and starts its background eviction loop.
func newLimiterStore(rps float64, burst int) *limiterStore {
	store := &limiterStore{rps: rps, burst: burst}
	go store.evictLoop(context.Background())
	return store
}

// getLimiter returns the limiter for key, creating it on first use.
func (s *limiterStore) getLimiter(key string) *rate.Limiter {
	if val, ok := s.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.touch()
		return entry.limiter
	}

	fresh := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: time.Now(),
	}
	val, loaded := s.limiters.LoadOrStore(key, fresh)
	entry := val.(*limiterEntry)
	if loaded {
		entry.touch()
	}
	return entry.limiter
}

// evictLoop sweeps idle limiters so client and IP churn cannot grow the map
// without bound.
func (s *limiterStore) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(limiterEvictInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle(time.Now().Add(-limiterStaleAfter))
		}
	}
}

// evictIdle removes entries whose last access is before cutoff.
func (s *limiterStore) evictIdle(cutoff time.Time) {
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(cutoff)
		entry.mu.Unlock()
		if stale {
			s.limiters.Delete(key)
		}
		return true
	})
}

// rejectRateLimited aborts the request with 429 and a Retry-After hint derived
// from the limiter's next free slot. Returns the hint for logging.
func rejectRateLimited(c *gin.Context, limiter *rate.Limiter, message string) int {
	reservation := limiter.Reserve()
	retryAfter := int(reservation.Delay().Seconds())
	reservation.Cancel()

	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":   "rate_limit_exceeded",
		"message": message,
	})
	c.Abort()
	return retryAfter
}

// RateLimitMiddleware enforces per-client rate limiting on authenticated requests.
//
// MUST be used after AuthenticationMiddleware: the limiter key is the client ID
// taken from the request context, and a missing client is treated as unauthorized.
// Uses the token bucket algorithm via golang.org/x/time/rate; rps is the sustained
// rate per client and burst the spike capacity. Rejections get a 429 with a
// Retry-After header.
func RateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore(rps, burst)

	return func(c *gin.Context) {
		client, ok := GetClient(c.Request.Context())
		if !ok || client == nil {
			// Authentication middleware should have rejected this already.
			logger.Error("rate limit middleware: no authenticated client in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		limiter := store.getLimiter(client.ID)
		if limiter.Allow() {
			c.Next()
			return
		}

		retryAfter := rejectRateLimited(c, limiter,
			"Too many requests. Please retry after the specified delay.")
		logger.Debug("rate limit exceeded",
			slog.String("client_id", client.ID),
			slog.Int("retry_after", retryAfter))
	}
}
