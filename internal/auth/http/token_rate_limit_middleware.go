package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// TokenRateLimitMiddleware enforces per-IP rate limiting on the token issuance
// endpoint, which is reachable without credentials and therefore the natural
// target for stuffing attempts.
//
// The limiter key comes from c.ClientIP(), so X-Forwarded-For and X-Real-IP are
// honored for proxied traffic. Each IP gets an independent token bucket; rps is
// the sustained rate and burst the spike capacity. Rejections get a 429 with a
// Retry-After header.
func TokenRateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore(rps, burst)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		limiter := store.getLimiter(clientIP)
		if limiter.Allow() {
			c.Next()
			return
		}

		retryAfter := rejectRateLimited(c, limiter,
			"Too many token requests from this IP. Please retry after the specified delay.")
		logger.Debug("token rate limit exceeded",
			slog.String("client_ip", clientIP),
			slog.Int("retry_after", retryAfter))
	}
}
