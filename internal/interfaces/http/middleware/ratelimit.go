package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/merdocx/veilbot/internal/infrastructure/ratelimit"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
	"github.com/merdocx/veilbot/internal/shared/utils"
)

// BundleRateLimitMiddleware throttles the public bundle endpoint per token.
// Limiting by token rather than client IP keeps one user's aggressive client
// from affecting everyone behind the same NAT.
type BundleRateLimitMiddleware struct {
	limiter           ratelimit.RateLimiter
	requestsPerMinute int
	logger            logger.Interface
}

func NewBundleRateLimitMiddleware(
	limiter ratelimit.RateLimiter,
	requestsPerMinute int,
	logger logger.Interface,
) *BundleRateLimitMiddleware {
	return &BundleRateLimitMiddleware{
		limiter:           limiter,
		requestsPerMinute: requestsPerMinute,
		logger:            logger,
	}
}

// LimitByToken enforces the per-token request budget. Limiter failures fail
// open: a degraded Redis must not take the bundle endpoint down with it.
func (m *BundleRateLimitMiddleware) LimitByToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := c.Param("token")
		if tok == "" {
			c.Next()
			return
		}

		allowed, err := m.limiter.Allow("bundle:"+tok, m.requestsPerMinute)
		if err != nil {
			m.logger.Warnw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !allowed {
			m.logger.Warnw("bundle rate limit exceeded", "client_ip", c.ClientIP())
			utils.ErrorResponseWithError(c, apperrors.NewRateLimitedError("too many requests"))
			c.Abort()
			return
		}

		c.Next()
	}
}
