package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/vipgate/internal/infrastructure/ratelimit"
	"github.com/orris-inc/vipgate/internal/shared/constants"
	"github.com/orris-inc/vipgate/internal/shared/logger"
	"github.com/orris-inc/vipgate/internal/shared/utils"
)

// AdmissionMiddleware charges one token per request to the acting user's bucket.
type AdmissionMiddleware struct {
	limiter    ratelimit.Limiter
	retryAfter time.Duration
	logger     logger.Interface
}

func NewAdmissionMiddleware(limiter ratelimit.Limiter, cfg ratelimit.TokenBucketConfig, logger logger.Interface) *AdmissionMiddleware {
	// time for one token to come back
	retryAfter := time.Second
	if cfg.RefillPerSec > 0 {
		retryAfter = time.Duration(float64(time.Second) / cfg.RefillPerSec)
	}
	return &AdmissionMiddleware{
		limiter:    limiter,
		retryAfter: retryAfter,
		logger:     logger,
	}
}

// Limit keys buckets by actor id, falling back to the client IP before authentication.
// Limiter failures admit the request.
func (m *AdmissionMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := "ip:" + c.ClientIP()
		if v, ok := c.Get(constants.ContextKeyUserID); ok {
			actor = fmt.Sprintf("user:%v", v)
		}

		allowed, err := m.limiter.TryConsume(c.Request.Context(), actor, 1)
		if err != nil {
			m.logger.Warnw("admission check failed, admitting request", "actor", actor, "error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.RateLimitedResponse(c, m.retryAfter)
			return
		}

		c.Next()
	}
}
