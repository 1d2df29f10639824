package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mesto-api/internal/logging"
	"mesto-api/internal/transport/http/response"
)

// WindowCounter counts hits on key inside the current fixed window.
type WindowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows limit requests per client IP per window. Counter failures
// let the request through.
func RateLimit(counter WindowCounter, window time.Duration, limit int, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		n, err := counter.Hit(ctx, "ratelimit:"+c.ClientIP(), window)
		if err != nil {
			logger.Warn(ctx, "rate limit counter unavailable", "error", err)
			c.Next()
			return
		}

		remaining := int64(limit) - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if n > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.Message(c, http.StatusTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
