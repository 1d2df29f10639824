package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mesto-api/internal/logging"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RequestLogger logs one line per request once the response is written.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.Error(ctx, "http request", args...)
		case status >= 400:
			logger.Warn(ctx, "http request", args...)
		default:
			logger.Info(ctx, "http request", args...)
		}
	}
}
