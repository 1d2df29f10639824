package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mesto-api/internal/apperror"
	"mesto-api/internal/logging"
	"mesto-api/internal/transport/http/response"
)

// ErrorHandler is the single place that turns a failed request into a
// response. It must be registered before every middleware that can fail.
func ErrorHandler(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		writeError(c, logger, c.Errors.Last().Err)
	}
}

func writeError(c *gin.Context, logger logging.Logger, err error) {
	ctx := c.Request.Context()
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "error handler panicked", "panic", fmt.Sprint(r))
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.MessageBody{Message: apperror.GenericMessage})
			}
		}
	}()

	appErr := apperror.Classify(err)
	args := []any{"kind", appErr.Kind.String(), "status", appErr.StatusCode(), "error", err.Error()}
	if appErr.Kind == apperror.Internal {
		logger.Error(ctx, "request failed", args...)
	} else {
		logger.Info(ctx, "request rejected", args...)
	}

	if c.Writer.Written() {
		return
	}
	response.Error(c, appErr)
}

// Recovery turns a handler panic into an Internal error for ErrorHandler.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if r == http.ErrAbortHandler {
					panic(r)
				}
				_ = c.Error(apperror.NewInternal("panic recovered", fmt.Errorf("%v", r)))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// NoRoute answers every unmatched path.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.NewNotFound("Page does not exist", nil))
	}
}
