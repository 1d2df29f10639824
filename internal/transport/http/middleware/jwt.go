package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"mesto-api/internal/apperror"
	"mesto-api/internal/auth"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthJWT requires a valid bearer token and attaches the caller's identity
// to the request context. It never touches the store.
func AuthJWT(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		const prefix = "Bearer "
		if authHeader == "" || !strings.HasPrefix(authHeader, prefix) {
			abortWith(c, apperror.NewUnauthorized("Authorization required", nil))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		userID, err := verifier.Verify(token)
		if err != nil {
			abortWith(c, apperror.NewUnauthorized("Invalid token", err))
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), auth.Identity{UserID: userID}))
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
