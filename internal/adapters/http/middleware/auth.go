package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lsampaio/product-api/internal/adapters/http/handlers"
	"github.com/lsampaio/product-api/internal/core/domain"
)

const (
	callerIDKey = "caller_id"
	tokenKey    = "auth_token"
)

type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (domain.ID, error)
}

// Auth resolves the bearer token and stores the caller's id in the request
// context. Handlers behind it can trust CallerID unconditionally.
func Auth(authenticator TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		callerID, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			handlers.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(callerIDKey, callerID)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// CallerID returns the authenticated user id set by Auth.
func CallerID(c *gin.Context) domain.ID {
	if v, ok := c.Get(callerIDKey); ok {
		if id, ok := v.(domain.ID); ok {
			return id
		}
	}
	return ""
}

// Token returns the raw bearer token of the current request.
func Token(c *gin.Context) string {
	return c.GetString(tokenKey)
}
