package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookwithfriends/backend/internal/models"
	"github.com/pageza/cookwithfriends/backend/internal/service"
)

const userIDKey = "user_id"

// TokenAuthenticator resolves an access token to its user
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// AuthMiddleware requires a valid "Authorization: Bearer <access token>" header
func AuthMiddleware(tokens TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			_ = c.Error(service.ErrTokenInvalid)
			c.Abort()
			return
		}

		user, err := tokens.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		// Store user info in context
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// CurrentUserID returns the id stored by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
