package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/cookwithfriends/backend/internal/api"
	"github.com/pageza/cookwithfriends/backend/internal/middleware"
)

// Handlers groups the route handlers mounted by SetupRouter
type Handlers struct {
	Auth    *api.AuthHandler
	Users   *api.UserHandler
	Recipes *api.RecipeHandler
	Health  *api.HealthHandler
}

// SetupRouter configures the application routes. Forwarded client addresses are
// only honoured from trustedProxies; with none, ClientIP is the peer address.
func SetupRouter(log *logrus.Logger, corsOrigins, trustedProxies []string, tokens middleware.TokenAuthenticator, h Handlers) (*gin.Engine, error) {
	router := gin.New()
	if len(trustedProxies) == 0 {
		trustedProxies = nil
	}
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		middleware.CORS(corsOrigins),
	)

	public := router.Group("")
	h.Auth.RegisterRoutes(public)
	if h.Health != nil {
		h.Health.RegisterRoutes(public)
	}

	// Protected routes
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		h.Users.RegisterRoutes(protected)
		h.Recipes.RegisterRoutes(protected)
	}

	return router, nil
}
