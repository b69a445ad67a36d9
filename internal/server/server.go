package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/cookwithfriends/backend/config"
	"github.com/pageza/cookwithfriends/backend/internal/api"
	"github.com/pageza/cookwithfriends/backend/internal/middleware"
	"github.com/pageza/cookwithfriends/backend/internal/router"
	"github.com/pageza/cookwithfriends/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *logrus.Logger
}

// New wires services and handlers. redisClient may be nil, in which case
// revocation and rate limiting are kept in process.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) (*Server, error) {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := newImageStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var revocations service.RevocationStore = service.NewMemoryRevocationStore()
	if redisClient != nil {
		revocations = service.NewRedisRevocationStore(redisClient)
	}

	authService := service.NewAuthService(db)
	tokenService := service.NewTokenService(authService, revocations, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	friendshipService := service.NewFriendshipService(db)
	recipeService := service.NewRecipeService(db)
	imageService := service.NewImageService(db, store)

	var loginLimit gin.HandlerFunc
	if cfg.LoginRateLimit > 0 {
		loginLimit = middleware.RateLimitMiddleware(middleware.NewLoginRateLimiter(redisClient, cfg.LoginRateLimit))
	}

	engine, err := router.SetupRouter(log, cfg.CORSOrigins, cfg.TrustedProxies, tokenService, router.Handlers{
		Auth:    api.NewAuthHandler(authService, tokenService, loginLimit, config.IsProduction()),
		Users:   api.NewUserHandler(friendshipService),
		Recipes: api.NewRecipeHandler(recipeService, imageService),
		Health:  api.NewHealthHandler(db, redisClient),
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}, nil
}

func newImageStore(ctx context.Context, cfg *config.Config) (service.ImageStore, error) {
	switch cfg.ImageStore {
	case "s3":
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3: %w", err)
		}
		if err := s3cfg.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("image bucket %s is not reachable: %w", s3cfg.BucketName, err)
		}
		return service.NewS3Store(s3cfg.Client, s3cfg.BucketName), nil
	default:
		return service.NewFileStore(cfg.ImageStoragePath)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.http.Addr).Info("Starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.http.Shutdown(ctx)
}
