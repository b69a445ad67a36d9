package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookwithfriends/backend/internal/logging"
	"github.com/pageza/cookwithfriends/backend/internal/middleware"
	"github.com/pageza/cookwithfriends/backend/internal/models"
	"github.com/pageza/cookwithfriends/backend/internal/service"
	"github.com/pageza/cookwithfriends/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.ErrorHandler())
	r.Use(handlers...)
	return r
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) middleware.ProblemDetail {
	var p middleware.ProblemDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestErrorHandlerMapsDomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
		detail string
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials", "invalid credentials"},
		{service.ErrSelfRequest, http.StatusConflict, "FriendshipViolation", "Sender and receiver are the same user"},
		{service.ErrRequestNotFound, http.StatusConflict, "FriendshipViolation", "FriendRequest not found"},
		{service.ErrNoRefreshToken, http.StatusForbidden, "NoRefreshToken", "no refresh token"},
		{service.ErrTokenInvalid, http.StatusForbidden, "TokenInvalidOrExpired", "token is invalid or expired"},
		{fmt.Errorf("loading: %w", service.ErrRecipeNotFound), http.StatusNotFound, "NotFound", "loading: recipe not found"},
		{service.ErrAccountLocked, http.StatusForbidden, "AccountLocked", "account is locked"},
		{errors.New("boom"), http.StatusInternalServerError, "Unknown", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			r := newRouter()
			r.GET("/", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, w.Code)
			p := decodeProblem(t, w)
			assert.Equal(t, tt.kind, p.Type)
			assert.Equal(t, tt.status, p.Status)
			assert.Equal(t, tt.detail, p.Detail)
			assert.NotEmpty(t, p.Description)
		})
	}
}

func TestErrorHandlerBindErrors(t *testing.T) {
	r := newRouter()
	r.POST("/", func(c *gin.Context) {
		var body struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypeBind)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decodeProblem(t, w).Description)
}

func TestRecovery(t *testing.T) {
	r := newRouter()
	r.GET("/", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, "Unknown", p.Type)
	assert.Equal(t, "kaboom", p.Detail)
}

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthMiddleware(t *testing.T) {
	auth := new(MockAuthenticator)
	auth.On("Authenticate", mock.Anything, "good").Return(&models.User{ID: 42, Email: "a@example.com"}, nil)
	auth.On("Authenticate", mock.Anything, "bad").Return(nil, service.ErrTokenInvalid)

	r := newRouter(middleware.AuthMiddleware(auth))
	r.GET("/", func(c *gin.Context) {
		id, ok := middleware.CurrentUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	tests := []struct {
		header string
		status int
	}{
		{"Bearer good", http.StatusOK},
		{"Bearer bad", http.StatusForbidden},
		{"", http.StatusForbidden},
		{"Basic good", http.StatusForbidden},
		{"Bearer ", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.status, w.Code, tt.header)
	}

	auth.AssertExpectations(t)
}

func TestLocalRateLimiter(t *testing.T) {
	limiter := middleware.NewLocalRateLimiter(middleware.RateLimitConfig{Window: time.Minute, Limit: 2})
	r := newRouter(middleware.RateLimitMiddleware(limiter))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if i == 2 {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
			assert.Equal(t, "RateLimited", decodeProblem(t, w).Type)
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Other clients have their own budget.
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRedisRateLimiter(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	limiter := middleware.NewRateLimiter(client, middleware.RateLimitConfig{
		Window:    time.Minute,
		Limit:     1,
		KeyPrefix: "rate_limit:test",
	})
	ctx := context.Background()

	allowed, remaining, _, err := limiter.IsAllowed(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _, err = limiter.IsAllowed(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestCORS(t *testing.T) {
	r := newRouter(middleware.CORS([]string{"http://localhost:5173"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, "info", true)

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.GET("/", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry logrus.Fields
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, "req-1", entry["request_id"])
	}

	var done logrus.Fields
	require.NoError(t, json.Unmarshal(lines[1], &done))
	assert.Equal(t, float64(http.StatusTeapot), done["status"])
	assert.Equal(t, "warning", done["level"])
}
