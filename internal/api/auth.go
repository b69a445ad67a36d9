package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookwithfriends/backend/internal/logging"
	"github.com/pageza/cookwithfriends/backend/internal/models"
	"github.com/pageza/cookwithfriends/backend/internal/service"
	"github.com/pageza/cookwithfriends/backend/internal/types"
)

// RefreshCookieName is the HttpOnly cookie carrying the refresh token.
const RefreshCookieName = "jwtRefreshToken"

type AuthHandler struct {
	auth         service.IAuthService
	tokens       service.ITokenService
	loginLimit   gin.HandlerFunc
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. loginLimit may be nil.
func NewAuthHandler(auth service.IAuthService, tokens service.ITokenService, loginLimit gin.HandlerFunc, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		tokens:       tokens,
		loginLimit:   loginLimit,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		if h.loginLimit != nil {
			auth.POST("/login", h.loginLimit, h.Login)
		} else {
			auth.POST("/login", h.Login)
		}
		auth.GET("/refreshToken", h.RefreshToken)
		auth.GET("/checkLogin", h.RefreshToken)
		auth.GET("/logout", h.Logout)
	}
}

// Signup creates an account and returns an access token for it.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respondWithAccessToken(c, user)
}

// Login returns an access token and sets the refresh token cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	refresh, err := h.tokens.IssueRefreshToken(user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.setRefreshCookie(c, refresh, int(h.tokens.RefreshExpiration().Seconds()))
	h.respondWithAccessToken(c, user)
}

// RefreshToken serves both /refreshToken and /checkLogin.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refresh, err := c.Cookie(RefreshCookieName)
	if err != nil || refresh == "" {
		_ = c.Error(service.ErrNoRefreshToken)
		return
	}

	token, err := h.tokens.RefreshAccessToken(c.Request.Context(), refresh)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.LoginResponse{
		Token:   token,
		Expires: h.tokens.AccessExpiration().Milliseconds(),
	})
}

// Logout revokes the refresh token, if any, and clears its cookie. A failed
// revocation is logged; the cookie is cleared regardless.
func (h *AuthHandler) Logout(c *gin.Context) {
	if refresh, err := c.Cookie(RefreshCookieName); err == nil && refresh != "" {
		if err := h.tokens.RevokeRefreshToken(c.Request.Context(), refresh); err != nil {
			logging.FromContext(c.Request.Context()).WithError(err).Warn("Failed to revoke refresh token on logout")
		}
	}
	// A negative MaxAge is sent as "Max-Age=0".
	h.setRefreshCookie(c, "", -1)
	c.Status(http.StatusOK)
}

func (h *AuthHandler) respondWithAccessToken(c *gin.Context, user *models.User) {
	token, err := h.tokens.IssueAccessToken(user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.LoginResponse{
		Token:   token,
		Expires: h.tokens.AccessExpiration().Milliseconds(),
	})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookieName, value, maxAge, "/", "", h.secureCookie, true)
}
