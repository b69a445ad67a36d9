package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookwithfriends/backend/internal/api"
	"github.com/pageza/cookwithfriends/backend/internal/middleware"
	"github.com/pageza/cookwithfriends/backend/internal/mocks"
	"github.com/pageza/cookwithfriends/backend/internal/models"
	"github.com/pageza/cookwithfriends/backend/internal/service"
	"github.com/pageza/cookwithfriends/backend/internal/types"
)

var alice = &models.User{ID: 1, Username: "alice", Email: "alice@example.com"}

type fixture struct {
	router  *gin.Engine
	auth    *mocks.MockAuthService
	tokens  *mocks.MockTokenService
	friends *mocks.MockFriendshipService
	recipes *mocks.MockRecipeService
	images  *mocks.MockImageService
}

func setup(t *testing.T) *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{
		auth:    new(mocks.MockAuthService),
		tokens:  new(mocks.MockTokenService),
		friends: new(mocks.MockFriendshipService),
		recipes: new(mocks.MockRecipeService),
		images:  new(mocks.MockImageService),
	}
	f.tokens.On("Authenticate", mock.Anything, "access").Return(alice, nil).Maybe()
	f.tokens.On("AccessExpiration").Return(15 * time.Minute).Maybe()
	f.tokens.On("RefreshExpiration").Return(24 * time.Hour).Maybe()

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	api.NewAuthHandler(f.auth, f.tokens, nil, true).RegisterRoutes(r.Group(""))
	protected := r.Group("", middleware.AuthMiddleware(f.tokens))
	api.NewUserHandler(f.friends).RegisterRoutes(protected)
	api.NewRecipeHandler(f.recipes, f.images).RegisterRoutes(protected)
	f.router = r

	t.Cleanup(func() {
		f.auth.AssertExpectations(t)
		f.tokens.AssertExpectations(t)
		f.friends.AssertExpectations(t)
		f.recipes.AssertExpectations(t)
		f.images.AssertExpectations(t)
	})
	return f
}

func (f *fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer access")
	return req
}

func TestLoginSetsRefreshCookie(t *testing.T) {
	f := setup(t)
	f.auth.On("Authenticate", mock.Anything, "alice@example.com", "pw").Return(alice, nil)
	f.tokens.On("IssueRefreshToken", alice).Return("refresh", nil)
	f.tokens.On("IssueAccessToken", alice).Return("access-token", nil)

	w := f.serve(jsonRequest(http.MethodPost, "/auth/login", types.LoginRequest{Email: "alice@example.com", Password: "pw"}))
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.LoginResponse{Token: "access-token", Expires: 900000}, resp)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, api.RefreshCookieName, cookies[0].Name)
	assert.Equal(t, "refresh", cookies[0].Value)
	assert.Equal(t, 86400, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := setup(t)
	f.tokens.On("RevokeRefreshToken", mock.Anything, "refresh").Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: api.RefreshCookieName, Value: "refresh"})
	w := f.serve(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestLogoutClearsCookieWhenRevocationFails(t *testing.T) {
	f := setup(t)
	f.tokens.On("RevokeRefreshToken", mock.Anything, "refresh").Return(errors.New("redis: connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: api.RefreshCookieName, Value: "refresh"})
	w := f.serve(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), api.RefreshCookieName+"=;")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestLogoutWithoutCookie(t *testing.T) {
	f := setup(t)

	w := f.serve(httptest.NewRequest(http.MethodGet, "/auth/logout", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	f.tokens.AssertNotCalled(t, "RevokeRefreshToken", mock.Anything, mock.Anything)
}

func TestSendFriendRequestUsesAuthenticatedUser(t *testing.T) {
	f := setup(t)
	f.friends.On("SendFriendRequest", mock.Anything, uint(1), uint(2)).Return(&types.FriendRequestResponse{
		ID:       5,
		Sender:   types.UserResponse{ID: 1, Username: "alice"},
		Receiver: types.UserResponse{ID: 2, Username: "bob"},
	}, nil)
	f.friends.On("SendFriendRequest", mock.Anything, uint(1), uint(1)).Return(nil, service.ErrSelfRequest)

	w := f.serve(jsonRequest(http.MethodPost, "/users/sendFriendRequest/2", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"receiver":{"id":2,"username":"bob"}`)

	w = f.serve(jsonRequest(http.MethodPost, "/users/sendFriendRequest/1", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAcceptFriendRequest(t *testing.T) {
	f := setup(t)
	f.friends.On("AcceptFriendRequest", mock.Anything, uint(1), uint(7)).Return(service.ErrRequestNotFound)

	w := f.serve(jsonRequest(http.MethodPost, "/users/acceptFriendRequest/7", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.serve(jsonRequest(http.MethodPost, "/users/acceptFriendRequest/-3", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateRecipe(t *testing.T) {
	f := setup(t)
	f.recipes.On("RateRecipe", mock.Anything, uint(3), 11).Return(4, nil)

	w := f.serve(jsonRequest(http.MethodPost, "/recipe/rate", types.RateRecipeRequest{RecipeID: 3, Rating: 11}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4", w.Body.String())

	w = f.serve(jsonRequest(http.MethodPost, "/recipe/rate", map[string]int{"rating": 3}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRandomStackRejectsBadCount(t *testing.T) {
	f := setup(t)

	for _, path := range []string{"/recipe/random/0", "/recipe/random/many"} {
		w := f.serve(jsonRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestUploadImageFailure(t *testing.T) {
	f := setup(t)
	f.images.On("StoreImage", mock.Anything, uint(9), "dish.png", mock.Anything).
		Return(service.ErrImageStore)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "dish.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/recipe/image/9", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer access")
	w := f.serve(req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUploadImageTooLarge(t *testing.T) {
	f := setup(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "huge.png")
	require.NoError(t, err)
	_, _ = part.Write(bytes.Repeat([]byte{0xff}, 11<<20))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/recipe/image/9", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer access")
	w := f.serve(req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"PayloadTooLarge"`)
	f.images.AssertNotCalled(t, "StoreImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadImageTooLargeWithoutContentLength(t *testing.T) {
	f := setup(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "huge.png")
	require.NoError(t, err)
	_, _ = part.Write(bytes.Repeat([]byte{0xff}, 11<<20))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/recipe/image/9", &body)
	req.ContentLength = -1
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer access")
	w := f.serve(req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUploadImageRequiresFile(t *testing.T) {
	f := setup(t)

	w := f.serve(jsonRequest(http.MethodPost, "/recipe/image/9", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
