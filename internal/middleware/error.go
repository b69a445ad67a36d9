package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/cookwithfriends/backend/internal/logging"
	"github.com/pageza/cookwithfriends/backend/internal/service"
)

var (
	// ErrRateLimited is reported when a client exceeds its request budget.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrPayloadTooLarge is reported when a request body exceeds its size limit.
	ErrPayloadTooLarge = errors.New("request body too large")
)

// ProblemDetail is the JSON body of every error response.
type ProblemDetail struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Status      int    `json:"status"`
	Detail      string `json:"detail"`
	Description string `json:"description"`
}

type problemKind struct {
	err         error
	kind        string
	status      int
	description string
}

// Checked in order; the first kind the error matches wins.
var problemKinds = []problemKind{
	{service.ErrInvalidCredentials, "InvalidCredentials", http.StatusUnauthorized, "Authentication failed"},
	{service.ErrUsernameTaken, "UsernameTaken", http.StatusConflict, "Username is already taken"},
	{service.ErrEmailTaken, "EmailTaken", http.StatusConflict, "Email is already in use"},
	{service.ErrAccountLocked, "AccountLocked", http.StatusForbidden, "Please contact support to unlock your account"},
	{service.ErrFriendship, "FriendshipViolation", http.StatusConflict, "Error handling this friendship"},
	{service.ErrNoRefreshToken, "NoRefreshToken", http.StatusForbidden, "No Refresh Token has been found"},
	{service.ErrTokenInvalid, "TokenInvalidOrExpired", http.StatusForbidden, "The JWT token is invalid or has expired"},
	{service.ErrUserNotFound, "NotFound", http.StatusNotFound, "Resource not found"},
	{service.ErrRecipeNotFound, "NotFound", http.StatusNotFound, "Resource not found"},
	{service.ErrIngredientNotFound, "NotFound", http.StatusNotFound, "Resource not found"},
	{service.ErrImageNotFound, "NotFound", http.StatusNotFound, "Resource not found"},
	{service.ErrInvalidCount, "BadRequest", http.StatusBadRequest, "Invalid request body"},
	{service.ErrImageStore, "ImageStore", http.StatusInternalServerError, "Could not store the image"},
	{ErrRateLimited, "RateLimited", http.StatusTooManyRequests, "Too many requests"},
	{ErrPayloadTooLarge, "PayloadTooLarge", http.StatusRequestEntityTooLarge, "Request body is too large"},
}

// Problem maps err to its response body. The second result is false for unknown errors.
func Problem(err error) (ProblemDetail, bool) {
	for _, k := range problemKinds {
		if errors.Is(err, k.err) {
			return ProblemDetail{
				Type:        k.kind,
				Title:       http.StatusText(k.status),
				Status:      k.status,
				Detail:      service.Message(err),
				Description: k.description,
			}, true
		}
	}
	return unknownProblem(err.Error()), false
}

func unknownProblem(detail string) ProblemDetail {
	return ProblemDetail{
		Type:        "Unknown",
		Title:       http.StatusText(http.StatusInternalServerError),
		Status:      http.StatusInternalServerError,
		Detail:      detail,
		Description: "Unknown internal server error.",
	}
}

func badRequest(err error) ProblemDetail {
	return ProblemDetail{
		Type:        "BadRequest",
		Title:       http.StatusText(http.StatusBadRequest),
		Status:      http.StatusBadRequest,
		Detail:      err.Error(),
		Description: "Invalid request body",
	}
}

// ErrorHandler renders the last error attached with c.Error as a ProblemDetail.
// Errors tagged gin.ErrorTypeBind are reported as bad requests.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		entry := logging.FromContext(c.Request.Context()).WithError(last.Err)

		var problem ProblemDetail
		switch {
		case last.IsType(gin.ErrorTypeBind):
			problem = badRequest(last.Err)
			entry.Warn("Rejected request")
		default:
			var known bool
			problem, known = Problem(last.Err)
			if known && problem.Status < http.StatusInternalServerError {
				entry.WithField("kind", problem.Type).Warn("Request failed")
			} else {
				entry.Error("Request failed")
			}
		}

		c.AbortWithStatusJSON(problem.Status, problem)
	}
}

// Recovery turns a panic into an Unknown problem response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logging.FromContext(c.Request.Context()).WithFields(logrus.Fields{
					"panic": r,
					"path":  c.Request.URL.Path,
				}).Error("Recovered from panic")
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, unknownProblem(fmt.Sprint(r)))
				} else {
					c.Abort()
				}
			}
		}()
		c.Next()
	}
}
