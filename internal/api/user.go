package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookwithfriends/backend/internal/middleware"
	"github.com/pageza/cookwithfriends/backend/internal/service"
)

// UserHandler serves the authenticated /users routes
type UserHandler struct {
	friends service.IFriendshipService
}

func NewUserHandler(friends service.IFriendshipService) *UserHandler {
	return &UserHandler{friends: friends}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/me", h.Me)
		users.POST("/sendFriendRequest/:receiverId", h.SendFriendRequest)
		users.POST("/acceptFriendRequest/:senderId", h.AcceptFriendRequest)
		users.GET("/friends", h.Friends)
		users.GET("/friendRequests", h.FriendRequests)
		users.GET("/search", h.Search)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		_ = c.Error(service.ErrTokenInvalid)
		return
	}
	me, err := h.friends.Me(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, me)
}

func (h *UserHandler) SendFriendRequest(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		_ = c.Error(service.ErrTokenInvalid)
		return
	}
	receiverID, ok := uintParam(c, "receiverId")
	if !ok {
		return
	}

	req, err := h.friends.SendFriendRequest(c.Request.Context(), userID, receiverID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *UserHandler) AcceptFriendRequest(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		_ = c.Error(service.ErrTokenInvalid)
		return
	}
	senderID, ok := uintParam(c, "senderId")
	if !ok {
		return
	}

	if err := h.friends.AcceptFriendRequest(c.Request.Context(), userID, senderID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Friends(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		_ = c.Error(service.ErrTokenInvalid)
		return
	}
	friends, err := h.friends.Friends(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

func (h *UserHandler) FriendRequests(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		_ = c.Error(service.ErrTokenInvalid)
		return
	}
	senders, err := h.friends.FriendRequests(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, senders)
}

func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.friends.SearchUsers(c.Request.Context(), c.Query("username"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}
