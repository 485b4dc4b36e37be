package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Vijayaa21/blabber/internal/services"
	"github.com/Vijayaa21/blabber/internal/utils"
)

type UserHandler struct {
	svc services.UserService
}

func NewUserHandler(svc services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Profile(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	u, err := h.svc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "UserHandler.UpdateProfile", "invalid request body", err))
		return
	}

	u, err := h.svc.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// FollowToggle follows the target if not yet followed, otherwise
// unfollows, mirroring the client's single follow button.
func (h *UserHandler) FollowToggle(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	target := c.Param("user_id")
	u, err := h.svc.EnsureUser(c.Request.Context(), userID, c.GetString("username"))
	if err != nil {
		writeError(c, err)
		return
	}

	if u.IsFollowing(target) {
		if err := h.svc.Unfollow(c.Request.Context(), userID, target); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"following": false})
		return
	}

	if err := h.svc.Follow(c.Request.Context(), userID, target); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": true})
}

func (h *UserHandler) Suggested(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.svc.Suggested(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
