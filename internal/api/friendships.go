package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/models"
)

// FriendshipHandler serves friendship endpoints.
type FriendshipHandler struct {
	svc FriendshipService
	log *logrus.Logger
}

// NewFriendshipHandler creates a FriendshipHandler.
func NewFriendshipHandler(svc FriendshipService, log *logrus.Logger) *FriendshipHandler {
	return &FriendshipHandler{svc: svc, log: log}
}

// Create handles POST /api/v1/friendships.
func (h *FriendshipHandler) Create(c *gin.Context) {
	var req models.CreateFriendshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	f, err := h.svc.CreateFriendship(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, "friendship.create", err)

		return
	}

	c.JSON(http.StatusCreated, f)
}

// Delete handles DELETE /api/v1/friendships/:a/:b. Endpoint order does not
// matter.
func (h *FriendshipHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteFriendship(c.Request.Context(), c.Param("a"), c.Param("b")); err != nil {
		respondServiceError(c, h.log, "friendship.delete", err)

		return
	}

	c.Status(http.StatusNoContent)
}

// ListFriends handles GET /api/v1/users/:username/friends.
func (h *FriendshipHandler) ListFriends(c *gin.Context) {
	username, ok := usernameParam(c, "username")
	if !ok {
		return
	}

	friends, err := h.svc.ListFriends(c.Request.Context(), username)
	if err != nil {
		respondServiceError(c, h.log, "friendship.list", err)

		return
	}

	if friends == nil {
		friends = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"username": username, "friends": friends})
}
