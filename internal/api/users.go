package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/models"
)

// UserHandler serves user CRUD endpoints.
type UserHandler struct {
	svc UserService
	log *logrus.Logger
}

// NewUserHandler creates a UserHandler with the given service and logger.
func NewUserHandler(svc UserService, log *logrus.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(c *gin.Context) {
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	users, hasMore, err := h.svc.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, h.log, "user.list", err)

		return
	}

	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "has_more": hasMore})
}

// Get handles GET /api/v1/users/:username.
func (h *UserHandler) Get(c *gin.Context) {
	username, ok := usernameParam(c, "username")
	if !ok {
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), username)
	if err != nil {
		respondServiceError(c, h.log, "user.get", err)

		return
	}

	c.JSON(http.StatusOK, user)
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, "user.create", err)

		return
	}

	c.JSON(http.StatusCreated, user)
}

// Delete handles DELETE /api/v1/users/:username. Friendships of the user are
// removed with it.
func (h *UserHandler) Delete(c *gin.Context) {
	username, ok := usernameParam(c, "username")
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), username); err != nil {
		respondServiceError(c, h.log, "user.delete", err)

		return
	}

	c.Status(http.StatusNoContent)
}
