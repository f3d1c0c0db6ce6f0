package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/service"
)

// AdminHandler serves administrative endpoints.
type AdminHandler struct {
	svc AdminService
	log *logrus.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(svc AdminService, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

// Seed handles POST /api/v1/admin/seed and loads the demo graph. Existing
// users and friendships are left in place.
func (h *AdminHandler) Seed(c *gin.Context) {
	res, err := h.svc.Seed(c.Request.Context(), service.DemoGraph)
	if err != nil {
		respondServiceError(c, h.log, "admin.seed", err)

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":      "admin.seed",
		"users":       res.UsersCreated,
		"friendships": res.FriendshipsCreated,
	}).Info("audit")

	c.JSON(http.StatusOK, res)
}

// Clear handles DELETE /api/v1/admin/graph.
func (h *AdminHandler) Clear(c *gin.Context) {
	if err := h.svc.ClearGraph(c.Request.Context()); err != nil {
		respondServiceError(c, h.log, "admin.clear", err)

		return
	}

	h.log.WithField("action", "admin.clear").Info("audit")

	c.Status(http.StatusNoContent)
}
