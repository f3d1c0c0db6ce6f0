package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/analytics"
)

// AnalyticsHandler serves whole-graph ranking and community endpoints.
type AnalyticsHandler struct {
	svc AnalyticsService
	log *logrus.Logger
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(svc AnalyticsService, log *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, log: log}
}

// Rank handles GET /api/v1/analytics/rank.
//
// Query parameters: top, method (pagerank or degree), damping, max_iter, tol.
// Missing or unparsable tuning values fall back to the server defaults.
func (h *AnalyticsHandler) Rank(c *gin.Context) {
	opts := analytics.RankOptions{
		TopN:          parseInt(c.Query("top"), analytics.DefaultTopN),
		Damping:       parseFloat(c.Query("damping")),
		MaxIterations: parseInt(c.Query("max_iter"), 0),
		Tolerance:     parseFloat(c.Query("tol")),
	}

	result, err := h.svc.Rank(c.Request.Context(), c.Query("method"), opts)
	if err != nil {
		respondServiceError(c, h.log, "analytics.rank", err)

		return
	}

	c.JSON(http.StatusOK, result)
}

// Communities handles GET /api/v1/analytics/communities.
func (h *AnalyticsHandler) Communities(c *gin.Context) {
	result, err := h.svc.Communities(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "analytics.communities", err)

		return
	}

	c.JSON(http.StatusOK, result)
}
