package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/models"
)

// Default result sizes for per-user queries.
const (
	defaultRecommendK   = 5
	defaultSuggestLimit = 20
)

// RecommendationHandler serves friend-of-friend queries.
type RecommendationHandler struct {
	svc Recommender
	log *logrus.Logger
}

// NewRecommendationHandler creates a RecommendationHandler.
func NewRecommendationHandler(svc Recommender, log *logrus.Logger) *RecommendationHandler {
	return &RecommendationHandler{svc: svc, log: log}
}

// Recommend handles GET /api/v1/users/:username/recommendations.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	username, ok := usernameParam(c, "username")
	if !ok {
		return
	}

	k := parseInt(c.Query("k"), defaultRecommendK)

	recs, err := h.svc.RecommendTopK(c.Request.Context(), username, k)
	if err != nil {
		respondServiceError(c, h.log, "recommend.top_k", err)

		return
	}

	if recs == nil {
		recs = []models.ScoredRecommendation{}
	}

	c.JSON(http.StatusOK, gin.H{"username": username, "recommendations": recs})
}

// Suggest handles GET /api/v1/users/:username/suggestions.
func (h *RecommendationHandler) Suggest(c *gin.Context) {
	username, ok := usernameParam(c, "username")
	if !ok {
		return
	}

	limit := parseInt(c.Query("limit"), defaultSuggestLimit)

	candidates, err := h.svc.SuggestSecondDegree(c.Request.Context(), username, limit)
	if err != nil {
		respondServiceError(c, h.log, "recommend.suggest", err)

		return
	}

	if candidates == nil {
		candidates = []models.Candidate{}
	}

	c.JSON(http.StatusOK, gin.H{"username": username, "suggestions": candidates})
}

// Mutuals handles GET /api/v1/users/:username/mutuals/:other.
func (h *RecommendationHandler) Mutuals(c *gin.Context) {
	a, ok := usernameParam(c, "username")
	if !ok {
		return
	}

	b, ok := usernameParam(c, "other")
	if !ok {
		return
	}

	mutuals, err := h.svc.ListMutualFriends(c.Request.Context(), a, b)
	if err != nil {
		respondServiceError(c, h.log, "recommend.mutuals", err)

		return
	}

	c.JSON(http.StatusOK, models.MutualFriendsResult{
		UserA:   a,
		UserB:   b,
		Mutuals: mutuals,
		Count:   len(mutuals),
	})
}
