package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/middleware"
	"github.com/persistorai/socialgraph/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Hub         *ws.Hub
	Users       UserService
	Friendships FriendshipService
	Analytics   AnalyticsService
	Recommender Recommender
	Admin       AdminService
	SchemaCheck SchemaCheck
	Info        HealthInfo
	CORSOrigins []string
	HSTS        bool
}

// Router-level limits.
const (
	rateLimit = 100 // requests per second per IP
	rateBurst = 200 // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders(deps.HSTS))
	r.Use(middleware.MaxBodySize(middleware.DefaultMaxBodyBytes))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Admin, deps.SchemaCheck, deps.Hub, log, deps.Info)
	users := NewUserHandler(deps.Users, log)
	friendships := NewFriendshipHandler(deps.Friendships, log)
	analyticsH := NewAnalyticsHandler(deps.Analytics, log)
	recs := NewRecommendationHandler(deps.Recommender, log)
	admin := NewAdminHandler(deps.Admin, log)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Users.
	api.GET("/users", users.List)
	api.POST("/users", users.Create)
	api.GET("/users/:username", users.Get)
	api.DELETE("/users/:username", users.Delete)
	api.GET("/users/:username/friends", friendships.ListFriends)

	// Friendships.
	api.POST("/friendships", friendships.Create)
	api.DELETE("/friendships/:a/:b", friendships.Delete)

	// Per-user recommendations.
	api.GET("/users/:username/recommendations", recs.Recommend)
	api.GET("/users/:username/suggestions", recs.Suggest)
	api.GET("/users/:username/mutuals/:other", recs.Mutuals)

	// Whole-graph analytics.
	api.GET("/analytics/rank", analyticsH.Rank)
	api.GET("/analytics/communities", analyticsH.Communities)

	// Admin.
	api.POST("/admin/seed", admin.Seed)
	api.DELETE("/admin/graph", admin.Clear)

	// WebSocket change feed.
	api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
