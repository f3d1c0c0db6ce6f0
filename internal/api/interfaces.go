package api

import (
	"context"

	"github.com/persistorai/socialgraph/internal/analytics"
	"github.com/persistorai/socialgraph/internal/models"
	"github.com/persistorai/socialgraph/internal/service"
)

// UserService defines user operations used by UserHandler.
type UserService interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, bool, error)
	DeleteUser(ctx context.Context, username string) error
}

// FriendshipService defines friendship operations used by FriendshipHandler.
type FriendshipService interface {
	CreateFriendship(ctx context.Context, req models.CreateFriendshipRequest) (*models.Friendship, error)
	DeleteFriendship(ctx context.Context, a, b string) error
	ListFriends(ctx context.Context, username string) ([]string, error)
}

// AnalyticsService defines whole-graph analytics used by AnalyticsHandler.
type AnalyticsService interface {
	Rank(ctx context.Context, method string, opts analytics.RankOptions) (*models.RankingResult, error)
	Communities(ctx context.Context) (*models.PartitionResult, error)
}

// Recommender defines per-user queries used by RecommendationHandler.
type Recommender interface {
	RecommendTopK(ctx context.Context, username string, k int) ([]models.ScoredRecommendation, error)
	SuggestSecondDegree(ctx context.Context, username string, limit int) ([]models.Candidate, error)
	ListMutualFriends(ctx context.Context, a, b string) ([]string, error)
}

// AdminService defines maintenance operations used by AdminHandler.
type AdminService interface {
	HealthCheck(ctx context.Context) error
	ClearGraph(ctx context.Context) error
	Seed(ctx context.Context, g service.SeedGraph) (*service.SeedResult, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
