package api_test

import (
	"context"

	"github.com/persistorai/socialgraph/internal/analytics"
	"github.com/persistorai/socialgraph/internal/models"
	"github.com/persistorai/socialgraph/internal/service"
)

// mockUserService implements api.UserService for testing.
type mockUserService struct {
	listFn   func(ctx context.Context, limit, offset int) ([]models.User, bool, error)
	getFn    func(ctx context.Context, username string) (*models.User, error)
	createFn func(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	deleteFn func(ctx context.Context, username string) error
}

func (m *mockUserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, bool, error) {
	return m.listFn(ctx, limit, offset)
}

func (m *mockUserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	return m.getFn(ctx, username)
}

func (m *mockUserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	return m.createFn(ctx, req)
}

func (m *mockUserService) DeleteUser(ctx context.Context, username string) error {
	return m.deleteFn(ctx, username)
}

// mockFriendshipService implements api.FriendshipService for testing.
type mockFriendshipService struct {
	createFn func(ctx context.Context, req models.CreateFriendshipRequest) (*models.Friendship, error)
	deleteFn func(ctx context.Context, a, b string) error
	listFn   func(ctx context.Context, username string) ([]string, error)
}

func (m *mockFriendshipService) CreateFriendship(ctx context.Context, req models.CreateFriendshipRequest) (*models.Friendship, error) {
	return m.createFn(ctx, req)
}

func (m *mockFriendshipService) DeleteFriendship(ctx context.Context, a, b string) error {
	return m.deleteFn(ctx, a, b)
}

func (m *mockFriendshipService) ListFriends(ctx context.Context, username string) ([]string, error) {
	return m.listFn(ctx, username)
}

// mockAnalyticsService implements api.AnalyticsService for testing.
type mockAnalyticsService struct {
	rankFn        func(ctx context.Context, method string, opts analytics.RankOptions) (*models.RankingResult, error)
	communitiesFn func(ctx context.Context) (*models.PartitionResult, error)
}

func (m *mockAnalyticsService) Rank(ctx context.Context, method string, opts analytics.RankOptions) (*models.RankingResult, error) {
	return m.rankFn(ctx, method, opts)
}

func (m *mockAnalyticsService) Communities(ctx context.Context) (*models.PartitionResult, error) {
	return m.communitiesFn(ctx)
}

// mockRecommender implements api.Recommender for testing.
type mockRecommender struct {
	topKFn    func(ctx context.Context, username string, k int) ([]models.ScoredRecommendation, error)
	suggestFn func(ctx context.Context, username string, limit int) ([]models.Candidate, error)
	mutualsFn func(ctx context.Context, a, b string) ([]string, error)
}

func (m *mockRecommender) RecommendTopK(ctx context.Context, username string, k int) ([]models.ScoredRecommendation, error) {
	return m.topKFn(ctx, username, k)
}

func (m *mockRecommender) SuggestSecondDegree(ctx context.Context, username string, limit int) ([]models.Candidate, error) {
	return m.suggestFn(ctx, username, limit)
}

func (m *mockRecommender) ListMutualFriends(ctx context.Context, a, b string) ([]string, error) {
	return m.mutualsFn(ctx, a, b)
}

// mockAdminService implements api.AdminService for testing.
type mockAdminService struct {
	healthErr error
	clearFn   func(ctx context.Context) error
	seedFn    func(ctx context.Context, g service.SeedGraph) (*service.SeedResult, error)
}

func (m *mockAdminService) HealthCheck(_ context.Context) error {
	return m.healthErr
}

func (m *mockAdminService) ClearGraph(ctx context.Context) error {
	return m.clearFn(ctx)
}

func (m *mockAdminService) Seed(ctx context.Context, g service.SeedGraph) (*service.SeedResult, error) {
	return m.seedFn(ctx, g)
}
