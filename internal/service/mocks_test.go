package service

import (
	"context"
	"sync"

	"github.com/persistorai/socialgraph/internal/domain"
	"github.com/persistorai/socialgraph/internal/models"
)

// mockStore records calls and returns configured responses. Unset
// functions succeed with zero values.
type mockStore struct {
	domain.GraphReader

	mu    sync.Mutex
	calls []string

	createUser       func(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	getUser          func(ctx context.Context, username string) (*models.User, error)
	listUsers        func(ctx context.Context, limit, offset int) ([]models.User, bool, error)
	deleteUser       func(ctx context.Context, username string) error
	createFriendship func(ctx context.Context, req models.CreateFriendshipRequest) (*models.Friendship, error)
	deleteFriendship func(ctx context.Context, a, b string) error
	listFriends      func(ctx context.Context, username string) ([]string, error)
	clearGraph       func(ctx context.Context) error
	healthCheck      func(ctx context.Context) error
}

func (m *mockStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockStore) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockStore) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	m.record("CreateUser")
	if m.createUser == nil {
		return &models.User{Username: req.Username}, nil
	}
	return m.createUser(ctx, req)
}

func (m *mockStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	m.record("GetUser")
	if m.getUser == nil {
		return &models.User{Username: username}, nil
	}
	return m.getUser(ctx, username)
}

func (m *mockStore) ListUsers(ctx context.Context, limit, offset int) ([]models.User, bool, error) {
	m.record("ListUsers")
	if m.listUsers == nil {
		return []models.User{}, false, nil
	}
	return m.listUsers(ctx, limit, offset)
}

func (m *mockStore) DeleteUser(ctx context.Context, username string) error {
	m.record("DeleteUser")
	if m.deleteUser == nil {
		return nil
	}
	return m.deleteUser(ctx, username)
}

func (m *mockStore) CreateFriendship(ctx context.Context, req models.CreateFriendshipRequest) (*models.Friendship, error) {
	m.record("CreateFriendship")
	if m.createFriendship == nil {
		f := req.Friendship()
		return &f, nil
	}
	return m.createFriendship(ctx, req)
}

func (m *mockStore) DeleteFriendship(ctx context.Context, a, b string) error {
	m.record("DeleteFriendship")
	if m.deleteFriendship == nil {
		return nil
	}
	return m.deleteFriendship(ctx, a, b)
}

func (m *mockStore) ListFriends(ctx context.Context, username string) ([]string, error) {
	m.record("ListFriends")
	if m.listFriends == nil {
		return []string{}, nil
	}
	return m.listFriends(ctx, username)
}

func (m *mockStore) ClearGraph(ctx context.Context) error {
	m.record("ClearGraph")
	if m.clearGraph == nil {
		return nil
	}
	return m.clearGraph(ctx)
}

func (m *mockStore) HealthCheck(ctx context.Context) error {
	m.record("HealthCheck")
	if m.healthCheck == nil {
		return nil
	}
	return m.healthCheck(ctx)
}

// recordingQueue captures enqueued changes.
type recordingQueue struct {
	mu      sync.Mutex
	changes []models.ChangeEvent
}

func (q *recordingQueue) Enqueue(c models.ChangeEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.changes = append(q.changes, c)
}

func (q *recordingQueue) get() []models.ChangeEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]models.ChangeEvent(nil), q.changes...)
}

// recordingPublisher captures published changes.
type recordingPublisher struct {
	recordingQueue
}

func (p *recordingPublisher) PublishChange(c models.ChangeEvent) {
	p.Enqueue(c)
}
