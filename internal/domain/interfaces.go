// Package domain defines the canonical store and service interfaces shared
// across layers (analytics, recommendations, REST, CLI). Consumers should
// depend on these interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/persistorai/socialgraph/internal/models"
)

// GraphReader is the read contract the analytics core consumes. Every method
// returns an empty slice or zero when no data matches; failures wrap
// models.ErrStoreRead.
type GraphReader interface {
	// Usernames returns every user, including users with no friendships.
	Usernames(ctx context.Context) ([]string, error)
	// FriendPairs returns one row per unordered pair with UserA < UserB.
	FriendPairs(ctx context.Context) ([]models.Friendship, error)
	// MutualFriends lists users who are friends of both a and b, ascending.
	MutualFriends(ctx context.Context, a, b string) ([]string, error)
	// MutualFriendCount counts users who are friends of both a and b.
	MutualFriendCount(ctx context.Context, a, b string) (int, error)
	// SecondDegree returns friends-of-friends of username that are neither
	// username nor a direct friend, ordered by mutual count descending then
	// username ascending.
	SecondDegree(ctx context.Context, username string, limit int) ([]models.Candidate, error)
	// Degree returns the number of distinct friends of username.
	Degree(ctx context.Context, username string) (int, error)
}

// SnapshotReader is a GraphReader able to serve both snapshot queries from a
// single consistent view of the store.
type SnapshotReader interface {
	GraphReader
	ReadSnapshot(ctx context.Context) ([]string, []models.Friendship, error)
}

// UserStore defines user operations.
type UserStore interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, bool, error)
	DeleteUser(ctx context.Context, username string) error
}

// FriendshipStore defines friendship operations.
type FriendshipStore interface {
	CreateFriendship(ctx context.Context, req models.CreateFriendshipRequest) (*models.Friendship, error)
	DeleteFriendship(ctx context.Context, a, b string) error
	ListFriends(ctx context.Context, username string) ([]string, error)
}

// GraphAdmin defines maintenance operations.
type GraphAdmin interface {
	ClearGraph(ctx context.Context) error
	HealthCheck(ctx context.Context) error
}

// Store is everything a backend provides.
type Store interface {
	GraphReader
	UserStore
	FriendshipStore
	GraphAdmin
}
