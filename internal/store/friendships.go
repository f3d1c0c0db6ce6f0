package store

import (
	"context"
	"fmt"

	"github.com/persistorai/socialgraph/internal/models"
)

// FriendshipStore handles friendship CRUD operations. Pairs are stored once,
// in canonical order.
type FriendshipStore struct {
	Base
}

// NewFriendshipStore creates a new FriendshipStore.
func NewFriendshipStore(base Base) *FriendshipStore {
	return &FriendshipStore{Base: base}
}

// CreateFriendship links two existing users.
func (s *FriendshipStore) CreateFriendship(
	ctx context.Context,
	req models.CreateFriendshipRequest,
) (*models.Friendship, error) {
	f := req.Friendship()

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := s.Pool.QueryRow(ctx,
		`INSERT INTO sg_friendships (user_a, user_b) VALUES ($1, $2) RETURNING created_at`,
		f.UserA, f.UserB,
	).Scan(&f.CreatedAt)
	if err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return nil, models.ErrDuplicateKey
		case pgForeignKeyViolation:
			return nil, models.ErrUserNotFound
		}

		return nil, fmt.Errorf("creating friendship: %w", err)
	}

	s.notify(models.ChangeEvent{Table: models.TableFriendships, Op: models.OpInsert, UserA: f.UserA, UserB: f.UserB})

	return &f, nil
}

// DeleteFriendship removes the friendship between a and b in either order.
func (s *FriendshipStore) DeleteFriendship(ctx context.Context, a, b string) error {
	f := models.NewFriendship(a, b)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx,
		`DELETE FROM sg_friendships WHERE user_a = $1 AND user_b = $2`, f.UserA, f.UserB)
	if err != nil {
		return fmt.Errorf("deleting friendship: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrFriendshipNotFound
	}

	s.notify(models.ChangeEvent{Table: models.TableFriendships, Op: models.OpDelete, UserA: f.UserA, UserB: f.UserB})

	return nil
}

// ListFriends returns the friends of username, ascending. An unknown user
// returns models.ErrUserNotFound.
func (s *FriendshipStore) ListFriends(ctx context.Context, username string) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, readErr("listing friends", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only transaction.

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sg_users WHERE username = $1)`, username,
	).Scan(&exists); err != nil {
		return nil, readErr("checking user existence", err)
	}

	if !exists {
		return nil, models.ErrUserNotFound
	}

	rows, err := tx.Query(ctx,
		`SELECT friend FROM sg_adjacency WHERE username = $1 ORDER BY friend`, username)
	if err != nil {
		return nil, readErr("listing friends", err)
	}

	friends, err := collectStrings(rows)
	if err != nil {
		return nil, readErr("scanning friends", err)
	}

	return friends, nil
}
