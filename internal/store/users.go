package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/socialgraph/internal/models"
)

// maxListLimit is a defense-in-depth cap on limit values for list queries.
const maxListLimit = 1000

// UserStore handles user CRUD operations.
type UserStore struct {
	Base
}

// NewUserStore creates a new UserStore.
func NewUserStore(base Base) *UserStore {
	return &UserStore{Base: base}
}

// CreateUser inserts a user and returns the created record.
func (s *UserStore) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var u models.User

	err := s.Pool.QueryRow(ctx,
		`INSERT INTO sg_users (username) VALUES ($1) RETURNING username, created_at`,
		req.Username,
	).Scan(&u.Username, &u.CreatedAt)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.notify(models.ChangeEvent{Table: models.TableUsers, Op: models.OpInsert, Username: u.Username})

	return &u, nil
}

// GetUser returns a single user.
func (s *UserStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var u models.User

	err := s.Pool.QueryRow(ctx,
		`SELECT username, created_at FROM sg_users WHERE username = $1`, username,
	).Scan(&u.Username, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}

		return nil, readErr("getting user", err)
	}

	return &u, nil
}

// ListUsers returns users ordered by username. The bool reports whether more
// rows exist past this page.
func (s *UserStore) ListUsers(ctx context.Context, limit, offset int) ([]models.User, bool, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	if offset < 0 {
		offset = 0
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		`SELECT username, created_at FROM sg_users ORDER BY username LIMIT $1 OFFSET $2`,
		limit+1, offset,
	)
	if err != nil {
		return nil, false, readErr("listing users", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, limit)

	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Username, &u.CreatedAt); err != nil {
			return nil, false, readErr("scanning user", err)
		}

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, false, readErr("iterating users", err)
	}

	hasMore := len(users) > limit
	if hasMore {
		users = users[:limit]
	}

	return users, hasMore, nil
}

// DeleteUser removes a user and, by cascade, all of their friendships.
func (s *UserStore) DeleteUser(ctx context.Context, username string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `DELETE FROM sg_users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}

	s.notify(models.ChangeEvent{Table: models.TableUsers, Op: models.OpDelete, Username: username})

	return nil
}
