// Package sqlitestore is the embedded graph store backed by a local SQLite
// file. It serves the same contracts as the PostgreSQL store for single-user
// CLI use and tests.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/persistorai/socialgraph/internal/domain"
	"github.com/persistorai/socialgraph/internal/models"
)

// schema contains the DDL executed on open. IF NOT EXISTS makes it safe to
// run on every startup. Text comparison is bytewise, so user_a < user_b
// matches the canonical pair order.
const schema = `
CREATE TABLE IF NOT EXISTS sg_users (
    username   TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sg_friendships (
    user_a     TEXT NOT NULL REFERENCES sg_users (username) ON DELETE CASCADE,
    user_b     TEXT NOT NULL REFERENCES sg_users (username) ON DELETE CASCADE,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (user_a, user_b),
    CHECK (user_a < user_b)
);

CREATE INDEX IF NOT EXISTS idx_sg_friendships_user_b ON sg_friendships (user_b, user_a);

CREATE VIEW IF NOT EXISTS sg_adjacency AS
    SELECT user_a AS username, user_b AS friend FROM sg_friendships
    UNION ALL
    SELECT user_b AS username, user_a AS friend FROM sg_friendships;
`

const maxListLimit = 1000

// Store implements domain.Store on a SQLite database in WAL mode.
type Store struct {
	db  *sql.DB
	log *logrus.Logger
}

var (
	_ domain.Store          = (*Store)(nil)
	_ domain.SnapshotReader = (*Store)(nil)
)

// Open opens (or creates) the database at path, applies pragmas and creates
// the schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, log *logrus.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open database: %w", err)
	}

	// SQLite has a single writer; one connection also keeps the per-connection
	// pragmas below in effect for every query.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlitestore: %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: create schema: %w", err)
	}

	log.WithField("path", path).Debug("sqlite store opened")

	return &Store{db: db, log: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func readErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrStoreRead, op, err)
}

// constraintErr maps SQLite constraint failures to model sentinels. Other
// errors are returned as nil.
func constraintErr(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return nil
	}

	if sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY || strings.Contains(sqliteErr.Error(), "FOREIGN KEY") {
		return models.ErrUserNotFound
	}

	return models.ErrDuplicateKey
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// CreateUser inserts a user.
func (s *Store) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	created := nowMillis()

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO sg_users (username, created_at) VALUES (?, ?)`, req.Username, created,
	); err != nil {
		if mapped := constraintErr(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("sqlitestore: creating user: %w", err)
	}

	return &models.User{Username: req.Username, CreatedAt: fromMillis(created)}, nil
}

// GetUser returns a single user.
func (s *Store) GetUser(ctx context.Context, username string) (*models.User, error) {
	var created int64

	err := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM sg_users WHERE username = ?`, username,
	).Scan(&created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, readErr("getting user", err)
	}

	return &models.User{Username: username, CreatedAt: fromMillis(created)}, nil
}

// ListUsers returns users ordered by username and whether more rows follow.
func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]models.User, bool, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT username, created_at FROM sg_users ORDER BY username LIMIT ? OFFSET ?`, limit+1, offset)
	if err != nil {
		return nil, false, readErr("listing users", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, limit)

	for rows.Next() {
		var (
			u       models.User
			created int64
		)
		if err := rows.Scan(&u.Username, &created); err != nil {
			return nil, false, readErr("scanning user", err)
		}
		u.CreatedAt = fromMillis(created)
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

// DeleteUser removes a user and their friendships.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sg_users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("sqlitestore: deleting user: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrUserNotFound
	}

	s.log.WithField("username", username).Debug("sqlitestore: user deleted")

	return nil
}

// CreateFriendship links two existing users.
func (s *Store) CreateFriendship(ctx context.Context, req models.CreateFriendshipRequest) (*models.Friendship, error) {
	f := req.Friendship()
	created := nowMillis()

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO sg_friendships (user_a, user_b, created_at) VALUES (?, ?, ?)`, f.UserA, f.UserB, created,
	); err != nil {
		if mapped := constraintErr(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("sqlitestore: creating friendship: %w", err)
	}

	t := fromMillis(created)
	f.CreatedAt = &t

	return &f, nil
}

// DeleteFriendship removes the friendship between a and b in either order.
func (s *Store) DeleteFriendship(ctx context.Context, a, b string) error {
	f := models.NewFriendship(a, b)

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sg_friendships WHERE user_a = ? AND user_b = ?`, f.UserA, f.UserB)
	if err != nil {
		return fmt.Errorf("sqlitestore: deleting friendship: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrFriendshipNotFound
	}

	return nil
}

// ListFriends returns the friends of username, ascending.
func (s *Store) ListFriends(ctx context.Context, username string) ([]string, error) {
	if _, err := s.GetUser(ctx, username); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT friend FROM sg_adjacency WHERE username = ? ORDER BY friend`, username)
	if err != nil {
		return nil, readErr("listing friends", err)
	}

	friends, err := scanStrings(rows)
	if err != nil {
		return nil, readErr("scanning friends", err)
	}

	return friends, nil
}

// ClearGraph deletes every user and friendship.
func (s *Store) ClearGraph(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin clear: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, q := range []string{`DELETE FROM sg_friendships`, `DELETE FROM sg_users`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("sqlitestore: clearing graph: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: commit clear: %w", err)
	}

	return nil
}

// HealthCheck verifies the database answers queries.
func (s *Store) HealthCheck(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("sqlitestore: health check: %w", err)
	}
	return nil
}
