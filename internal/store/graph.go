package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/socialgraph/internal/models"
)

// GraphStore serves the read queries the analytics and recommendation
// engines consume.
type GraphStore struct {
	Base
}

// NewGraphStore creates a GraphStore with the given shared base.
func NewGraphStore(base Base) *GraphStore {
	return &GraphStore{Base: base}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// collectStrings scans a single text column from every row and closes rows.
func collectStrings(rows pgx.Rows) ([]string, error) {
	defer rows.Close()

	out := []string{}

	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, rows.Err()
}

func queryUsernames(ctx context.Context, q querier) ([]string, error) {
	rows, err := q.Query(ctx, `SELECT username FROM sg_users ORDER BY username`)
	if err != nil {
		return nil, readErr("querying users", err)
	}

	users, err := collectStrings(rows)
	if err != nil {
		return nil, readErr("scanning users", err)
	}

	return users, nil
}

func queryFriendPairs(ctx context.Context, q querier) ([]models.Friendship, error) {
	rows, err := q.Query(ctx, `SELECT user_a, user_b FROM sg_friendships ORDER BY user_a, user_b`)
	if err != nil {
		return nil, readErr("querying friendships", err)
	}

	defer rows.Close()

	pairs := []models.Friendship{}

	for rows.Next() {
		var f models.Friendship
		if err := rows.Scan(&f.UserA, &f.UserB); err != nil {
			return nil, readErr("scanning friendship", err)
		}

		pairs = append(pairs, f)
	}

	if err := rows.Err(); err != nil {
		return nil, readErr("iterating friendships", err)
	}

	return pairs, nil
}

// Usernames returns every user, including users without friends.
func (s *GraphStore) Usernames(ctx context.Context) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return queryUsernames(ctx, s.Pool)
}

// FriendPairs returns every friendship once, with UserA < UserB.
func (s *GraphStore) FriendPairs(ctx context.Context) ([]models.Friendship, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return queryFriendPairs(ctx, s.Pool)
}

// ReadSnapshot returns all users and friendship pairs from a single
// repeatable-read transaction.
func (s *GraphStore) ReadSnapshot(ctx context.Context) ([]string, []models.Friendship, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, nil, readErr("reading snapshot", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only transaction.

	users, err := queryUsernames(ctx, tx)
	if err != nil {
		return nil, nil, err
	}

	pairs, err := queryFriendPairs(ctx, tx)
	if err != nil {
		return nil, nil, err
	}

	return users, pairs, nil
}

// MutualFriends lists users who are friends with both a and b, ascending.
func (s *GraphStore) MutualFriends(ctx context.Context, a, b string) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		`SELECT fa.friend
		 FROM sg_adjacency fa
		 JOIN sg_adjacency fb ON fb.friend = fa.friend
		 WHERE fa.username = $1 AND fb.username = $2
		   AND fa.friend <> $1 AND fa.friend <> $2
		 ORDER BY fa.friend`,
		a, b,
	)
	if err != nil {
		return nil, readErr("querying mutual friends", err)
	}

	mutuals, err := collectStrings(rows)
	if err != nil {
		return nil, readErr("scanning mutual friends", err)
	}

	return mutuals, nil
}

// MutualFriendCount counts users who are friends with both a and b.
func (s *GraphStore) MutualFriendCount(ctx context.Context, a, b string) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int

	err := s.Pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM sg_adjacency fa
		 JOIN sg_adjacency fb ON fb.friend = fa.friend
		 WHERE fa.username = $1 AND fb.username = $2
		   AND fa.friend <> $1 AND fa.friend <> $2`,
		a, b,
	).Scan(&n)
	if err != nil {
		return 0, readErr("counting mutual friends", err)
	}

	return n, nil
}

// SecondDegree returns up to limit friends-of-friends of username that are
// not already friends, by mutual count descending then username ascending.
func (s *GraphStore) SecondDegree(ctx context.Context, username string, limit int) ([]models.Candidate, error) {
	if limit <= 0 {
		return []models.Candidate{}, nil
	}

	if limit > models.MaxCandidateFetch {
		limit = models.MaxCandidateFetch
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		`SELECT f2.friend AS username, COUNT(DISTINCT f1.friend) AS mutual_count
		 FROM sg_adjacency f1
		 JOIN sg_adjacency f2 ON f2.username = f1.friend
		 WHERE f1.username = $1
		   AND f2.friend <> $1
		   AND NOT EXISTS (
		       SELECT 1 FROM sg_adjacency d WHERE d.username = $1 AND d.friend = f2.friend
		   )
		 GROUP BY f2.friend
		 ORDER BY mutual_count DESC, username ASC
		 LIMIT $2`,
		username, limit,
	)
	if err != nil {
		return nil, readErr("querying second-degree candidates", err)
	}

	defer rows.Close()

	candidates := make([]models.Candidate, 0, limit)

	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.Username, &c.MutualCount); err != nil {
			return nil, readErr("scanning candidate", err)
		}

		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, readErr("iterating candidates", err)
	}

	return candidates, nil
}

// Degree returns the number of friends of username.
func (s *GraphStore) Degree(ctx context.Context, username string) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int

	err := s.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sg_adjacency WHERE username = $1`, username,
	).Scan(&n)
	if err != nil {
		return 0, readErr("counting friends", err)
	}

	return n, nil
}
