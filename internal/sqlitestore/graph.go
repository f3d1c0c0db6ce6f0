package sqlitestore

import (
	"context"
	"database/sql"

	"github.com/persistorai/socialgraph/internal/models"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
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

func queryUsernames(ctx context.Context, q queryer) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT username FROM sg_users ORDER BY username`)
	if err != nil {
		return nil, readErr("querying users", err)
	}

	users, err := scanStrings(rows)
	if err != nil {
		return nil, readErr("scanning users", err)
	}

	return users, nil
}

func queryFriendPairs(ctx context.Context, q queryer) ([]models.Friendship, error) {
	rows, err := q.QueryContext(ctx, `SELECT user_a, user_b FROM sg_friendships ORDER BY user_a, user_b`)
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
func (s *Store) Usernames(ctx context.Context) ([]string, error) {
	return queryUsernames(ctx, s.db)
}

// FriendPairs returns every friendship once, with UserA < UserB.
func (s *Store) FriendPairs(ctx context.Context) ([]models.Friendship, error) {
	return queryFriendPairs(ctx, s.db)
}

// ReadSnapshot reads users and pairs inside one transaction.
func (s *Store) ReadSnapshot(ctx context.Context) ([]string, []models.Friendship, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, readErr("reading snapshot", err)
	}
	defer tx.Rollback() //nolint:errcheck // read-only use

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
func (s *Store) MutualFriends(ctx context.Context, a, b string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fa.friend
		 FROM sg_adjacency fa
		 JOIN sg_adjacency fb ON fb.friend = fa.friend
		 WHERE fa.username = ?1 AND fb.username = ?2
		   AND fa.friend <> ?1 AND fa.friend <> ?2
		 ORDER BY fa.friend`,
		a, b,
	)
	if err != nil {
		return nil, readErr("querying mutual friends", err)
	}

	mutuals, err := scanStrings(rows)
	if err != nil {
		return nil, readErr("scanning mutual friends", err)
	}

	return mutuals, nil
}

// MutualFriendCount counts users who are friends with both a and b.
func (s *Store) MutualFriendCount(ctx context.Context, a, b string) (int, error) {
	var n int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM sg_adjacency fa
		 JOIN sg_adjacency fb ON fb.friend = fa.friend
		 WHERE fa.username = ?1 AND fb.username = ?2
		   AND fa.friend <> ?1 AND fa.friend <> ?2`,
		a, b,
	).Scan(&n)
	if err != nil {
		return 0, readErr("counting mutual friends", err)
	}

	return n, nil
}

// SecondDegree returns up to limit friends-of-friends of username that are
// not already friends, by mutual count descending then username ascending.
func (s *Store) SecondDegree(ctx context.Context, username string, limit int) ([]models.Candidate, error) {
	if limit <= 0 {
		return []models.Candidate{}, nil
	}

	if limit > models.MaxCandidateFetch {
		limit = models.MaxCandidateFetch
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT f2.friend AS username, COUNT(DISTINCT f1.friend) AS mutual_count
		 FROM sg_adjacency f1
		 JOIN sg_adjacency f2 ON f2.username = f1.friend
		 WHERE f1.username = ?1
		   AND f2.friend <> ?1
		   AND NOT EXISTS (
		       SELECT 1 FROM sg_adjacency d WHERE d.username = ?1 AND d.friend = f2.friend
		   )
		 GROUP BY f2.friend
		 ORDER BY mutual_count DESC, username ASC
		 LIMIT ?2`,
		username, limit,
	)
	if err != nil {
		return nil, readErr("querying second-degree candidates", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
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
func (s *Store) Degree(ctx context.Context, username string) (int, error) {
	var n int

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sg_adjacency WHERE username = ?`, username,
	).Scan(&n); err != nil {
		return 0, readErr("counting friends", err)
	}

	return n, nil
}
