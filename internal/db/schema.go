package db

import (
	"context"
	"fmt"

	"github.com/persistorai/socialgraph/internal/dbpool"
)

// requiredRelations are the tables and views the store queries.
var requiredRelations = []string{"sg_users", "sg_friendships", "sg_adjacency"}

// CheckSchema verifies that every relation the store depends on exists. It
// backs the readiness check so a server started before migrations ran does
// not report ready.
func CheckSchema(ctx context.Context, pool *dbpool.Pool) error {
	for _, rel := range requiredRelations {
		var found *string

		err := pool.QueryRow(ctx, "SELECT to_regclass($1)::text", rel).Scan(&found)
		if err != nil {
			return fmt.Errorf("checking relation %s: %w", rel, err)
		}

		if found == nil {
			return fmt.Errorf("relation %s missing; run migrations", rel)
		}
	}

	return nil
}
