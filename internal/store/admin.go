package store

import (
	"context"
	"fmt"

	"github.com/persistorai/socialgraph/internal/models"
)

// AdminStore handles maintenance operations.
type AdminStore struct {
	Base
}

// NewAdminStore creates a new AdminStore.
func NewAdminStore(base Base) *AdminStore {
	return &AdminStore{Base: base}
}

// ClearGraph deletes every user and friendship.
func (s *AdminStore) ClearGraph(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.Pool.Exec(ctx, `TRUNCATE sg_friendships, sg_users`); err != nil {
		return fmt.Errorf("clearing graph: %w", err)
	}

	s.notify(models.ChangeEvent{Table: models.TableGraph, Op: models.OpClear})

	return nil
}

// HealthCheck verifies database connectivity.
func (s *AdminStore) HealthCheck(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.Pool.HealthCheck(ctx)
}
