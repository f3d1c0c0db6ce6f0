// Package store provides the PostgreSQL graph store.
//
// Each store owns one concern (users, friendships, graph reads, admin) and
// embeds shared helpers via the Base struct. Stores never import each other;
// shared logic lives in this file.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/db"
	"github.com/persistorai/socialgraph/internal/dbpool"
	"github.com/persistorai/socialgraph/internal/domain"
	"github.com/persistorai/socialgraph/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// PostgreSQL error codes the store maps to sentinels.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginReadTx starts a read-only repeatable-read transaction so every query
// in it sees the same committed state.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}

// readErr marks err as a graph store read failure.
func readErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrStoreRead, op, err)
}

// pgCode returns the PostgreSQL error code of err, or "".
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// notify sends a pg_notify on the change channel (best-effort, post-commit).
func (b *Base) notify(change models.ChangeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, err := json.Marshal(change)
	if err != nil {
		b.Log.WithError(err).Warn("failed to encode change notification")
		return
	}

	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify($1, $2)", db.ChangesChannel, string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + change.Op + " " + change.Table + " notification")
	}
}

// Store combines every concern store into a domain.Store.
type Store struct {
	*UserStore
	*FriendshipStore
	*GraphStore
	*AdminStore
}

// Compile-time check: *Store must satisfy domain.SnapshotReader and domain.Store.
var (
	_ domain.Store          = (*Store)(nil)
	_ domain.SnapshotReader = (*Store)(nil)
)

// New creates a Store whose concern stores share base.
func New(base Base) *Store {
	return &Store{
		UserStore:       NewUserStore(base),
		FriendshipStore: NewFriendshipStore(base),
		GraphStore:      NewGraphStore(base),
		AdminStore:      NewAdminStore(base),
	}
}
