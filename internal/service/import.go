package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/domain"
)

// ImportReport summarises a graph import.
type ImportReport struct {
	UsersRead          int           `json:"users_read"`
	UsersCreated       int           `json:"users_created"`
	FriendshipsRead    int           `json:"friendships_read"`
	FriendshipsCreated int           `json:"friendships_created"`
	DryRun             bool          `json:"dry_run"`
	Duration           time.Duration `json:"duration_ns"`
}

// Import copies every user and friendship from src into the service's store.
// Rows that already exist are kept. With dryRun the source is read and
// counted but nothing is written.
func (s *AdminService) Import(ctx context.Context, src domain.SnapshotReader, dryRun bool) (*ImportReport, error) {
	start := time.Now()

	users, pairs, err := src.ReadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading import source: %w", err)
	}

	report := &ImportReport{
		UsersRead:       len(users),
		FriendshipsRead: len(pairs),
		DryRun:          dryRun,
	}

	if !dryRun {
		g := SeedGraph{Users: users, Friendships: make([][2]string, 0, len(pairs))}
		for _, p := range pairs {
			g.Friendships = append(g.Friendships, [2]string{p.UserA, p.UserB})
		}

		res, err := s.Seed(ctx, g)
		if res != nil {
			report.UsersCreated = res.UsersCreated
			report.FriendshipsCreated = res.FriendshipsCreated
		}
		if err != nil {
			return report, err
		}
	}

	report.Duration = time.Since(start)

	s.log.WithFields(logrus.Fields{
		"users_read":          report.UsersRead,
		"users_created":       report.UsersCreated,
		"friendships_read":    report.FriendshipsRead,
		"friendships_created": report.FriendshipsCreated,
		"dry_run":             dryRun,
		"duration":            report.Duration,
	}).Info("admin.import")

	return report, nil
}
