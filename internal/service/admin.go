package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/domain"
	"github.com/persistorai/socialgraph/internal/models"
)

// SeedGraph is a set of users and friendships to load.
type SeedGraph struct {
	Users       []string
	Friendships [][2]string
}

// DemoGraph is a six-user graph with two overlapping cycles.
var DemoGraph = SeedGraph{
	Users: []string{"alice", "bob", "carol", "dave", "eve", "frank"},
	Friendships: [][2]string{
		{"alice", "bob"},
		{"alice", "carol"},
		{"bob", "dave"},
		{"carol", "dave"},
		{"dave", "eve"},
		{"eve", "frank"},
		{"frank", "alice"},
	},
}

// SeedResult counts what a seed actually created.
type SeedResult struct {
	UsersCreated       int `json:"users_created"`
	FriendshipsCreated int `json:"friendships_created"`
}

// AdminService runs maintenance operations.
type AdminService struct {
	store   domain.Store
	changes ChangeEnqueuer
	log     *logrus.Logger
}

// NewAdminService creates an AdminService. changes may be nil.
func NewAdminService(store domain.Store, changes ChangeEnqueuer, log *logrus.Logger) *AdminService {
	return &AdminService{store: store, changes: changes, log: log}
}

// HealthCheck reports whether the store is reachable.
func (s *AdminService) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx)
}

// ClearGraph deletes every user and friendship.
func (s *AdminService) ClearGraph(ctx context.Context) error {
	if err := s.store.ClearGraph(ctx); err != nil {
		return err
	}

	s.log.Warn("admin.clear_graph")
	enqueueChange(s.changes, models.ChangeEvent{Table: models.TableGraph, Op: models.OpClear})

	return nil
}

// Seed loads g, skipping users and friendships that already exist.
func (s *AdminService) Seed(ctx context.Context, g SeedGraph) (*SeedResult, error) {
	res := &SeedResult{}

	for _, u := range g.Users {
		req := models.CreateUserRequest{Username: u}
		if err := req.Validate(); err != nil {
			return res, fmt.Errorf("seeding user %q: %w", u, err)
		}

		_, err := s.store.CreateUser(ctx, req)
		switch {
		case err == nil:
			res.UsersCreated++
			enqueueChange(s.changes, models.ChangeEvent{Table: models.TableUsers, Op: models.OpInsert, Username: u})
		case errors.Is(err, models.ErrDuplicateKey):
		default:
			return res, fmt.Errorf("seeding user %q: %w", u, err)
		}
	}

	for _, p := range g.Friendships {
		req := models.CreateFriendshipRequest{UserA: p[0], UserB: p[1]}
		if err := req.Validate(); err != nil {
			return res, fmt.Errorf("seeding friendship %s-%s: %w", p[0], p[1], err)
		}

		f, err := s.store.CreateFriendship(ctx, req)
		switch {
		case err == nil:
			res.FriendshipsCreated++
			enqueueChange(s.changes, models.ChangeEvent{Table: models.TableFriendships, Op: models.OpInsert, UserA: f.UserA, UserB: f.UserB})
		case errors.Is(err, models.ErrDuplicateKey):
		default:
			return res, fmt.Errorf("seeding friendship %s-%s: %w", p[0], p[1], err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"users":       res.UsersCreated,
		"friendships": res.FriendshipsCreated,
	}).Info("admin.seed")

	return res, nil
}
