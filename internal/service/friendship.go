package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/domain"
	"github.com/persistorai/socialgraph/internal/models"
)

// FriendshipService validates friendship requests, delegates to the store
// and reports changes.
type FriendshipService struct {
	store   domain.FriendshipStore
	changes ChangeEnqueuer
	log     *logrus.Logger
}

// NewFriendshipService creates a FriendshipService. changes may be nil.
func NewFriendshipService(store domain.FriendshipStore, changes ChangeEnqueuer, log *logrus.Logger) *FriendshipService {
	return &FriendshipService{store: store, changes: changes, log: log}
}

// CreateFriendship validates and links two users.
func (s *FriendshipService) CreateFriendship(
	ctx context.Context, req models.CreateFriendshipRequest,
) (*models.Friendship, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	f, err := s.store.CreateFriendship(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_a": f.UserA,
		"user_b": f.UserB,
	}).Info("friendship.create")
	enqueueChange(s.changes, models.ChangeEvent{Table: models.TableFriendships, Op: models.OpInsert, UserA: f.UserA, UserB: f.UserB})

	return f, nil
}

// DeleteFriendship unlinks two users.
func (s *FriendshipService) DeleteFriendship(ctx context.Context, a, b string) error {
	req := models.CreateFriendshipRequest{UserA: a, UserB: b}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.store.DeleteFriendship(ctx, a, b); err != nil {
		return err
	}

	f := models.NewFriendship(a, b)
	s.log.WithFields(logrus.Fields{
		"user_a": f.UserA,
		"user_b": f.UserB,
	}).Info("friendship.delete")
	enqueueChange(s.changes, models.ChangeEvent{Table: models.TableFriendships, Op: models.OpDelete, UserA: f.UserA, UserB: f.UserB})

	return nil
}

// ListFriends returns a user's friends, ascending.
func (s *FriendshipService) ListFriends(ctx context.Context, username string) ([]string, error) {
	s.log.WithField("username", username).Debug("friendship.list")

	return s.store.ListFriends(ctx, username)
}
