// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/domain"
	"github.com/persistorai/socialgraph/internal/models"
)

// UserService validates user requests, delegates to the store and reports
// changes.
type UserService struct {
	store   domain.UserStore
	changes ChangeEnqueuer
	log     *logrus.Logger
}

// NewUserService creates a UserService. changes may be nil when the store
// publishes its own change notifications.
func NewUserService(store domain.UserStore, changes ChangeEnqueuer, log *logrus.Logger) *UserService {
	return &UserService{store: store, changes: changes, log: log}
}

// CreateUser validates and creates a user.
func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.WithField("username", user.Username).Info("user.create")
	enqueueChange(s.changes, models.ChangeEvent{Table: models.TableUsers, Op: models.OpInsert, Username: user.Username})

	return user, nil
}

// GetUser returns a single user (pass-through).
func (s *UserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	return s.store.GetUser(ctx, username)
}

// ListUsers returns a page of users (pass-through).
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, bool, error) {
	s.log.WithFields(logrus.Fields{
		"limit":  limit,
		"offset": offset,
	}).Debug("user.list")

	return s.store.ListUsers(ctx, limit, offset)
}

// DeleteUser removes a user and their friendships.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	if err := s.store.DeleteUser(ctx, username); err != nil {
		return err
	}

	s.log.WithField("username", username).Info("user.delete")
	enqueueChange(s.changes, models.ChangeEvent{Table: models.TableUsers, Op: models.OpDelete, Username: username})

	return nil
}
