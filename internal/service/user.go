package service

import (
	"context"
	"fmt"
	"log/slog"

	"dataroom/internal/config"
	"dataroom/internal/domain"
)

// UserService implements the admin-only user management operations.
type UserService struct {
	users  domain.UserRepository
	logger *slog.Logger
}

func NewUserService(users domain.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// UserListing pages through all registered users.
type UserListing struct {
	Users  []domain.User `json:"users"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func (s *UserService) requireAdmin(ctx context.Context, callerID int64) error {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}
	return nil
}

func (s *UserService) List(ctx context.Context, callerID int64, limit, offset int) (*UserListing, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	limit = clamp(limit, config.DefaultListLimit, config.MaxListLimit)
	if offset < 0 {
		offset = 0
	}

	users, err := s.users.List(ctx, domain.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}

	return &UserListing{Users: emptyIfNil(users), Limit: limit, Offset: offset}, nil
}

func (s *UserService) Get(ctx context.Context, callerID, userID int64) (*domain.User, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// UpdateRole promotes or demotes a user between "user" and "admin".
func (s *UserService) UpdateRole(ctx context.Context, callerID, userID int64, role string) (*domain.User, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, fmt.Errorf(`%w: role must be either "user" or "admin"`, domain.ErrValidation)
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	s.logger.Info("user role updated", "user_id", userID, "role", role, "by", callerID)

	return s.users.GetByID(ctx, userID)
}
