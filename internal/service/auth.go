package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"dataroom/internal/config"
	"dataroom/internal/domain"
)

// AuthService implements registration, login, session introspection and
// logout (token revocation).
type AuthService struct {
	users     domain.UserRepository
	hasher    domain.PasswordHasher
	tokens    domain.TokenManager
	blacklist domain.TokenBlacklist
	logger    *slog.Logger
}

func NewAuthService(
	users domain.UserRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenManager,
	blacklist domain.TokenBlacklist,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r RegisterRequest) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Name, validation.Required, validation.Length(1, config.MaxNameLength)),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(config.MinPasswordLength, 0).
				Error(fmt.Sprintf("password must be at least %d characters", config.MinPasswordLength)),
		),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user and issues a session token.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*domain.User, string, error) {
	if err := req.validate(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         domain.RoleUser,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	raw, _, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)

	return user, raw, nil
}

// Login checks credentials and issues a session token. Unknown email and bad
// password produce the same error so the endpoint does not leak which one was
// wrong.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*domain.User, string, error) {
	if req.Email == "" || req.Password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, "", fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}

	raw, _, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last_login", "user_id", user.ID, "error", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return user, raw, nil
}

// Me returns the user for an authenticated session.
func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Logout revokes the presented token until its expiry.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	claims, err := s.tokens.Parse(ctx, raw)
	if err != nil {
		return err
	}

	if err := s.blacklist.Revoke(ctx, claims.JTI, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}
