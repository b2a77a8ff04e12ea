package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"dataroom/internal/auth/blacklist"
	"dataroom/internal/auth/password"
	"dataroom/internal/auth/token"
	"dataroom/internal/domain"
	"dataroom/internal/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthService(fx *testutil.Fixture) *AuthService {
	return NewAuthService(
		fx.Users,
		password.NewDefault(),
		token.New("test-secret", "dataroom-test", time.Hour),
		blacklist.NewMemory(),
		testLogger(),
	)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(testutil.NewFixture())

	user, tok, err := svc.Register(ctx, &RegisterRequest{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("registered user has no ID")
	}
	if user.Role != domain.RoleUser {
		t.Errorf("new user role = %q, want %q", user.Role, domain.RoleUser)
	}
	if tok == "" {
		t.Error("Register returned no token")
	}
	if user.PasswordHash == "hunter22" {
		t.Error("password stored in plaintext")
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(testutil.NewFixture())

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"short password", RegisterRequest{Email: "a@b.com", Name: "A", Password: "12345"}},
		{"empty name", RegisterRequest{Email: "a@b.com", Name: "", Password: "123456"}},
		{"bad email", RegisterRequest{Email: "not-an-email", Name: "A", Password: "123456"}},
		{"empty email", RegisterRequest{Email: "", Name: "A", Password: "123456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(testutil.NewFixture())

	req := &RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "hunter22"}
	if _, _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, _, err := svc.Register(ctx, req)
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate register: got %v, want ErrConflict", err)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := newAuthService(fx)

	if _, _, err := svc.Register(ctx, &RegisterRequest{
		Email: "alice@example.com", Name: "Alice", Password: "hunter22",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, tok, err := svc.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if tok == "" {
		t.Error("Login returned no token")
	}
	if user.LastLogin == nil {
		// TouchLastLogin is best effort but the fake never fails.
		stored, _ := fx.Users.GetByID(ctx, user.ID)
		if stored.LastLogin == nil {
			t.Error("last_login not touched on login")
		}
	}
}

func TestLoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(testutil.NewFixture())

	if _, _, err := svc.Register(ctx, &RegisterRequest{
		Email: "alice@example.com", Name: "Alice", Password: "hunter22",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{Email: "alice@example.com", Password: "wrong"}},
		{"unknown email", LoginRequest{Email: "bob@example.com", Password: "hunter22"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, &tt.req)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("got %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	tokens := token.New("test-secret", "dataroom-test", time.Hour)
	revoked := blacklist.NewMemory()
	svc := NewAuthService(fx.Users, password.NewDefault(), tokens, revoked, testLogger())

	_, raw, err := svc.Register(ctx, &RegisterRequest{
		Email: "alice@example.com", Name: "Alice", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.Logout(ctx, raw); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	claims, err := tokens.Parse(ctx, raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	isRevoked, err := revoked.IsRevoked(ctx, claims.JTI)
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if !isRevoked {
		t.Error("token JTI not revoked after logout")
	}
}
