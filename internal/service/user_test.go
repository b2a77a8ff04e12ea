package service

import (
	"context"
	"errors"
	"testing"

	"dataroom/internal/domain"
	"dataroom/internal/testutil"
)

func seedAdmin(t *testing.T, fx *testutil.Fixture) int64 {
	t.Helper()
	u := &domain.User{Email: "admin@example.com", Name: "Admin", Role: domain.RoleAdmin, PasswordHash: "x"}
	if err := fx.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return u.ID
}

func TestUserListRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := NewUserService(fx.Users, testLogger())
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	if _, err := svc.List(ctx, alice, 0, 0); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
}

func TestUserListAsAdmin(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := NewUserService(fx.Users, testLogger())
	admin := seedAdmin(t, fx)
	seedUser(t, fx, "alice@example.com", "Alice")

	listing, err := svc.List(ctx, admin, 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listing.Users) != 2 {
		t.Errorf("user count = %d, want 2", len(listing.Users))
	}
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture()
	svc := NewUserService(fx.Users, testLogger())
	admin := seedAdmin(t, fx)
	alice := seedUser(t, fx, "alice@example.com", "Alice")

	updated, err := svc.UpdateRole(ctx, admin, alice, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Errorf("Role = %q, want admin", updated.Role)
	}

	if _, err := svc.UpdateRole(ctx, admin, alice, "superuser"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad role: got %v, want ErrValidation", err)
	}
}
