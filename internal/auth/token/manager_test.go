package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"dataroom/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: 42, Email: "alice@example.com", Name: "Alice"}
}

func TestIssueAndParse(t *testing.T) {
	m := New("test-secret", "dataroom-test", time.Hour)
	ctx := context.Background()

	raw, issued, err := m.Issue(ctx, testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if raw == "" {
		t.Fatal("Issue returned an empty token")
	}
	if issued.JTI == "" {
		t.Error("issued claims carry no JTI")
	}

	parsed, err := m.Parse(ctx, raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.UserID != 42 {
		t.Errorf("UserID = %d, want 42", parsed.UserID)
	}
	if parsed.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", parsed.Email)
	}
	if parsed.JTI != issued.JTI {
		t.Errorf("JTI mismatch: parsed %q, issued %q", parsed.JTI, issued.JTI)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	ctx := context.Background()
	raw, _, err := New("secret-a", "dataroom-test", time.Hour).Issue(ctx, testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = New("secret-b", "dataroom-test", time.Hour).Parse(ctx, raw)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Parse with wrong secret: got %v, want ErrUnauthorized", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	m := New("test-secret", "dataroom-test", -time.Minute)

	raw, _, err := m.Issue(ctx, testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = m.Parse(ctx, raw)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Parse of expired token: got %v, want ErrUnauthorized", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	m := New("test-secret", "dataroom-test", time.Hour)
	if _, err := m.Parse(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Parse of garbage: got %v, want ErrUnauthorized", err)
	}
}
