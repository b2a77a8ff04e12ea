package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dataroom/internal/domain"
	"dataroom/internal/httputil"
)

type stubTokens struct {
	claims domain.TokenClaims
}

func (s stubTokens) Issue(context.Context, *domain.User) (string, domain.TokenClaims, error) {
	return "", domain.TokenClaims{}, nil
}

func (s stubTokens) Parse(context.Context, string) (domain.TokenClaims, error) {
	return s.claims, nil
}

type stubBlacklist struct {
	revoked bool
	err     error
}

func (s stubBlacklist) Revoke(context.Context, string, time.Time) error { return nil }

func (s stubBlacklist) IsRevoked(context.Context, string) (bool, error) {
	return s.revoked, s.err
}

// identityUserID runs a bearer request through Identity and reports the user
// ID the inner handler observed.
func identityUserID(t *testing.T, revoked domain.TokenBlacklist) int64 {
	t.Helper()

	tokens := stubTokens{claims: domain.TokenClaims{JTI: "j1", UserID: 7}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var got int64
	h := Identity(tokens, revoked, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = httputil.GetUserID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestIdentityValidToken(t *testing.T) {
	if got := identityUserID(t, stubBlacklist{}); got != 7 {
		t.Errorf("user ID = %d, want 7", got)
	}
}

func TestIdentityRevokedToken(t *testing.T) {
	if got := identityUserID(t, stubBlacklist{revoked: true}); got != 0 {
		t.Errorf("revoked token resolved user ID %d, want anonymous", got)
	}
}

func TestIdentityBlacklistErrorLeavesRequestAnonymous(t *testing.T) {
	bl := stubBlacklist{err: errors.New("connection refused")}
	if got := identityUserID(t, bl); got != 0 {
		t.Errorf("blacklist outage resolved user ID %d, want anonymous", got)
	}
}
