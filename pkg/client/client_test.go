package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"dataroom/internal/domain"
)

func authOKHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"token": "issued-token",
			"user":  domain.User{ID: 1, Email: "alice@example.com", Name: "Alice"},
		})
	}
}

func TestLoginStoresSession(t *testing.T) {
	srv := httptest.NewServer(authOKHandler(t))
	defer srv.Close()

	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	c, err := New(srv.URL, WithSessionStore(store))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	session, err := c.Login(context.Background(), "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if session.Token != "issued-token" {
		t.Errorf("token = %q", session.Token)
	}

	// A new client picks the session up from disk.
	c2, err := New(srv.URL, WithSessionStore(store))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !c2.LoggedIn() {
		t.Error("session did not survive a restart")
	}
	if got := c2.Session().User.Name; got != "Alice" {
		t.Errorf("restored user = %q, want Alice", got)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"detail": "token expired"})
	}))
	defer srv.Close()

	store := NewMemoryStore()
	store.Save(&Session{Token: "stale", User: domain.User{ID: 1}})

	var notified atomic.Bool
	c, err := New(srv.URL,
		WithSessionStore(store),
		WithUnauthorizedHandler(func() { notified.Store(true) }),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = c.Me(context.Background())
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("got %v, want a 401 APIError", err)
	}
	if c.LoggedIn() {
		t.Error("session survived a 401")
	}
	if s, _ := store.Load(); s != nil {
		t.Error("store still holds the stale session")
	}
	if !notified.Load() {
		t.Error("unauthorized handler never ran")
	}
}

func TestLogin401KeepsSessionSemantics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"detail": "invalid email or password"})
	}))
	defer srv.Close()

	var notified atomic.Bool
	c, err := New(srv.URL, WithUnauthorizedHandler(func() { notified.Store(true) }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = c.Login(context.Background(), "alice@example.com", "wrong")
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("got %v, want a 401 APIError", err)
	}
	// Bad credentials are not an expired session.
	if notified.Load() {
		t.Error("unauthorized handler ran for a login failure")
	}
}

func TestAPIErrorCarriesProblemDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"detail": "a folder with this name already exists in this location",
		})
	}))
	defer srv.Close()

	store := NewMemoryStore()
	store.Save(&Session{Token: "tok", User: domain.User{ID: 1}})
	c, err := New(srv.URL, WithSessionStore(store))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = c.CreateFolder(context.Background(), "Reports", nil)
	if !IsStatus(err, http.StatusConflict) {
		t.Fatalf("got %v, want a 409 APIError", err)
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error message %q does not carry the problem detail", err)
	}
}

func TestClientSideValidationSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	if _, err := c.Register(ctx, "alice@example.com", "Alice", "12345"); err == nil {
		t.Error("short password accepted")
	}
	if _, err := c.Register(ctx, "not-an-email", "Alice", "123456"); err == nil {
		t.Error("bad email accepted")
	}
	if _, err := c.Upload(ctx, "notes", nil, "notes.txt", strings.NewReader("x")); err == nil {
		t.Error("non-PDF upload accepted")
	}
	if _, err := c.CreateFolder(ctx, "   ", nil); err == nil {
		t.Error("blank folder name accepted")
	}
	if _, err := c.Search(ctx, "a", 0, 0); err == nil {
		t.Error("1-character search accepted")
	}
	if _, err := c.Search(ctx, "é", 0, 0); err == nil {
		t.Error("1-character multi-byte search accepted")
	}

	if n := calls.Load(); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestBearerInjection(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"folders": []any{}, "files": []any{}})
	}))
	defer srv.Close()

	store := NewMemoryStore()
	store.Save(&Session{Token: "tok-123", User: domain.User{ID: 1}})
	c, err := New(srv.URL, WithSessionStore(store))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := c.ListRoot(context.Background(), false, 0, 0); err != nil {
		t.Fatalf("ListRoot failed: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestFileStoreClear(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	if s, err := store.Load(); err != nil || s != nil {
		t.Fatalf("empty Load = %v, %v", s, err)
	}
	if err := store.Save(&Session{Token: "tok", User: domain.User{ID: 1}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if s, _ := store.Load(); s != nil {
		t.Error("session present after Clear")
	}
	// Clearing an already-empty store is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}
