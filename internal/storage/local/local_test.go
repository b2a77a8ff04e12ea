package local

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"dataroom/internal/domain"
)

var keyPattern = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}/[0-9a-f]{32}\.pdf$`)

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	put, err := s.Put(ctx, strings.NewReader("%PDF-1.4 body"), "Report.PDF")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !keyPattern.MatchString(put.Key) {
		t.Errorf("key %q does not match the date-sharded layout", put.Key)
	}
	if put.SizeBytes != int64(len("%PDF-1.4 body")) {
		t.Errorf("SizeBytes = %d", put.SizeBytes)
	}

	rc, err := s.Get(ctx, put.Key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "%PDF-1.4 body" {
		t.Errorf("content = %q", data)
	}

	if err := s.Delete(ctx, put.Key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, put.Key); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
	// Deleting again is a no-op.
	if err := s.Delete(ctx, put.Key); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}

func TestPutKeysAreUnique(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a, err := s.Put(ctx, strings.NewReader("one"), "same.pdf")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	b, err := s.Put(ctx, strings.NewReader("two"), "same.pdf")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if a.Key == b.Key {
		t.Error("two uploads of the same filename share a key")
	}
}
