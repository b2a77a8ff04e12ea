// Package local stores blobs on the filesystem under date-sharded directories,
// e.g. 2026/09/01/<uuid-hex>.pdf.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"dataroom/internal/domain"
)

type Storage struct {
	root string
}

var _ domain.BlobStorage = (*Storage)(nil)

// New creates the root directory if needed.
func New(root string) (*Storage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Storage{root: root}, nil
}

func (s *Storage) Put(_ context.Context, r io.Reader, originalFilename string) (domain.BlobPutResult, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	now := time.Now().UTC()
	key := filepath.ToSlash(filepath.Join(
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()),
		strings.ReplaceAll(uuid.NewString(), "-", "")+ext,
	))

	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return domain.BlobPutResult{}, fmt.Errorf("create storage dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return domain.BlobPutResult{}, fmt.Errorf("create blob: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(full)
		return domain.BlobPutResult{}, fmt.Errorf("write blob: %w", err)
	}

	return domain.BlobPutResult{Key: key, SizeBytes: n}, nil
}

func (s *Storage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}
