package domain

import (
	"context"
	"io"
)

// BlobPutResult reports where an uploaded blob landed and how big it was.
type BlobPutResult struct {
	Key       string
	SizeBytes int64
}

// BlobStorage stores file contents. Implementations: local disk and S3/MinIO.
type BlobStorage interface {
	// Put streams the blob to storage and returns its key and byte count.
	Put(ctx context.Context, r io.Reader, originalFilename string) (BlobPutResult, error)
	// Get opens the blob for reading; the caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
