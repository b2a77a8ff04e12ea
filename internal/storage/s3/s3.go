// Package s3 stores blobs in an S3-compatible bucket (MinIO, AWS).
package s3

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"dataroom/internal/domain"
)

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type Storage struct {
	cl     *minio.Client
	bucket string
}

var _ domain.BlobStorage = (*Storage)(nil)

func New(ctx context.Context, cfg Config) (*Storage, error) {
	cl, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}

	exists, err := cl.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return &Storage{cl: cl, bucket: cfg.Bucket}, nil
}

func (s *Storage) Put(ctx context.Context, r io.Reader, originalFilename string) (domain.BlobPutResult, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	now := time.Now().UTC()
	key := fmt.Sprintf("%d/%02d/%02d/%s%s",
		now.Year(), now.Month(), now.Day(),
		strings.ReplaceAll(uuid.NewString(), "-", ""), ext)

	// Size -1 streams with multipart upload; we learn the byte count from the
	// upload info.
	info, err := s.cl.PutObject(ctx, s.bucket, key, r, -1, minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return domain.BlobPutResult{}, fmt.Errorf("put object: %w", err)
	}

	return domain.BlobPutResult{Key: key, SizeBytes: info.Size}, nil
}

func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.cl.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	// GetObject is lazy; surface missing keys now so handlers can 404.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, fmt.Errorf("blob %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("stat object: %w", err)
	}
	return obj, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.cl.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}
