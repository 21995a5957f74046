package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/harborview/backoffice-api/pkg/config"
)

// MinioStorage keeps objects in an S3-compatible bucket.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage constructs a MinIO-backed object store from config.
func NewMinioStorage(cfg config.StorageConfig) (*MinioStorage, error) {
	if strings.TrimSpace(cfg.MinioEndpoint) == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if strings.TrimSpace(cfg.MinioAccessKey) == "" || strings.TrimSpace(cfg.MinioSecretKey) == "" {
		return nil, errors.New("minio access key and secret key are required")
	}
	if strings.TrimSpace(cfg.MinioBucket) == "" {
		return nil, errors.New("minio bucket is required")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MinioStorage{client: client, bucket: cfg.MinioBucket}, nil
}

// EnsureBucket ensures the configured bucket exists.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

// Save uploads an object to the configured bucket.
func (s *MinioStorage) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Open returns a reader for an object in the configured bucket.
func (s *MinioStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
}

// Delete removes an object from the configured bucket.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
