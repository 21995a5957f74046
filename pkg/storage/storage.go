package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/harborview/backoffice-api/pkg/config"
)

// ObjectStore abstracts where uploaded files and generated exports live.
type ObjectStore interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// New builds the object store selected by configuration.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		return NewLocalStorage(cfg.LocalDir)
	case "minio":
		store, err := NewMinioStorage(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
