package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage persists files on disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save copies from reader into the target file path and returns the key.
func (s *LocalStorage) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	path := s.resolve(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare storage directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create stored file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write stored file: %w", err)
	}
	return key, nil
}

// Open returns a read-only handle for the stored file.
func (s *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(s.resolve(key))
	if err != nil {
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.resolve(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete stored file: %w", err)
	}
	return nil
}

// CleanupOlderThan removes files older than the provided TTL and returns deleted keys.
func (s *LocalStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	deleted := make([]string, 0)
	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			rel = path
		}
		deleted = append(deleted, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup storage: %w", err)
	}
	return deleted, nil
}

// Path exposes the underlying absolute path (useful for debugging).
func (s *LocalStorage) Path(key string) string {
	return s.resolve(key)
}

func (s *LocalStorage) resolve(key string) string {
	if filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(s.baseDir, key)
}
