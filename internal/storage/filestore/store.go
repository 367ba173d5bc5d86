// Package filestore keeps every collection as a JSON file inside a data directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/polkiloo/dispatch/internal/storage"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store is a storage.Store backed by the local filesystem.
type Store struct {
	dir string
}

// New creates the data directory when it is missing.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("data directory is empty")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(collection string) (string, error) {
	if err := storage.ValidateCollection(collection); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, collection+".json"), nil
}

func (s *Store) Read(ctx context.Context, collection string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(collection)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrDocumentNotFound, collection)
		}
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	return content, nil
}

// Write replaces the collection file atomically: a reader sees the old or the new document, never a torn one.
func (s *Store) Write(ctx context.Context, collection string, document []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(collection)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(document); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", collection, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", collection, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", collection, err)
	}
	if err = os.Chmod(tmp.Name(), filePerm); err != nil {
		return fmt.Errorf("chmod %s: %w", collection, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", collection, err)
	}
	return nil
}

// Ping reports whether the data directory is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
