// Package sqlite keeps collection documents in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/polkiloo/dispatch/internal/storage"
)

//go:embed schema.sql
var schema string

// Store is a storage.Store backed by a SQLite file.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the database file and ensures the documents table exists.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	// journal_mode is unsupported for in-memory databases.
	_, _ = db.ExecContext(ctx, `PRAGMA journal_mode=WAL`)
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout=5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Read(ctx context.Context, collection string) ([]byte, error) {
	if err := storage.ValidateCollection(collection); err != nil {
		return nil, err
	}

	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE collection = ?`, collection).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrDocumentNotFound, collection)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	return body, nil
}

func (s *Store) Write(ctx context.Context, collection string, document []byte) error {
	if err := storage.ValidateCollection(collection); err != nil {
		return err
	}

	const query = `INSERT INTO documents (collection, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(collection) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, query, collection, string(document)); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	s.logger.Debug("document stored", slog.String("collection", collection), slog.Int("bytes", len(document)))
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
