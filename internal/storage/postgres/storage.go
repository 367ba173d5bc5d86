package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polkiloo/dispatch/internal/storage"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage keeps collection documents in a single PostgreSQL table.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	st := &Storage{pool: pool, logger: logger}
	if err := st.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return st, nil
}

func (s *Storage) initSchema(ctx context.Context) error {
	const stmt = `CREATE TABLE IF NOT EXISTS documents (
            collection TEXT PRIMARY KEY,
            body JSONB NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`
	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Storage) Read(ctx context.Context, collection string) ([]byte, error) {
	if err := storage.ValidateCollection(collection); err != nil {
		return nil, err
	}

	const query = `SELECT body FROM documents WHERE collection=$1`
	var body []byte
	if err := s.pool.QueryRow(ctx, query, collection).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrDocumentNotFound, collection)
		}
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	return body, nil
}

func (s *Storage) Write(ctx context.Context, collection string, document []byte) error {
	if err := storage.ValidateCollection(collection); err != nil {
		return err
	}

	const query = `INSERT INTO documents (collection, body, updated_at) VALUES ($1, $2, NOW())
                   ON CONFLICT (collection) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`
	if _, err := s.pool.Exec(ctx, query, collection, string(document)); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	s.logger.Debug("document stored", slog.String("collection", collection), slog.Int("bytes", len(document)))
	return nil
}

// Ping verifies database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Close releases database resources.
func (s *Storage) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
