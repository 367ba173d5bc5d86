// Package driver selects and wires the configured storage.Store.
package driver

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/dispatch/internal/config"
	"github.com/polkiloo/dispatch/internal/storage"
	"github.com/polkiloo/dispatch/internal/storage/filestore"
	"github.com/polkiloo/dispatch/internal/storage/postgres"
	"github.com/polkiloo/dispatch/internal/storage/sqlite"
)

// Module provides the storage.Store chosen by config and closes it on stop.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Invoke(registerLifecycle),
)

type storeParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStore(p storeParams) (storage.Store, error) {
	return Open(p.Ctx, p.Config, p.Logger)
}

// Open builds the store for cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	logger = logger.With(slog.String("driver", cfg.StorageDriver))

	var (
		st  storage.Store
		err error
	)
	switch cfg.StorageDriver {
	case config.DriverFile, "":
		st, err = filestore.New(cfg.DataDir)
	case config.DriverPostgres:
		st, err = postgres.New(ctx, cfg.DatabaseURI, logger)
	case config.DriverSQLite:
		st, err = sqlite.Open(ctx, cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}

	logger.Info("storage opened")
	return st, nil
}

func registerLifecycle(lc fx.Lifecycle, st storage.Store, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := st.Close(); err != nil {
				logger.Error("failed to close storage", slog.Any("error", err))
				return err
			}
			return nil
		},
	})
}
