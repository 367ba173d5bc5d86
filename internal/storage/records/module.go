package records

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/dispatch/internal/config"
	"github.com/polkiloo/dispatch/internal/domain/repository"
	"github.com/polkiloo/dispatch/internal/storage"
)

// Module wires the document repositories over the configured store.
var Module = fx.Options(
	fx.Provide(newDocuments),
	fx.Provide(
		func(d *Documents) repository.OrderRepository { return d.Orders() },
		func(d *Documents) repository.UserRepository { return d.Users() },
	),
)

func newDocuments(store storage.Store, cfg *config.Config, logger *slog.Logger) *Documents {
	return New(store, cfg.StoreTimeout, logger)
}
