package di

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/dispatch/internal/app"
	"github.com/polkiloo/dispatch/internal/config"
	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/storage"
	"github.com/polkiloo/dispatch/internal/storage/filestore"
	"github.com/polkiloo/dispatch/internal/test"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		RunAddress:        "127.0.0.1:0",
		StorageDriver:     config.DriverFile,
		DataDir:           t.TempDir(),
		StoreTimeout:      time.Second,
		TokenSecret:       "secret",
		TokenStrategy:     config.TokenStrategyHMAC,
		TokenTTL:          time.Hour,
		ReconcileInterval: time.Hour,
		ShutdownTimeout:   time.Second,
		LogLevel:          "error",
	}
}

// backgroundContext provides context.Context the way main does. Supplying the
// value directly would register its concrete type instead of the interface.
func backgroundContext() fx.Option {
	return fx.Supply(fx.Annotate(context.Background(), fx.As(new(context.Context))))
}

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := test.NewMemoryStore()

	var facade *app.DispatchFacade
	fxApp := fx.New(
		fx.NopLogger,
		backgroundContext(),
		Module(
			fx.Replace(testConfig(t)),
			fx.Replace(logger),
			fx.Replace(fx.Annotate(store, fx.As(new(storage.Store)))),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected dispatch facade instance")
	}

	order, err := facade.CreateOrder(context.Background(), model.NewOrder{
		CustomerName: "Alice", Address: "123 St", PickupLocation: "A", DropoffLocation: "B", Items: []string{"box"},
	})
	if err != nil {
		t.Fatalf("create order through graph: %v", err)
	}
	if _, ok := store.Document(storage.CollectionWaitlist); !ok || order.Status != model.OrderStatusPending {
		t.Fatal("expected order to reach the replaced store")
	}
}

func TestModuleStartsAndStops(t *testing.T) {
	var (
		server *http.Server
		store  storage.Store
	)
	fxApp := fxtest.New(t,
		backgroundContext(),
		Module(
			fx.Replace(testConfig(t)),
			fx.Replace(slog.New(slog.NewJSONHandler(io.Discard, nil))),
		),
		fx.Populate(&server, &store),
	)

	fxApp.RequireStart()
	if server == nil || server.Addr != "127.0.0.1:0" {
		t.Fatalf("unexpected server %+v", server)
	}
	if _, ok := store.(*filestore.Store); !ok {
		t.Fatalf("expected configured file store, got %T", store)
	}
	fxApp.RequireStop()
}
