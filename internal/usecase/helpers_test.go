package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/storage/records"
	testhelpers "github.com/polkiloo/dispatch/internal/test"
)

type testEnv struct {
	store      *testhelpers.MemoryStore
	docs       *records.Documents
	assignment *AssignmentUseCase
	riders     *RiderUseCase
	auth       *AuthUseCase
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	store := testhelpers.NewMemoryStore()
	docs := records.New(store, time.Second, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	return testEnv{
		store:      store,
		docs:       docs,
		assignment: NewAssignmentUseCase(docs.Orders(), docs.Users()),
		riders:     NewRiderUseCase(docs.Users(), testhelpers.HasherStub{}),
		auth:       NewAuthUseCase(docs.Users(), testhelpers.HasherStub{}, newStrategyStub()),
	}
}

func aliceOrder() model.NewOrder {
	return model.NewOrder{
		CustomerName:    "Alice",
		Address:         "123 St",
		PickupLocation:  "A",
		DropoffLocation: "B",
		Items:           []string{"box"},
	}
}

func (e testEnv) createOrder(t *testing.T) *model.Order {
	t.Helper()
	order, err := e.assignment.CreateOrder(context.Background(), aliceOrder())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func (e testEnv) waitlistIDs(t *testing.T) []string {
	t.Helper()
	waitlist, err := e.assignment.Waitlist(context.Background())
	if err != nil {
		t.Fatalf("waitlist: %v", err)
	}
	ids := make([]string, 0, len(waitlist))
	for _, o := range waitlist {
		ids = append(ids, o.ID)
	}
	return ids
}

func (e testEnv) order(t *testing.T, id string) *model.Order {
	t.Helper()
	order, err := e.assignment.Order(context.Background(), id)
	if err != nil {
		t.Fatalf("get order %s: %v", id, err)
	}
	return order
}
