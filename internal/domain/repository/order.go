package repository

import (
	"context"

	"github.com/polkiloo/dispatch/internal/domain/model"
)

// TransitionFunc inspects and mutates an order in place. Returning an error
// aborts the write.
type TransitionFunc func(order *model.Order) error

// OrderRepository describes persistence operations with orders and the waitlist.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]model.Order, error)
	GetWaitlist(ctx context.Context) ([]model.Order, error)
	GetByID(ctx context.Context, orderID string) (*model.Order, error)
	Create(ctx context.Context, fields model.NewOrder) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, rider model.RiderUpdate) (*model.Order, error)
	Transition(ctx context.Context, orderID string, fn TransitionFunc) (*model.Order, error)
	GetOrdersByRider(ctx context.Context, riderID string) ([]model.Order, error)
	GetOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	Cancel(ctx context.Context, orderID string) (*model.Order, error)
	Delete(ctx context.Context, orderID string) error
	ReconcileWaitlist(ctx context.Context) (added, removed int, err error)
}
