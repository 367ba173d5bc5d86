package handlers

import (
	"context"

	"github.com/polkiloo/dispatch/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, reg model.Registration) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ParseToken(ctx context.Context, token string) (model.Principal, error)
}

// ManagerFacade encapsulates the operations available to managers.
type ManagerFacade interface {
	ManagerDashboard(ctx context.Context) (*model.ManagerDashboard, error)
	Orders(ctx context.Context) ([]model.Order, error)
	Order(ctx context.Context, orderID string) (*model.Order, error)
	Waitlist(ctx context.Context) ([]model.Order, error)
	CreateOrder(ctx context.Context, fields model.NewOrder) (*model.Order, error)
	AssignRider(ctx context.Context, orderID, riderID string) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*model.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
	Riders(ctx context.Context) ([]model.User, error)
	AvailableRiders(ctx context.Context) ([]model.User, error)
	Rider(ctx context.Context, riderID string) (*model.User, error)
	AddRider(ctx context.Context, rider model.NewRider) (*model.User, error)
	RemoveRider(ctx context.Context, riderID string) error
}

// RiderFacade encapsulates the operations a rider performs on their own deliveries.
type RiderFacade interface {
	RiderDashboard(ctx context.Context, riderID string) (*model.RiderDashboard, error)
	OrdersByRider(ctx context.Context, riderID string) ([]model.Order, error)
	StartDelivery(ctx context.Context, riderID, orderID string) (*model.Order, error)
	CompleteDelivery(ctx context.Context, riderID, orderID string) (*model.Order, error)
	SetRiderStatus(ctx context.Context, riderID string, status model.RiderStatus) (*model.User, error)
	UpdateRiderLocation(ctx context.Context, riderID string, location model.Location) (*model.User, error)
}

// HealthFacade reports store reachability.
type HealthFacade interface {
	Ping(ctx context.Context) error
}

// DispatchFacade aggregates the full set of operations used across handlers.
type DispatchFacade interface {
	AuthFacade
	ManagerFacade
	RiderFacade
	HealthFacade
}
