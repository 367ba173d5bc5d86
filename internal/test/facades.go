package test

import (
	"context"
	"strings"
	"sync"

	"github.com/polkiloo/dispatch/internal/domain/model"
	pkgAuth "github.com/polkiloo/dispatch/internal/pkg/auth"
)

// PrincipalFromToken decodes "<role>:<id>" test tokens.
func PrincipalFromToken(token string) (model.Principal, error) {
	role, id, ok := strings.Cut(token, ":")
	if !ok || id == "" || !model.Role(role).Valid() {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	return model.Principal{UserID: id, Role: model.Role(role)}, nil
}

// ManagerFacadeStub provides controllable behaviour for manager endpoints.
type ManagerFacadeStub struct {
	DashboardFn       func(context.Context) (*model.ManagerDashboard, error)
	OrdersFn          func(context.Context) ([]model.Order, error)
	OrderFn           func(context.Context, string) (*model.Order, error)
	WaitlistFn        func(context.Context) ([]model.Order, error)
	CreateOrderFn     func(context.Context, model.NewOrder) (*model.Order, error)
	AssignRiderFn     func(context.Context, string, string) (*model.Order, error)
	CancelOrderFn     func(context.Context, string) (*model.Order, error)
	DeleteOrderFn     func(context.Context, string) error
	RidersFn          func(context.Context) ([]model.User, error)
	AvailableRidersFn func(context.Context) ([]model.User, error)
	RiderFn           func(context.Context, string) (*model.User, error)
	AddRiderFn        func(context.Context, model.NewRider) (*model.User, error)
	RemoveRiderFn     func(context.Context, string) error
}

func (s ManagerFacadeStub) ManagerDashboard(ctx context.Context) (*model.ManagerDashboard, error) {
	if s.DashboardFn != nil {
		return s.DashboardFn(ctx)
	}
	return &model.ManagerDashboard{}, nil
}

func (s ManagerFacadeStub) Orders(ctx context.Context) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx)
	}
	return nil, nil
}

func (s ManagerFacadeStub) Order(ctx context.Context, orderID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPending}, nil
}

func (s ManagerFacadeStub) Waitlist(ctx context.Context) ([]model.Order, error) {
	if s.WaitlistFn != nil {
		return s.WaitlistFn(ctx)
	}
	return nil, nil
}

func (s ManagerFacadeStub) CreateOrder(ctx context.Context, fields model.NewOrder) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, fields)
	}
	return &model.Order{
		ID:              "1",
		CustomerName:    fields.CustomerName,
		Address:         fields.Address,
		PickupLocation:  fields.PickupLocation,
		DropoffLocation: fields.DropoffLocation,
		Items:           fields.Items,
		Status:          model.OrderStatusPending,
	}, nil
}

func (s ManagerFacadeStub) AssignRider(ctx context.Context, orderID, riderID string) (*model.Order, error) {
	if s.AssignRiderFn != nil {
		return s.AssignRiderFn(ctx, orderID, riderID)
	}
	return &model.Order{ID: orderID, RiderID: &riderID, Status: model.OrderStatusAssigned}, nil
}

func (s ManagerFacadeStub) CancelOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if s.CancelOrderFn != nil {
		return s.CancelOrderFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusCancelled}, nil
}

func (s ManagerFacadeStub) DeleteOrder(ctx context.Context, orderID string) error {
	if s.DeleteOrderFn != nil {
		return s.DeleteOrderFn(ctx, orderID)
	}
	return nil
}

func (s ManagerFacadeStub) Riders(ctx context.Context) ([]model.User, error) {
	if s.RidersFn != nil {
		return s.RidersFn(ctx)
	}
	return nil, nil
}

func (s ManagerFacadeStub) AvailableRiders(ctx context.Context) ([]model.User, error) {
	if s.AvailableRidersFn != nil {
		return s.AvailableRidersFn(ctx)
	}
	return nil, nil
}

func (s ManagerFacadeStub) Rider(ctx context.Context, riderID string) (*model.User, error) {
	if s.RiderFn != nil {
		return s.RiderFn(ctx, riderID)
	}
	return &model.User{ID: riderID, Role: model.RoleRider}, nil
}

func (s ManagerFacadeStub) AddRider(ctx context.Context, rider model.NewRider) (*model.User, error) {
	if s.AddRiderFn != nil {
		return s.AddRiderFn(ctx, rider)
	}
	return &model.User{ID: "1", Name: rider.Name, Email: rider.Email, Role: model.RoleRider, Status: model.RiderStatusAvailable}, nil
}

func (s ManagerFacadeStub) RemoveRider(ctx context.Context, riderID string) error {
	if s.RemoveRiderFn != nil {
		return s.RemoveRiderFn(ctx, riderID)
	}
	return nil
}

// RiderFacadeStub provides controllable behaviour for rider endpoints.
type RiderFacadeStub struct {
	DashboardFn func(context.Context, string) (*model.RiderDashboard, error)
	MyOrdersFn  func(context.Context, string) ([]model.Order, error)
	StartFn     func(context.Context, string, string) (*model.Order, error)
	CompleteFn  func(context.Context, string, string) (*model.Order, error)
	SetStatusFn func(context.Context, string, model.RiderStatus) (*model.User, error)
	LocationFn  func(context.Context, string, model.Location) (*model.User, error)
}

func (s RiderFacadeStub) RiderDashboard(ctx context.Context, riderID string) (*model.RiderDashboard, error) {
	if s.DashboardFn != nil {
		return s.DashboardFn(ctx, riderID)
	}
	return &model.RiderDashboard{}, nil
}

func (s RiderFacadeStub) OrdersByRider(ctx context.Context, riderID string) ([]model.Order, error) {
	if s.MyOrdersFn != nil {
		return s.MyOrdersFn(ctx, riderID)
	}
	return nil, nil
}

func (s RiderFacadeStub) StartDelivery(ctx context.Context, riderID, orderID string) (*model.Order, error) {
	if s.StartFn != nil {
		return s.StartFn(ctx, riderID, orderID)
	}
	return &model.Order{ID: orderID, RiderID: &riderID, Status: model.OrderStatusInProgress}, nil
}

func (s RiderFacadeStub) CompleteDelivery(ctx context.Context, riderID, orderID string) (*model.Order, error) {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, riderID, orderID)
	}
	return &model.Order{ID: orderID, RiderID: &riderID, Status: model.OrderStatusCompleted}, nil
}

func (s RiderFacadeStub) SetRiderStatus(ctx context.Context, riderID string, status model.RiderStatus) (*model.User, error) {
	if s.SetStatusFn != nil {
		return s.SetStatusFn(ctx, riderID, status)
	}
	return &model.User{ID: riderID, Role: model.RoleRider, Status: status}, nil
}

func (s RiderFacadeStub) UpdateRiderLocation(ctx context.Context, riderID string, location model.Location) (*model.User, error) {
	if s.LocationFn != nil {
		return s.LocationFn(ctx, riderID, location)
	}
	return &model.User{ID: riderID, Role: model.RoleRider, CurrentLocation: &location}, nil
}

// HealthStub reports the configured ping error.
type HealthStub struct {
	Err error
}

func (s HealthStub) Ping(context.Context) error {
	return s.Err
}

// DispatchFacadeStub aggregates facade dependencies for HTTP layer tests.
type DispatchFacadeStub struct {
	AuthFacadeStub
	ManagerFacadeStub
	RiderFacadeStub
	HealthStub
}

// ReconcilerStub counts reconciliation calls and returns fixed results.
type ReconcilerStub struct {
	Added   int
	Removed int
	Err     error

	mu    sync.Mutex
	calls int
}

// ReconcileWaitlist records the call and returns the configured outcome.
func (s *ReconcilerStub) ReconcileWaitlist(context.Context) (int, int, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.Added, s.Removed, s.Err
}

// Calls reports how many reconciliations ran.
func (s *ReconcilerStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
