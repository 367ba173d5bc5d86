package app

import (
	"context"

	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/usecase"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DispatchFacade exposes the use cases to the HTTP layer and the worker.
type DispatchFacade struct {
	auth       *usecase.AuthUseCase
	assignment *usecase.AssignmentUseCase
	riders     *usecase.RiderUseCase
	store      Pinger
}

func NewDispatchFacade(auth *usecase.AuthUseCase, assignment *usecase.AssignmentUseCase, riders *usecase.RiderUseCase, store Pinger) *DispatchFacade {
	return &DispatchFacade{auth: auth, assignment: assignment, riders: riders, store: store}
}

func (f *DispatchFacade) Register(ctx context.Context, reg model.Registration) (*model.User, string, error) {
	return f.auth.Register(ctx, reg)
}

func (f *DispatchFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *DispatchFacade) ParseToken(ctx context.Context, token string) (model.Principal, error) {
	return f.auth.ParseToken(ctx, token)
}

func (f *DispatchFacade) ManagerDashboard(ctx context.Context) (*model.ManagerDashboard, error) {
	return f.assignment.ManagerDashboard(ctx)
}

func (f *DispatchFacade) Orders(ctx context.Context) ([]model.Order, error) {
	return f.assignment.Orders(ctx)
}

func (f *DispatchFacade) Order(ctx context.Context, orderID string) (*model.Order, error) {
	return f.assignment.Order(ctx, orderID)
}

func (f *DispatchFacade) Waitlist(ctx context.Context) ([]model.Order, error) {
	return f.assignment.Waitlist(ctx)
}

func (f *DispatchFacade) CreateOrder(ctx context.Context, fields model.NewOrder) (*model.Order, error) {
	return f.assignment.CreateOrder(ctx, fields)
}

func (f *DispatchFacade) AssignRider(ctx context.Context, orderID, riderID string) (*model.Order, error) {
	return f.assignment.AssignRider(ctx, orderID, riderID)
}

func (f *DispatchFacade) CancelOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return f.assignment.CancelOrder(ctx, orderID)
}

func (f *DispatchFacade) DeleteOrder(ctx context.Context, orderID string) error {
	return f.assignment.DeleteOrder(ctx, orderID)
}

func (f *DispatchFacade) Riders(ctx context.Context) ([]model.User, error) {
	return f.riders.ListAll(ctx)
}

func (f *DispatchFacade) AvailableRiders(ctx context.Context) ([]model.User, error) {
	return f.riders.ListAvailable(ctx)
}

func (f *DispatchFacade) Rider(ctx context.Context, riderID string) (*model.User, error) {
	return f.riders.Get(ctx, riderID)
}

func (f *DispatchFacade) AddRider(ctx context.Context, rider model.NewRider) (*model.User, error) {
	return f.riders.Add(ctx, rider)
}

func (f *DispatchFacade) RemoveRider(ctx context.Context, riderID string) error {
	return f.riders.Remove(ctx, riderID)
}

func (f *DispatchFacade) RiderDashboard(ctx context.Context, riderID string) (*model.RiderDashboard, error) {
	return f.assignment.RiderDashboard(ctx, riderID)
}

func (f *DispatchFacade) OrdersByRider(ctx context.Context, riderID string) ([]model.Order, error) {
	return f.assignment.OrdersByRider(ctx, riderID)
}

func (f *DispatchFacade) StartDelivery(ctx context.Context, riderID, orderID string) (*model.Order, error) {
	return f.assignment.StartDelivery(ctx, riderID, orderID)
}

func (f *DispatchFacade) CompleteDelivery(ctx context.Context, riderID, orderID string) (*model.Order, error) {
	return f.assignment.CompleteDelivery(ctx, riderID, orderID)
}

func (f *DispatchFacade) SetRiderStatus(ctx context.Context, riderID string, status model.RiderStatus) (*model.User, error) {
	return f.riders.SetStatus(ctx, riderID, status)
}

func (f *DispatchFacade) UpdateRiderLocation(ctx context.Context, riderID string, location model.Location) (*model.User, error) {
	return f.riders.UpdateLocation(ctx, riderID, location)
}

func (f *DispatchFacade) ReconcileWaitlist(ctx context.Context) (int, int, error) {
	return f.assignment.ReconcileWaitlist(ctx)
}

func (f *DispatchFacade) Ping(ctx context.Context) error {
	return f.store.Ping(ctx)
}
