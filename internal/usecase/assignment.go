package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	domainErrors "github.com/polkiloo/dispatch/internal/domain/errors"
	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/domain/repository"
)

const recentOrdersLimit = 5

// AssignmentUseCase drives the order lifecycle between managers and riders.
type AssignmentUseCase struct {
	orders repository.OrderRepository
	users  repository.UserRepository
}

// NewAssignmentUseCase constructs AssignmentUseCase.
func NewAssignmentUseCase(orders repository.OrderRepository, users repository.UserRepository) *AssignmentUseCase {
	return &AssignmentUseCase{orders: orders, users: users}
}

// CreateOrder validates and stores a pending order. When a rider is supplied
// the order is assigned right away.
func (u *AssignmentUseCase) CreateOrder(ctx context.Context, fields model.NewOrder) (*model.Order, error) {
	if err := ValidateNewOrder(&fields); err != nil {
		return nil, err
	}

	riderID := fields.RiderID
	fields.RiderID = nil
	order, err := u.orders.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	if riderID == nil {
		return order, nil
	}

	return u.orders.UpdateStatus(ctx, order.ID, model.OrderStatusAssigned, model.SetRider(*riderID))
}

// AssignRider hands a pending or assigned order to riderID. The rider is not
// looked up; dangling references are tolerated.
func (u *AssignmentUseCase) AssignRider(ctx context.Context, orderID, riderID string) (*model.Order, error) {
	riderID = strings.TrimSpace(riderID)
	if riderID == "" {
		return nil, validationError("rider id is required")
	}

	return u.orders.Transition(ctx, orderID, func(o *model.Order) error {
		if o.Status == model.OrderStatusInProgress {
			return fmt.Errorf("%w: order %s is already in progress", domainErrors.ErrInvalidTransition, o.ID)
		}
		o.Status = model.OrderStatusAssigned
		model.SetRider(riderID).Apply(o)
		return nil
	})
}

// StartDelivery moves an assigned order to in-progress for its own rider.
func (u *AssignmentUseCase) StartDelivery(ctx context.Context, riderID, orderID string) (*model.Order, error) {
	return u.orders.Transition(ctx, orderID, func(o *model.Order) error {
		if !o.AssignedTo(riderID) || o.Status != model.OrderStatusAssigned {
			return fmt.Errorf("%w: order %s cannot be started by rider %s", domainErrors.ErrForbidden, o.ID, riderID)
		}
		o.Status = model.OrderStatusInProgress
		return nil
	})
}

// CompleteDelivery marks an assigned or in-progress order completed for its own rider.
func (u *AssignmentUseCase) CompleteDelivery(ctx context.Context, riderID, orderID string) (*model.Order, error) {
	return u.orders.Transition(ctx, orderID, func(o *model.Order) error {
		if !o.AssignedTo(riderID) {
			return fmt.Errorf("%w: order %s is not assigned to rider %s", domainErrors.ErrForbidden, o.ID, riderID)
		}
		switch o.Status {
		case model.OrderStatusAssigned, model.OrderStatusInProgress:
			o.Status = model.OrderStatusCompleted
			return nil
		default:
			return fmt.Errorf("%w: order %s is %s", domainErrors.ErrInvalidTransition, o.ID, o.Status)
		}
	})
}

// CancelOrder cancels a non-terminal order and releases its rider.
func (u *AssignmentUseCase) CancelOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if _, err := u.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return u.orders.Cancel(ctx, orderID)
}

// DeleteOrder removes a non-terminal order.
func (u *AssignmentUseCase) DeleteOrder(ctx context.Context, orderID string) error {
	if _, err := u.orders.GetByID(ctx, orderID); err != nil {
		return err
	}
	return u.orders.Delete(ctx, orderID)
}

func (u *AssignmentUseCase) Orders(ctx context.Context) ([]model.Order, error) {
	return u.orders.GetAll(ctx)
}

func (u *AssignmentUseCase) Waitlist(ctx context.Context) ([]model.Order, error) {
	return u.orders.GetWaitlist(ctx)
}

func (u *AssignmentUseCase) Order(ctx context.Context, orderID string) (*model.Order, error) {
	return u.orders.GetByID(ctx, orderID)
}

func (u *AssignmentUseCase) OrdersByRider(ctx context.Context, riderID string) ([]model.Order, error) {
	return u.orders.GetOrdersByRider(ctx, riderID)
}

func (u *AssignmentUseCase) OrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	if !status.Valid() {
		return nil, validationError("unknown status %q", status)
	}
	return u.orders.GetOrdersByStatus(ctx, status)
}

// ReconcileWaitlist rebuilds the waitlist from the order collection.
func (u *AssignmentUseCase) ReconcileWaitlist(ctx context.Context) (added, removed int, err error) {
	return u.orders.ReconcileWaitlist(ctx)
}

// ManagerDashboard summarizes orders, riders and the waitlist.
func (u *AssignmentUseCase) ManagerDashboard(ctx context.Context) (*model.ManagerDashboard, error) {
	orders, err := u.orders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	waitlist, err := u.orders.GetWaitlist(ctx)
	if err != nil {
		return nil, err
	}
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}

	dash := &model.ManagerDashboard{
		QueuedOrders: len(waitlist),
		Orders:       orders,
		Waitlist:     waitlist,
		Riders:       []model.User{},
	}
	for _, o := range orders {
		if o.Status == model.OrderStatusInProgress {
			dash.ActiveDeliveries++
		}
	}
	for _, usr := range users {
		if !usr.IsRider() {
			continue
		}
		dash.Riders = append(dash.Riders, usr)
		if usr.Available() {
			dash.AvailableRiders++
		}
	}
	dash.RecentOrders = recentOrders(orders, recentOrdersLimit)
	return dash, nil
}

// RiderDashboard summarizes the orders held by riderID.
func (u *AssignmentUseCase) RiderDashboard(ctx context.Context, riderID string) (*model.RiderDashboard, error) {
	orders, err := u.orders.GetOrdersByRider(ctx, riderID)
	if err != nil {
		return nil, err
	}

	dash := &model.RiderDashboard{CurrentDeliveries: []model.Order{}}
	for _, o := range orders {
		switch o.Status {
		case model.OrderStatusAssigned:
			dash.AssignedCount++
			dash.CurrentDeliveries = append(dash.CurrentDeliveries, o)
		case model.OrderStatusInProgress:
			dash.InProgressCount++
			dash.CurrentDeliveries = append(dash.CurrentDeliveries, o)
		case model.OrderStatusCompleted:
			dash.CompletedCount++
		}
	}
	return dash, nil
}

func recentOrders(orders []model.Order, limit int) []model.Order {
	sorted := make([]model.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
