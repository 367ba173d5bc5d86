package records

import (
	"context"
	"fmt"
	"log/slog"

	domainErrors "github.com/polkiloo/dispatch/internal/domain/errors"
	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/domain/repository"
	"github.com/polkiloo/dispatch/internal/storage"
)

type orderRepository struct {
	docs *Documents
}

func (r *orderRepository) lock(extra ...string) func() {
	return r.docs.locks.lock(append([]string{storage.CollectionOrders, storage.CollectionWaitlist}, extra...)...)
}

func (r *orderRepository) GetAll(ctx context.Context) ([]model.Order, error) {
	defer r.lock()()
	return r.docs.loadOrders(ctx, storage.CollectionOrders)
}

func (r *orderRepository) GetWaitlist(ctx context.Context) ([]model.Order, error) {
	defer r.lock()()
	return r.docs.loadOrders(ctx, storage.CollectionWaitlist)
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	defer r.lock()()
	orders, err := r.docs.loadOrders(ctx, storage.CollectionOrders)
	if err != nil {
		return nil, err
	}
	idx := indexOfOrder(orders, orderID)
	if idx < 0 {
		return nil, orderNotFound(orderID)
	}
	return &orders[idx], nil
}

func (r *orderRepository) GetOrdersByRider(ctx context.Context, riderID string) ([]model.Order, error) {
	return r.filter(ctx, func(o model.Order) bool { return o.AssignedTo(riderID) })
}

func (r *orderRepository) GetOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	return r.filter(ctx, func(o model.Order) bool { return o.Status == status })
}

func (r *orderRepository) filter(ctx context.Context, keep func(model.Order) bool) ([]model.Order, error) {
	orders, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if keep(o) {
			result = append(result, o)
		}
	}
	return result, nil
}

func (r *orderRepository) Create(ctx context.Context, fields model.NewOrder) (*model.Order, error) {
	defer r.lock(storage.CollectionSequences)()

	orders, err := r.docs.loadOrders(ctx, storage.CollectionOrders)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	id, err := r.docs.nextID(ctx, storage.CollectionOrders, ids)
	if err != nil {
		return nil, err
	}

	now := r.docs.now()
	order := model.Order{
		ID:              id,
		CustomerName:    fields.CustomerName,
		Address:         fields.Address,
		PickupLocation:  fields.PickupLocation,
		DropoffLocation: fields.DropoffLocation,
		Items:           fields.Items,
		RiderID:         fields.RiderID,
		Status:          model.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	order = order.Clone()
	if order.Items == nil {
		order.Items = []string{}
	}

	if err := r.docs.saveOrders(ctx, storage.CollectionOrders, append(orders, order)); err != nil {
		return nil, err
	}
	if err := r.syncWaitlist(ctx, order); err != nil {
		return nil, err
	}

	r.docs.logger.Debug("order created", slog.String("order_id", order.ID), slog.Bool("waitlisted", order.Waitlisted()))
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, rider model.RiderUpdate) (*model.Order, error) {
	return r.Transition(ctx, orderID, func(o *model.Order) error {
		o.Status = status
		rider.Apply(o)
		return nil
	})
}

// Transition reads the order, lets fn guard and mutate it, then writes it back
// and syncs the waitlist, all under the orders lock. Guard errors from fn take
// precedence; a terminal order is never written.
func (r *orderRepository) Transition(ctx context.Context, orderID string, fn repository.TransitionFunc) (*model.Order, error) {
	defer r.lock()()

	orders, err := r.docs.loadOrders(ctx, storage.CollectionOrders)
	if err != nil {
		return nil, err
	}
	idx := indexOfOrder(orders, orderID)
	if idx < 0 {
		return nil, orderNotFound(orderID)
	}

	current := orders[idx]
	next := current.Clone()
	if err := fn(&next); err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, fmt.Errorf("%w: order %s is %s", domainErrors.ErrInvalidTransition, orderID, current.Status)
	}
	if !next.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domainErrors.ErrValidation, next.Status)
	}
	if !next.RiderConsistent() {
		return nil, fmt.Errorf("%w: order %s cannot be %s %s", domainErrors.ErrInvalidTransition, orderID, next.Status, riderPhrase(next))
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = r.docs.now()
	orders[idx] = next

	if err := r.docs.saveOrders(ctx, storage.CollectionOrders, orders); err != nil {
		return nil, err
	}
	if err := r.syncWaitlist(ctx, next); err != nil {
		return nil, err
	}

	r.docs.logger.Debug("order updated",
		slog.String("order_id", next.ID),
		slog.String("from", string(current.Status)),
		slog.String("to", string(next.Status)),
	)
	return &next, nil
}

func (r *orderRepository) Cancel(ctx context.Context, orderID string) (*model.Order, error) {
	return r.Transition(ctx, orderID, func(o *model.Order) error {
		o.Status = model.OrderStatusCancelled
		model.ClearRider().Apply(o)
		return nil
	})
}

func (r *orderRepository) Delete(ctx context.Context, orderID string) error {
	defer r.lock()()

	orders, err := r.docs.loadOrders(ctx, storage.CollectionOrders)
	if err != nil {
		return err
	}
	idx := indexOfOrder(orders, orderID)
	if idx < 0 {
		return orderNotFound(orderID)
	}
	removed := orders[idx]
	if removed.Status.Terminal() {
		return fmt.Errorf("%w: order %s is %s", domainErrors.ErrInvalidTransition, orderID, removed.Status)
	}

	orders = append(orders[:idx], orders[idx+1:]...)
	if err := r.docs.saveOrders(ctx, storage.CollectionOrders, orders); err != nil {
		return err
	}
	if err := r.dropFromWaitlist(ctx, orderID); err != nil {
		return err
	}

	r.docs.logger.Debug("order deleted", slog.String("order_id", orderID))
	return nil
}

// ReconcileWaitlist rewrites the waitlist so it holds exactly the unassigned,
// non-terminal orders.
func (r *orderRepository) ReconcileWaitlist(ctx context.Context) (added, removed int, err error) {
	defer r.lock()()

	orders, err := r.docs.loadOrders(ctx, storage.CollectionOrders)
	if err != nil {
		return 0, 0, err
	}
	waitlist, err := r.docs.loadOrders(ctx, storage.CollectionWaitlist)
	if err != nil {
		return 0, 0, err
	}

	desired := make([]model.Order, 0, len(orders))
	want := make(map[string]bool, len(orders))
	for _, o := range orders {
		if o.Waitlisted() {
			desired = append(desired, o)
			want[o.ID] = true
		}
	}

	seen := make(map[string]bool, len(waitlist))
	for _, o := range waitlist {
		if !want[o.ID] || seen[o.ID] {
			removed++
			continue
		}
		seen[o.ID] = true
	}
	for id := range want {
		if !seen[id] {
			added++
		}
	}

	if added == 0 && removed == 0 {
		return 0, 0, nil
	}
	if err := r.docs.saveOrders(ctx, storage.CollectionWaitlist, desired); err != nil {
		return 0, 0, err
	}
	return added, removed, nil
}

// syncWaitlist makes the waitlist agree with order. Callers hold the orders lock.
func (r *orderRepository) syncWaitlist(ctx context.Context, order model.Order) error {
	if !order.Waitlisted() {
		return r.dropFromWaitlist(ctx, order.ID)
	}

	waitlist, err := r.docs.loadOrders(ctx, storage.CollectionWaitlist)
	if err != nil {
		return err
	}
	if idx := indexOfOrder(waitlist, order.ID); idx >= 0 {
		waitlist[idx] = order
	} else {
		waitlist = append(waitlist, order)
	}
	return r.docs.saveOrders(ctx, storage.CollectionWaitlist, waitlist)
}

func (r *orderRepository) dropFromWaitlist(ctx context.Context, orderID string) error {
	waitlist, err := r.docs.loadOrders(ctx, storage.CollectionWaitlist)
	if err != nil {
		return err
	}
	kept := waitlist[:0]
	for _, o := range waitlist {
		if o.ID != orderID {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(waitlist) {
		return nil
	}
	return r.docs.saveOrders(ctx, storage.CollectionWaitlist, kept)
}

func indexOfOrder(orders []model.Order, orderID string) int {
	for i := range orders {
		if orders[i].ID == orderID {
			return i
		}
	}
	return -1
}

func orderNotFound(orderID string) error {
	return fmt.Errorf("%w: order %s", domainErrors.ErrNotFound, orderID)
}

func riderPhrase(o model.Order) string {
	if o.RiderID == nil {
		return "without a rider"
	}
	return "with rider " + *o.RiderID
}
