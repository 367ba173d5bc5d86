package model

import "time"

// OrderStatus describes delivery lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAssigned   OrderStatus = "assigned"
	OrderStatusInProgress OrderStatus = "in-progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is allowed out of s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Order describes a delivery request created by a manager.
type Order struct {
	ID              string      `json:"id"`
	CustomerName    string      `json:"customerName"`
	Address         string      `json:"address"`
	PickupLocation  string      `json:"pickupLocation"`
	DropoffLocation string      `json:"dropoffLocation"`
	Items           []string    `json:"items"`
	RiderID         *string     `json:"riderId"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// NewOrder carries the caller supplied fields of an order.
type NewOrder struct {
	CustomerName    string
	Address         string
	PickupLocation  string
	DropoffLocation string
	Items           []string
	RiderID         *string
}

// AssignedTo reports whether the order is held by the given rider.
func (o Order) AssignedTo(riderID string) bool {
	return o.RiderID != nil && *o.RiderID == riderID
}

// RiderConsistent reports whether the rider reference fits the status: only
// assigned, in-progress and completed orders may hold a rider, and assigned or
// in-progress orders must.
func (o Order) RiderConsistent() bool {
	switch o.Status {
	case OrderStatusAssigned, OrderStatusInProgress:
		return o.RiderID != nil
	case OrderStatusCompleted:
		return true
	default:
		return o.RiderID == nil
	}
}

// Waitlisted reports whether the order belongs on the waitlist.
func (o Order) Waitlisted() bool {
	return o.RiderID == nil && !o.Status.Terminal()
}

// Clone returns a deep copy so callers cannot alias stored slices or pointers.
func (o Order) Clone() Order {
	c := o
	if o.Items != nil {
		c.Items = append([]string(nil), o.Items...)
	}
	if o.RiderID != nil {
		id := *o.RiderID
		c.RiderID = &id
	}
	return c
}

// RiderUpdate tells UpdateStatus what to do with the rider reference.
// The zero value keeps the current rider.
type RiderUpdate struct {
	change  bool
	riderID *string
}

// KeepRider leaves the rider reference untouched.
func KeepRider() RiderUpdate { return RiderUpdate{} }

// SetRider assigns the order to riderID.
func SetRider(riderID string) RiderUpdate {
	return RiderUpdate{change: true, riderID: &riderID}
}

// ClearRider removes the rider reference.
func ClearRider() RiderUpdate { return RiderUpdate{change: true} }

// Apply mutates o according to the update.
func (u RiderUpdate) Apply(o *Order) {
	if !u.change {
		return
	}
	if u.riderID == nil {
		o.RiderID = nil
		return
	}
	id := *u.riderID
	o.RiderID = &id
}
