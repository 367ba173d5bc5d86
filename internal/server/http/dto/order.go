package dto

import "time"

// CreateOrderRequest describes a new delivery order.
type CreateOrderRequest struct {
	CustomerName    string   `json:"customerName"`
	Address         string   `json:"address"`
	PickupLocation  string   `json:"pickupLocation"`
	DropoffLocation string   `json:"dropoffLocation"`
	Items           []string `json:"items"`
	RiderID         *string  `json:"riderId"`
}

// AssignRequest names the rider an order is handed to.
type AssignRequest struct {
	RiderID string `json:"riderId"`
}

// OrderResponse is the JSON view of an order. RiderName is filled for manager
// views; a rider that no longer exists is reported as unknown.
type OrderResponse struct {
	ID              string    `json:"id"`
	CustomerName    string    `json:"customerName"`
	Address         string    `json:"address"`
	PickupLocation  string    `json:"pickupLocation"`
	DropoffLocation string    `json:"dropoffLocation"`
	Items           []string  `json:"items"`
	RiderID         *string   `json:"riderId"`
	RiderName       string    `json:"riderName,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
