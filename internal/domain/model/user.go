package model

import "time"

// Role distinguishes managers from riders.
type Role string

const (
	RoleManager Role = "manager"
	RoleRider   Role = "rider"
)

// Valid reports whether r is a supported role.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleRider
}

// RiderStatus is the self-reported availability of a rider.
type RiderStatus string

const (
	RiderStatusAvailable RiderStatus = "available"
	RiderStatusBusy      RiderStatus = "busy"
)

// Valid reports whether s is a supported availability value.
func (s RiderStatus) Valid() bool {
	return s == RiderStatusAvailable || s == RiderStatusBusy
}

// Location is a last known rider position.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// User represents a manager or a rider account.
type User struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	PasswordHash    string      `json:"password,omitempty"`
	Role            Role        `json:"role"`
	Contact         string      `json:"contact,omitempty"`
	Status          RiderStatus `json:"status,omitempty"`
	CurrentLocation *Location   `json:"currentLocation,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// IsRider reports whether the user has the rider role.
func (u User) IsRider() bool {
	return u.Role == RoleRider
}

// Available treats a missing status as available.
func (u User) Available() bool {
	return u.Status == "" || u.Status == RiderStatusAvailable
}

// Principal identifies an authenticated caller.
type Principal struct {
	UserID string
	Role   Role
}

// NewRider carries the fields a manager supplies when adding a rider.
type NewRider struct {
	Name     string
	Email    string
	Contact  string
	Password string
}

// Registration carries a self-service sign up request.
type Registration struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            Role
}
