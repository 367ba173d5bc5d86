package model

// ManagerDashboard aggregates the manager overview.
type ManagerDashboard struct {
	ActiveDeliveries int
	AvailableRiders  int
	QueuedOrders     int
	RecentOrders     []Order
	Orders           []Order
	Riders           []User
	Waitlist         []Order
}

// RiderDashboard aggregates the deliveries of one rider.
type RiderDashboard struct {
	AssignedCount     int
	InProgressCount   int
	CompletedCount    int
	CurrentDeliveries []Order
}
