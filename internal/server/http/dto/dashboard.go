package dto

// ManagerDashboardResponse is the manager overview.
type ManagerDashboardResponse struct {
	ActiveDeliveries int             `json:"activeDeliveries"`
	AvailableRiders  int             `json:"availableRiders"`
	QueuedOrders     int             `json:"queuedOrders"`
	RecentOrders     []OrderResponse `json:"recentOrders"`
	Orders           []OrderResponse `json:"orders"`
	Riders           []UserResponse  `json:"riders"`
	Waitlist         []OrderResponse `json:"waitlist"`
}

// RiderDashboardResponse summarizes the deliveries of the calling rider.
type RiderDashboardResponse struct {
	AssignedCount     int             `json:"assignedCount"`
	InProgressCount   int             `json:"inProgressCount"`
	CompletedCount    int             `json:"completedCount"`
	CurrentDeliveries []OrderResponse `json:"currentDeliveries"`
}

// HealthResponse reports service and store status.
type HealthResponse struct {
	Status string `json:"status"`
}
