package dto

// AddRiderRequest describes a rider registered by a manager.
type AddRiderRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
	Password string `json:"password"`
}

// StatusRequest carries a rider availability update.
type StatusRequest struct {
	Status string `json:"status"`
}

// LocationRequest carries a rider position. Both coordinates are required.
type LocationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type LocationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
