package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/server/http/dto"
)

// RiderHandler serves the endpoints a rider uses for their own deliveries.
type RiderHandler struct {
	facade RiderFacade
}

// NewRiderHandler constructs RiderHandler.
func NewRiderHandler(facade RiderFacade) *RiderHandler {
	return &RiderHandler{facade: facade}
}

// Dashboard handles GET /api/rider/dashboard.
func (h *RiderHandler) Dashboard(c *gin.Context) {
	dash, err := h.facade.RiderDashboard(c.Request.Context(), CurrentPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RiderDashboardResponse{
		AssignedCount:     dash.AssignedCount,
		InProgressCount:   dash.InProgressCount,
		CompletedCount:    dash.CompletedCount,
		CurrentDeliveries: toOrderResponses(dash.CurrentDeliveries, nil),
	})
}

// Orders handles GET /api/rider/orders.
func (h *RiderHandler) Orders(c *gin.Context) {
	orders, err := h.facade.OrdersByRider(c.Request.Context(), CurrentPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders, nil))
}

// Start handles POST /api/rider/orders/:id/start.
func (h *RiderHandler) Start(c *gin.Context) {
	order, err := h.facade.StartDelivery(c.Request.Context(), CurrentPrincipal(c).UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Complete handles POST /api/rider/orders/:id/complete.
func (h *RiderHandler) Complete(c *gin.Context) {
	order, err := h.facade.CompleteDelivery(c.Request.Context(), CurrentPrincipal(c).UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// SetStatus handles PUT /api/rider/status.
func (h *RiderHandler) SetStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.facade.SetRiderStatus(c.Request.Context(), CurrentPrincipal(c).UserID, model.RiderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(*user))
}

// UpdateLocation handles PUT /api/rider/location.
func (h *RiderHandler) UpdateLocation(c *gin.Context) {
	var req dto.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Lat == nil || req.Lng == nil {
		badRequest(c, "lat and lng are required")
		return
	}

	user, err := h.facade.UpdateRiderLocation(c.Request.Context(), CurrentPrincipal(c).UserID, model.Location{Lat: *req.Lat, Lng: *req.Lng})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(*user))
}
