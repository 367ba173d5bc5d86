package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/dispatch/internal/domain/errors"
	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/server/http/dto"
)

// ManagerHandler serves the manager console: orders, waitlist and rider registry.
type ManagerHandler struct {
	facade ManagerFacade
}

// NewManagerHandler constructs ManagerHandler.
func NewManagerHandler(facade ManagerFacade) *ManagerHandler {
	return &ManagerHandler{facade: facade}
}

// Dashboard handles GET /api/manager/dashboard.
func (h *ManagerHandler) Dashboard(c *gin.Context) {
	dash, err := h.facade.ManagerDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	names := riderNames(dash.Riders)
	c.JSON(http.StatusOK, dto.ManagerDashboardResponse{
		ActiveDeliveries: dash.ActiveDeliveries,
		AvailableRiders:  dash.AvailableRiders,
		QueuedOrders:     dash.QueuedOrders,
		RecentOrders:     toOrderResponses(dash.RecentOrders, names),
		Orders:           toOrderResponses(dash.Orders, names),
		Riders:           toUserResponses(dash.Riders),
		Waitlist:         toOrderResponses(dash.Waitlist, names),
	})
}

// ListOrders handles GET /api/manager/orders.
func (h *ManagerHandler) ListOrders(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondOrders(c, orders)
}

// Waitlist handles GET /api/manager/waitlist.
func (h *ManagerHandler) Waitlist(c *gin.Context) {
	orders, err := h.facade.Waitlist(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders, nil))
}

// GetOrder handles GET /api/manager/orders/:id.
func (h *ManagerHandler) GetOrder(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondOrder(c, http.StatusOK, order)
}

// CreateOrder handles POST /api/manager/orders.
func (h *ManagerHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), model.NewOrder{
		CustomerName:    req.CustomerName,
		Address:         req.Address,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		Items:           req.Items,
		RiderID:         req.RiderID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondOrder(c, http.StatusCreated, order)
}

// Assign handles POST /api/manager/orders/:id/assign.
func (h *ManagerHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	order, err := h.facade.AssignRider(c.Request.Context(), c.Param("id"), req.RiderID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondOrder(c, http.StatusOK, order)
}

// Cancel handles POST /api/manager/orders/:id/cancel.
func (h *ManagerHandler) Cancel(c *gin.Context) {
	order, err := h.facade.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondOrder(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/manager/orders/:id.
func (h *ManagerHandler) DeleteOrder(c *gin.Context) {
	if err := h.facade.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRiders handles GET /api/manager/riders.
func (h *ManagerHandler) ListRiders(c *gin.Context) {
	riders, err := h.facade.Riders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponses(riders))
}

// AvailableRiders handles GET /api/manager/riders/available.
func (h *ManagerHandler) AvailableRiders(c *gin.Context) {
	riders, err := h.facade.AvailableRiders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponses(riders))
}

// AddRider handles POST /api/manager/riders.
func (h *ManagerHandler) AddRider(c *gin.Context) {
	var req dto.AddRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	rider, err := h.facade.AddRider(c.Request.Context(), model.NewRider{
		Name:     req.Name,
		Email:    req.Email,
		Contact:  req.Contact,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(*rider))
}

// RemoveRider handles DELETE /api/manager/riders/:id.
func (h *ManagerHandler) RemoveRider(c *gin.Context) {
	if err := h.facade.RemoveRider(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ManagerHandler) respondOrders(c *gin.Context, orders []model.Order) {
	riders, err := h.facade.Riders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders, riderNames(riders)))
}

func (h *ManagerHandler) respondOrder(c *gin.Context, status int, order *model.Order) {
	view := toOrderResponse(*order)
	if order.RiderID != nil {
		view.RiderName = UnknownRider
		rider, err := h.facade.Rider(c.Request.Context(), *order.RiderID)
		switch {
		case err == nil:
			view.RiderName = rider.Name
		case !errors.Is(err, domainErrors.ErrNotFound):
			respondError(c, err)
			return
		}
	}
	c.JSON(status, view)
}
