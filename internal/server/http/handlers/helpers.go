package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/dispatch/internal/domain/errors"
	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/server/http/dto"
	"github.com/polkiloo/dispatch/internal/server/http/middleware"
)

// UnknownRider labels orders whose rider reference no longer resolves.
const UnknownRider = "Unknown rider"

// CurrentPrincipal extracts the authenticated caller from context.
func CurrentPrincipal(c *gin.Context) model.Principal {
	principal, _ := middleware.CurrentPrincipal(c)
	return principal
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrConflict), errors.Is(err, domainErrors.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body. Internal failures are logged through
// the request logger and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := order.Items
	if items == nil {
		items = []string{}
	}
	return dto.OrderResponse{
		ID:              order.ID,
		CustomerName:    order.CustomerName,
		Address:         order.Address,
		PickupLocation:  order.PickupLocation,
		DropoffLocation: order.DropoffLocation,
		Items:           items,
		RiderID:         order.RiderID,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func toOrderResponses(orders []model.Order, names map[string]string) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		view := toOrderResponse(o)
		if names != nil && o.RiderID != nil {
			view.RiderName = riderName(names, *o.RiderID)
		}
		response = append(response, view)
	}
	return response
}

func riderName(names map[string]string, riderID string) string {
	if name, ok := names[riderID]; ok {
		return name
	}
	return UnknownRider
}

func riderNames(riders []model.User) map[string]string {
	names := make(map[string]string, len(riders))
	for _, r := range riders {
		names[r.ID] = r.Name
	}
	return names
}

func toUserResponse(user model.User) dto.UserResponse {
	response := dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Contact:   user.Contact,
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.CurrentLocation != nil {
		response.CurrentLocation = &dto.LocationResponse{Lat: user.CurrentLocation.Lat, Lng: user.CurrentLocation.Lng}
	}
	return response
}

func toUserResponses(users []model.User) []dto.UserResponse {
	response := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, toUserResponse(u))
	}
	return response
}
