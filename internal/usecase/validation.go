package usecase

import (
	"fmt"
	"regexp"
	"strings"

	domainErrors "github.com/polkiloo/dispatch/internal/domain/errors"
	"github.com/polkiloo/dispatch/internal/domain/model"
	pkgAuth "github.com/polkiloo/dispatch/internal/pkg/auth"
)

var (
	personNamePattern = regexp.MustCompile(`^[A-Za-z\s]+$`)
	contactPattern    = regexp.MustCompile(`^(\+254|0)?[0-9]{9,15}$`)
	emailPattern      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domainErrors.ErrValidation, fmt.Sprintf(format, args...))
}

// ValidateNewOrder trims the order fields in place and rejects empty ones.
func ValidateNewOrder(fields *model.NewOrder) error {
	required := []struct {
		name  string
		value *string
	}{
		{"customerName", &fields.CustomerName},
		{"address", &fields.Address},
		{"pickupLocation", &fields.PickupLocation},
		{"dropoffLocation", &fields.DropoffLocation},
	}
	for _, f := range required {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return validationError("%s is required", f.name)
		}
	}

	if len(fields.Items) == 0 {
		return validationError("at least one item is required")
	}
	items := make([]string, 0, len(fields.Items))
	for _, item := range fields.Items {
		item = strings.TrimSpace(item)
		if item == "" {
			return validationError("items must not be empty")
		}
		items = append(items, item)
	}
	fields.Items = items

	if fields.RiderID != nil {
		id := strings.TrimSpace(*fields.RiderID)
		if id == "" {
			fields.RiderID = nil
		} else {
			fields.RiderID = &id
		}
	}
	return nil
}

// ValidateNewRider trims the rider fields in place and checks their format.
func ValidateNewRider(r *model.NewRider) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Contact = strings.TrimSpace(r.Contact)

	if r.Name == "" || r.Email == "" || r.Contact == "" {
		return validationError("name, email and contact are required")
	}
	if !personNamePattern.MatchString(r.Name) {
		return validationError("rider name should only contain letters and spaces")
	}
	if !emailPattern.MatchString(r.Email) {
		return validationError("invalid email %q", r.Email)
	}
	if !contactPattern.MatchString(r.Contact) {
		return validationError("invalid contact number %q", r.Contact)
	}
	if len(r.Password) > pkgAuth.MaxPasswordLength {
		return validationError("password must be at most %d bytes", pkgAuth.MaxPasswordLength)
	}
	return nil
}

// ValidateRegistration trims the registration in place and checks it is complete.
func ValidateRegistration(r *model.Registration) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)

	if r.Name == "" || r.Email == "" || r.Password == "" || r.ConfirmPassword == "" || r.Role == "" {
		return validationError("all fields are required")
	}
	if r.Password != r.ConfirmPassword {
		return validationError("passwords do not match")
	}
	if len(r.Password) > pkgAuth.MaxPasswordLength {
		return validationError("password must be at most %d bytes", pkgAuth.MaxPasswordLength)
	}
	if !r.Role.Valid() {
		return validationError("invalid role %q", r.Role)
	}
	if !emailPattern.MatchString(r.Email) {
		return validationError("invalid email %q", r.Email)
	}
	return nil
}

// ValidateLocation rejects coordinates outside the WGS84 range.
func ValidateLocation(loc model.Location) error {
	if loc.Lat < -90 || loc.Lat > 90 || loc.Lng < -180 || loc.Lng > 180 {
		return validationError("location out of range")
	}
	return nil
}
