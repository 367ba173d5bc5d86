package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/dispatch/internal/domain/errors"
	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/domain/repository"
	pkgAuth "github.com/polkiloo/dispatch/internal/pkg/auth"
)

// RiderUseCase is the rider registry: the users that carry the rider role.
type RiderUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
}

// NewRiderUseCase constructs RiderUseCase.
func NewRiderUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher) *RiderUseCase {
	return &RiderUseCase{users: users, hasher: hasher}
}

func (u *RiderUseCase) ListAll(ctx context.Context) ([]model.User, error) {
	return u.list(ctx, func(model.User) bool { return true })
}

// ListAvailable returns riders whose status is available or unset.
func (u *RiderUseCase) ListAvailable(ctx context.Context) ([]model.User, error) {
	return u.list(ctx, model.User.Available)
}

func (u *RiderUseCase) list(ctx context.Context, keep func(model.User) bool) ([]model.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	riders := make([]model.User, 0, len(users))
	for _, usr := range users {
		if usr.IsRider() && keep(usr) {
			riders = append(riders, usr)
		}
	}
	return riders, nil
}

// Get returns the rider with riderID. Managers are reported as not found.
func (u *RiderUseCase) Get(ctx context.Context, riderID string) (*model.User, error) {
	usr, err := u.users.GetByID(ctx, riderID)
	if err != nil {
		return nil, err
	}
	if !usr.IsRider() {
		return nil, riderNotFound(riderID)
	}
	return usr, nil
}

// Add registers a rider on behalf of a manager. Without a password the rider
// cannot sign in until one is set through registration.
func (u *RiderUseCase) Add(ctx context.Context, rider model.NewRider) (*model.User, error) {
	if err := ValidateNewRider(&rider); err != nil {
		return nil, err
	}

	var hash string
	if rider.Password != "" {
		var err error
		if hash, err = u.hasher.Hash(rider.Password); err != nil {
			return nil, err
		}
	}

	return u.users.Create(ctx, model.User{
		Name:         rider.Name,
		Email:        rider.Email,
		PasswordHash: hash,
		Role:         model.RoleRider,
		Contact:      rider.Contact,
		Status:       model.RiderStatusAvailable,
	})
}

// Remove deletes the rider. Orders that still reference it are left alone.
func (u *RiderUseCase) Remove(ctx context.Context, riderID string) error {
	return u.users.Delete(ctx, riderID, model.RoleRider)
}

func (u *RiderUseCase) SetStatus(ctx context.Context, riderID string, status model.RiderStatus) (*model.User, error) {
	if !status.Valid() {
		return nil, validationError("unknown rider status %q", status)
	}
	return u.update(ctx, riderID, func(usr *model.User) {
		usr.Status = status
	})
}

func (u *RiderUseCase) UpdateLocation(ctx context.Context, riderID string, location model.Location) (*model.User, error) {
	if err := ValidateLocation(location); err != nil {
		return nil, err
	}
	return u.update(ctx, riderID, func(usr *model.User) {
		loc := location
		usr.CurrentLocation = &loc
	})
}

func (u *RiderUseCase) update(ctx context.Context, riderID string, apply func(*model.User)) (*model.User, error) {
	return u.users.Update(ctx, riderID, func(usr *model.User) error {
		if !usr.IsRider() {
			return riderNotFound(riderID)
		}
		apply(usr)
		return nil
	})
}

func riderNotFound(riderID string) error {
	return fmt.Errorf("%w: rider %s", domainErrors.ErrNotFound, riderID)
}
