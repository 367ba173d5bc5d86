package repository

import (
	"context"

	"github.com/polkiloo/dispatch/internal/domain/model"
)

// UserMutation mutates a stored user in place. Returning an error aborts the write.
type UserMutation func(user *model.User) error

// UserRepository describes persistence operations for managers and riders.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user model.User) (*model.User, error)
	Update(ctx context.Context, userID string, fn UserMutation) (*model.User, error)
	Delete(ctx context.Context, userID string, role model.Role) error
}
