package records

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/dispatch/internal/domain/errors"
	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/domain/repository"
	"github.com/polkiloo/dispatch/internal/storage"
)

type userRepository struct {
	docs *Documents
}

func (r *userRepository) lock(extra ...string) func() {
	return r.docs.locks.lock(append([]string{storage.CollectionUsers}, extra...)...)
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	defer r.lock()()
	return r.docs.loadUsers(ctx)
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	defer r.lock()()
	users, err := r.docs.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfUser(users, userID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: user %s", domainErrors.ErrNotFound, userID)
	}
	return &users[idx], nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	defer r.lock()()
	users, err := r.docs.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfEmail(users, email)
	if idx < 0 {
		return nil, fmt.Errorf("%w: user %s", domainErrors.ErrNotFound, email)
	}
	return &users[idx], nil
}

// Create stores user with a fresh id. Emails are unique case-insensitively.
func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	defer r.lock(storage.CollectionSequences)()

	users, err := r.docs.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	user.Email = normalizeEmail(user.Email)
	if indexOfEmail(users, user.Email) >= 0 {
		return nil, fmt.Errorf("%w: email %s", domainErrors.ErrConflict, user.Email)
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	if user.ID, err = r.docs.nextID(ctx, storage.CollectionUsers, ids); err != nil {
		return nil, err
	}
	now := r.docs.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user = cloneUser(user)

	if err := r.docs.saveUsers(ctx, append(users, user)); err != nil {
		return nil, err
	}
	r.docs.logger.Debug("user created", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, userID string, fn repository.UserMutation) (*model.User, error) {
	defer r.lock()()

	users, err := r.docs.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfUser(users, userID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: user %s", domainErrors.ErrNotFound, userID)
	}

	current := users[idx]
	next := cloneUser(current)
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.Email = normalizeEmail(next.Email)
	if next.Email != current.Email {
		if other := indexOfEmail(users, next.Email); other >= 0 && other != idx {
			return nil, fmt.Errorf("%w: email %s", domainErrors.ErrConflict, next.Email)
		}
	}
	next.UpdatedAt = r.docs.now()
	users[idx] = next

	if err := r.docs.saveUsers(ctx, users); err != nil {
		return nil, err
	}
	r.docs.logger.Debug("user updated", slog.String("user_id", next.ID))
	return &next, nil
}

// Delete removes the user with userID and role, then re-reads the collection
// to confirm the record is gone. An empty role matches any user.
func (r *userRepository) Delete(ctx context.Context, userID string, role model.Role) error {
	defer r.lock()()

	users, err := r.docs.loadUsers(ctx)
	if err != nil {
		return err
	}
	idx := indexOfUser(users, userID)
	if idx < 0 || (role != "" && users[idx].Role != role) {
		return fmt.Errorf("%w: user %s", domainErrors.ErrNotFound, userID)
	}

	users = append(users[:idx], users[idx+1:]...)
	if err := r.docs.saveUsers(ctx, users); err != nil {
		return err
	}

	after, err := r.docs.loadUsers(ctx)
	if err != nil {
		return err
	}
	if indexOfUser(after, userID) >= 0 {
		return fmt.Errorf("%w: user %s still present after delete", domainErrors.ErrPersistence, userID)
	}

	r.docs.logger.Debug("user deleted", slog.String("user_id", userID))
	return nil
}

func indexOfUser(users []model.User, userID string) int {
	for i := range users {
		if users[i].ID == userID {
			return i
		}
	}
	return -1
}

func indexOfEmail(users []model.User, email string) int {
	email = normalizeEmail(email)
	for i := range users {
		if normalizeEmail(users[i].Email) == email {
			return i
		}
	}
	return -1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneUser(u model.User) model.User {
	if u.CurrentLocation != nil {
		loc := *u.CurrentLocation
		u.CurrentLocation = &loc
	}
	return u
}
