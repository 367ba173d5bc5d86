package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/dispatch/internal/domain/errors"
	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/domain/repository"
	pkgAuth "github.com/polkiloo/dispatch/internal/pkg/auth"
)

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates a new manager or rider account and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, reg model.Registration) (*model.User, string, error) {
	if err := ValidateRegistration(&reg); err != nil {
		return nil, "", err
	}

	hash, err := u.hasher.Hash(reg.Password)
	if err != nil {
		return nil, "", err
	}

	usr := model.User{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: hash,
		Role:         reg.Role,
	}
	if reg.Role == model.RoleRider {
		usr.Status = model.RiderStatusAvailable
	}

	created, err := u.users.Create(ctx, usr)
	if errors.Is(err, domainErrors.ErrConflict) && reg.Role == model.RoleRider {
		created, err = u.claimRider(ctx, reg.Email, hash, err)
	}
	if err != nil {
		return nil, "", err
	}

	token, err := u.issue(created)
	if err != nil {
		return nil, "", err
	}

	return created, token, nil
}

// claimRider sets the password of a rider a manager added without one. Any
// other existing account keeps the original conflict.
func (u *AuthUseCase) claimRider(ctx context.Context, email, hash string, conflict error) (*model.User, error) {
	existing, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, conflict
	}
	return u.users.Update(ctx, existing.ID, func(usr *model.User) error {
		if !usr.IsRider() || usr.PasswordHash != "" {
			return conflict
		}
		usr.PasswordHash = hash
		return nil
	})
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if usr.PasswordHash == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts the caller principal from token and confirms the account
// still exists with the same role. Tokens of removed users are invalid.
func (u *AuthUseCase) ParseToken(ctx context.Context, token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	principal, err := u.tokens.ParseToken(token)
	if err != nil {
		return model.Principal{}, err
	}

	usr, err := u.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return model.Principal{}, fmt.Errorf("%w: user %s no longer exists", pkgAuth.ErrInvalidToken, principal.UserID)
		}
		return model.Principal{}, err
	}
	if usr.Role != principal.Role {
		return model.Principal{}, fmt.Errorf("%w: role changed for user %s", pkgAuth.ErrInvalidToken, principal.UserID)
	}
	return principal, nil
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

func (u *AuthUseCase) issue(usr *model.User) (string, error) {
	return u.tokens.IssueToken(model.Principal{UserID: usr.ID, Role: usr.Role})
}
