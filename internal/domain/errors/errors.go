package errors

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrForbidden          = errors.New("not permitted")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPersistence        = errors.New("persistence failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
