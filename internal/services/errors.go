package services

import (
	"errors"
	"fmt"

	"mainstreet/internal/reconcile"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email/username or password")
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrUserNotFound       = errors.New("user not found")
	ErrShopNotFound       = errors.New("shop not found")
	ErrDatabaseTimeout    = errors.New("database timeout")
	ErrNoShopsData        = errors.New("no shops data")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrSlugTaken          = errors.New("shop id already taken")
	ErrStoreUnavailable   = errors.New("database unavailable")

	ErrNoSource = reconcile.ErrNoSource
)

// ValidationError carries a message that can be shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
