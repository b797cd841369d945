package repositories

import "errors"

var (
	// ErrNotFound is wrapped by every lookup that matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is wrapped when an insert hits a unique constraint.
	ErrDuplicate = errors.New("already exists")
)
