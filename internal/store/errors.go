package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert would violate a unique constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when a row violates a foreign key, check or
	// not-null constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when a guarded update matched no row.
	ErrUpdateFailed = errors.New("update failed")

	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrTaskNotFound       = fmt.Errorf("%w: task", ErrNotFound)
	ErrTranscriptNotFound = fmt.Errorf("%w: transcript", ErrNotFound)
	ErrDeploymentNotFound = fmt.Errorf("%w: deployment", ErrNotFound)
	ErrSettingsNotFound   = fmt.Errorf("%w: settings", ErrNotFound)

	// ErrMobileExists indicates that a user with the given mobile number already exists.
	ErrMobileExists = fmt.Errorf("%w: mobile number", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
