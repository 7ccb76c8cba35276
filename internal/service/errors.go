package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/redact"
)

// OperationError is returned by every failing service method. Kind is the
// client-facing failure; Err, when set, is the underlying cause.
type OperationError struct {
	Operation string
	Kind      domain.Error
	Err       error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Kind.Error(), e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Kind.Error())
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *OperationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewOperationError creates an OperationError.
func NewOperationError(operation string, kind domain.Error, err error) *OperationError {
	return &OperationError{Operation: operation, Kind: kind, Err: err}
}

// fail normalises err into an *OperationError and logs it. Errors that
// already carry a kind keep it; anything else becomes domain.ErrDatabase.
func fail(log *slog.Logger, operation string, err error) error {
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		opErr = NewOperationError(operation, domain.ErrDatabase, err)
	}

	if opErr.Kind == domain.ErrDatabase {
		log.Error("operation failed",
			slog.String("operation", operation),
			slog.String("error", redact.Error(err)))
	} else {
		log.Debug("operation rejected",
			slog.String("operation", operation),
			slog.String("kind", opErr.Kind.Error()))
	}
	return opErr
}
