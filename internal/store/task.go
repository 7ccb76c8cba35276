package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/reitmaier/transcribe-api/internal/domain"
)

// TaskStore defines the interface for task persistence. Every read returns
// tasks hydrated with the text of their latest transcript.
type TaskStore interface {
	// Create inserts a task and returns the generated id.
	Create(ctx context.Context, task *domain.Task) (domain.TaskID, error)

	// GetByID retrieves a task regardless of owner.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id domain.TaskID) (*domain.Task, error)

	// GetByIDForUser retrieves a task owned by userID.
	// Returns ErrTaskNotFound if it does not exist or belongs to someone else.
	GetByIDForUser(ctx context.Context, id domain.TaskID, userID domain.UserID) (*domain.Task, error)

	// ListByUser returns every task owned by userID ordered by id.
	ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.Task, error)

	// Touch sets updated_at.
	Touch(ctx context.Context, id domain.TaskID, at time.Time) error

	// Complete marks an open task as completed.
	// Returns ErrUpdateFailed if the task is missing or already finished.
	Complete(ctx context.Context, id domain.TaskID, completion domain.Completion, at time.Time) error

	// Reject marks an open task as rejected.
	// Returns ErrUpdateFailed if the task is missing or already finished.
	Reject(ctx context.Context, id domain.TaskID, reason domain.RejectReason, at time.Time) error

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
