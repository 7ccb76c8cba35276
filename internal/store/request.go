package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/reitmaier/transcribe-api/internal/domain"
)

// RequestStore persists transcription requests and their assignments.
type RequestStore interface {
	// Create inserts a request and returns the generated id.
	Create(ctx context.Context, req *domain.Request) (domain.RequestID, error)

	// Assign links a task to the request that produced it.
	Assign(
		ctx context.Context,
		requestID domain.RequestID,
		taskID domain.TaskID,
		at time.Time,
	) (domain.AssignmentID, error)

	// ListAssignments returns the assignments of a request ordered by id.
	ListAssignments(ctx context.Context, requestID domain.RequestID) ([]*domain.Assignment, error)

	// WithTx returns a RequestStore bound to tx.
	WithTx(tx *sql.Tx) RequestStore
}
