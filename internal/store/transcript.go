package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/reitmaier/transcribe-api/internal/domain"
)

// TranscriptStore persists transcript segments.
type TranscriptStore interface {
	// Create inserts one segment for taskID and returns the generated id.
	Create(
		ctx context.Context,
		taskID domain.TaskID,
		transcript domain.NewTranscript,
		at time.Time,
	) (domain.TranscriptID, error)

	// ListByTask returns every segment of a task ordered by id.
	ListByTask(ctx context.Context, taskID domain.TaskID) ([]*domain.Transcript, error)

	// Latest returns the most recently created segment of a task.
	// Returns ErrTranscriptNotFound if the task has none.
	Latest(ctx context.Context, taskID domain.TaskID) (*domain.Transcript, error)

	// WithTx returns a TranscriptStore bound to tx.
	WithTx(tx *sql.Tx) TranscriptStore
}
