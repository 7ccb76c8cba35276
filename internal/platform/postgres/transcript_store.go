package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/reitmaier/transcribe-api/internal/store"
)

const transcriptColumns = `id, task_id, region_start, region_end, transcript, client_updated_at, created_at, updated_at`

// PostgresTranscriptStore implements store.TranscriptStore on PostgreSQL.
type PostgresTranscriptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTranscriptStore creates a new PostgreSQL implementation of the TranscriptStore interface.
func NewPostgresTranscriptStore(db store.DBTX, logger *slog.Logger) *PostgresTranscriptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTranscriptStore{
		db:     db,
		logger: logger.With(slog.String("component", "transcript_store")),
	}
}

var _ store.TranscriptStore = (*PostgresTranscriptStore)(nil)

// WithTx implements store.TranscriptStore.WithTx
func (s *PostgresTranscriptStore) WithTx(tx *sql.Tx) store.TranscriptStore {
	return &PostgresTranscriptStore{db: tx, logger: s.logger}
}

func scanTranscript(row rowScanner) (*domain.Transcript, error) {
	var t domain.Transcript
	err := row.Scan(
		&t.ID,
		&t.TaskID,
		&t.RegionStart,
		&t.RegionEnd,
		&t.Text,
		&t.ClientUpdatedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create implements store.TranscriptStore.Create
func (s *PostgresTranscriptStore) Create(
	ctx context.Context,
	taskID domain.TaskID,
	transcript domain.NewTranscript,
	at time.Time,
) (domain.TranscriptID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO transcripts (task_id, region_start, region_end, transcript, client_updated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`

	var id domain.TranscriptID
	err := s.db.QueryRowContext(
		ctx,
		query,
		taskID,
		transcript.RegionStart,
		transcript.RegionEnd,
		transcript.Text,
		transcript.UpdatedAt,
		at,
	).Scan(&id)
	if err != nil {
		log.Error("failed to create transcript",
			slog.String("task_id", taskID.String()),
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return id, nil
}

// ListByTask implements store.TranscriptStore.ListByTask
func (s *PostgresTranscriptStore) ListByTask(
	ctx context.Context,
	taskID domain.TaskID,
) ([]*domain.Transcript, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transcriptColumns+` FROM transcripts WHERE task_id = $1 ORDER BY id`, taskID)
	if err != nil {
		log.Error("failed to list transcripts",
			slog.String("task_id", taskID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Error("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	transcripts := []*domain.Transcript{}
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		transcripts = append(transcripts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcripts: %w", err)
	}
	return transcripts, nil
}

// Latest implements store.TranscriptStore.Latest
func (s *PostgresTranscriptStore) Latest(ctx context.Context, taskID domain.TaskID) (*domain.Transcript, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + transcriptColumns + `
		FROM transcripts
		WHERE task_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	t, err := scanTranscript(s.db.QueryRowContext(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTranscriptNotFound
		}
		log.Error("failed to get latest transcript",
			slog.String("task_id", taskID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return t, nil
}
