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

// hydratedTaskSelect reads tasks together with the text of their most
// recently created transcript.
const hydratedTaskSelect = `
	SELECT t.id, t.user_id, t.path, t.length, t.provenance, t.display_name,
	       t.created_at, t.updated_at, t.completed_at,
	       t.reject_reason, t.difficulty, t.confidence,
	       COALESCE((
	           SELECT tr.transcript FROM transcripts tr
	           WHERE tr.task_id = t.id
	           ORDER BY tr.created_at DESC, tr.id DESC
	           LIMIT 1
	       ), '') AS transcript
	FROM tasks t
`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t            domain.Task
		completedAt  sql.NullTime
		rejectReason sql.NullString
		difficulty   sql.NullString
		confidence   sql.NullString
	)
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Path,
		&t.LengthMs,
		&t.Provenance,
		&t.DisplayName,
		&t.CreatedAt,
		&t.UpdatedAt,
		&completedAt,
		&rejectReason,
		&difficulty,
		&confidence,
		&t.Transcript,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		at := completedAt.Time
		t.CompletedAt = &at
	}
	if rejectReason.Valid {
		r := domain.RejectReason(rejectReason.String)
		t.RejectReason = &r
	}
	if difficulty.Valid {
		d := domain.Difficulty(difficulty.String)
		t.Difficulty = &d
	}
	if confidence.Valid {
		c := domain.Confidence(confidence.String)
		t.Confidence = &c
	}
	return &t, nil
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) (domain.TaskID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (user_id, path, length, provenance, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id domain.TaskID
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.UserID,
		task.Path,
		task.LengthMs,
		task.Provenance,
		task.DisplayName,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&id)
	if err != nil {
		log.Error("failed to create task",
			slog.String("user_id", task.UserID.String()),
			slog.String("provenance", string(task.Provenance)),
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	log.Debug("task created",
		slog.String("task_id", id.String()),
		slog.String("user_id", task.UserID.String()),
		slog.String("provenance", string(task.Provenance)))
	return id, nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	return s.getOne(ctx, hydratedTaskSelect+`WHERE t.id = $1`, id)
}

// GetByIDForUser implements store.TaskStore.GetByIDForUser
func (s *PostgresTaskStore) GetByIDForUser(
	ctx context.Context,
	id domain.TaskID,
	userID domain.UserID,
) (*domain.Task, error) {
	return s.getOne(ctx, hydratedTaskSelect+`WHERE t.id = $1 AND t.user_id = $2`, id, userID)
}

func (s *PostgresTaskStore) getOne(ctx context.Context, query string, args ...any) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Any("args", args))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return task, nil
}

// ListByUser implements store.TaskStore.ListByUser
func (s *PostgresTaskStore) ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	return queryTasks(ctx, s.db, logger.FromContextOrDefault(ctx, s.logger),
		hydratedTaskSelect+`WHERE t.user_id = $1 ORDER BY t.id`, userID)
}

// queryTasks runs a hydrated task query and collects the rows. It never
// returns a nil slice.
func queryTasks(ctx context.Context, db store.DBTX, log *slog.Logger, query string, args ...any) ([]*domain.Task, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Error("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// Touch implements store.TaskStore.Touch
func (s *PostgresTaskStore) Touch(ctx context.Context, id domain.TaskID, at time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `UPDATE tasks SET updated_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		log.Error("failed to touch task",
			slog.String("task_id", id.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Complete implements store.TaskStore.Complete
func (s *PostgresTaskStore) Complete(
	ctx context.Context,
	id domain.TaskID,
	completion domain.Completion,
	at time.Time,
) error {
	query := `
		UPDATE tasks
		SET completed_at = $1, difficulty = $2, confidence = $3, updated_at = $4
		WHERE id = $5 AND completed_at IS NULL
	`
	return s.finish(ctx, "complete", id, query,
		completion.CompletedAt, completion.Difficulty, completion.Confidence, at, id)
}

// Reject implements store.TaskStore.Reject
func (s *PostgresTaskStore) Reject(
	ctx context.Context,
	id domain.TaskID,
	reason domain.RejectReason,
	at time.Time,
) error {
	query := `
		UPDATE tasks
		SET completed_at = $1, reject_reason = $2, updated_at = $1
		WHERE id = $3 AND completed_at IS NULL
	`
	return s.finish(ctx, "reject", id, query, at, reason, id)
}

// finish runs a guarded terminal transition. Zero affected rows means the
// task is missing or already finished.
func (s *PostgresTaskStore) finish(
	ctx context.Context,
	op string,
	id domain.TaskID,
	query string,
	args ...any,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to finish task",
			slog.String("operation", op),
			slog.String("task_id", id.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrUpdateFailed); err != nil {
		log.Debug("task already finished or missing",
			slog.String("operation", op),
			slog.String("task_id", id.String()))
		return err
	}

	log.Info("task finished",
		slog.String("operation", op),
		slog.String("task_id", id.String()))
	return nil
}
