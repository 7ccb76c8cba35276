package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/reitmaier/transcribe-api/internal/store"
)

// PostgresRequestStore implements store.RequestStore on PostgreSQL.
type PostgresRequestStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRequestStore creates a new PostgreSQL implementation of the RequestStore interface.
func NewPostgresRequestStore(db store.DBTX, logger *slog.Logger) *PostgresRequestStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRequestStore{
		db:     db,
		logger: logger.With(slog.String("component", "request_store")),
	}
}

var _ store.RequestStore = (*PostgresRequestStore)(nil)

// WithTx implements store.RequestStore.WithTx
func (s *PostgresRequestStore) WithTx(tx *sql.Tx) store.RequestStore {
	return &PostgresRequestStore{db: tx, logger: s.logger}
}

// Create implements store.RequestStore.Create
func (s *PostgresRequestStore) Create(ctx context.Context, req *domain.Request) (domain.RequestID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO requests (user_id, path, extension, length, assignment_strategy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id domain.RequestID
	err := s.db.QueryRowContext(
		ctx,
		query,
		req.UserID,
		req.Path,
		req.Extension,
		req.LengthMs,
		req.Strategy,
		req.CreatedAt,
		req.UpdatedAt,
	).Scan(&id)
	if err != nil {
		log.Error("failed to create request",
			slog.String("user_id", req.UserID.String()),
			slog.String("strategy", string(req.Strategy)),
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	log.Debug("request created",
		slog.String("request_id", id.String()),
		slog.String("strategy", string(req.Strategy)))
	return id, nil
}

// Assign implements store.RequestStore.Assign
func (s *PostgresRequestStore) Assign(
	ctx context.Context,
	requestID domain.RequestID,
	taskID domain.TaskID,
	at time.Time,
) (domain.AssignmentID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO assignments (request_id, task_id, assigned_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id domain.AssignmentID
	if err := s.db.QueryRowContext(ctx, query, requestID, taskID, at).Scan(&id); err != nil {
		log.Error("failed to create assignment",
			slog.String("request_id", requestID.String()),
			slog.String("task_id", taskID.String()),
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return id, nil
}

// ListAssignments implements store.RequestStore.ListAssignments
func (s *PostgresRequestStore) ListAssignments(
	ctx context.Context,
	requestID domain.RequestID,
) ([]*domain.Assignment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, task_id, assigned_at
		FROM assignments
		WHERE request_id = $1
		ORDER BY id
	`, requestID)
	if err != nil {
		log.Error("failed to list assignments", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Error("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	assignments := []*domain.Assignment{}
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.ID, &a.RequestID, &a.TaskID, &a.AssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return assignments, nil
}
