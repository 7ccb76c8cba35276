package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/reitmaier/transcribe-api/internal/store"
)

// PostgresDeploymentStore implements store.DeploymentStore and
// store.SettingsStore on PostgreSQL. Its reads are independent queries with no
// shared snapshot.
type PostgresDeploymentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeploymentStore creates a new PostgreSQL deployment reader.
func NewPostgresDeploymentStore(db store.DBTX, logger *slog.Logger) *PostgresDeploymentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDeploymentStore{
		db:     db,
		logger: logger.With(slog.String("component", "deployment_store")),
	}
}

var (
	_ store.DeploymentStore = (*PostgresDeploymentStore)(nil)
	_ store.SettingsStore   = (*PostgresDeploymentStore)(nil)
)

// GetByID implements store.DeploymentStore.GetByID
func (s *PostgresDeploymentStore) GetByID(ctx context.Context, id domain.DeploymentID) (*domain.Deployment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		d           domain.Deployment
		completedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, started_at, completed_at FROM deployments WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.StartedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeploymentNotFound
		}
		log.Error("failed to get deployment",
			slog.String("deployment_id", id.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	if completedAt.Valid {
		at := completedAt.Time
		d.CompletedAt = &at
	}
	return &d, nil
}

// ListUsers implements store.DeploymentStore.ListUsers
func (s *PostgresDeploymentStore) ListUsers(ctx context.Context, id domain.DeploymentID) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.mobile_number, u.mobile_operator, u.password,
		       u.refresh_token, u.is_admin, u.created_at
		FROM users u
		JOIN deployment_transcriber dt ON dt.user_id = u.id
		WHERE dt.deployment_id = $1
		ORDER BY u.id
	`, id)
	if err != nil {
		log.Error("failed to list deployment users",
			slog.String("deployment_id", id.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Error("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// ListTasks implements store.DeploymentStore.ListTasks
func (s *PostgresDeploymentStore) ListTasks(ctx context.Context, id domain.DeploymentID) ([]*domain.Task, error) {
	query := hydratedTaskSelect + `
		JOIN deployment_transcriber dt ON dt.user_id = t.user_id
		JOIN deployments d ON d.id = dt.deployment_id
		WHERE d.id = $1
		  AND t.created_at >= d.started_at
		  AND (d.completed_at IS NULL OR t.created_at <= d.completed_at)
		ORDER BY t.id
	`
	return queryTasks(ctx, s.db, logger.FromContextOrDefault(ctx, s.logger), query, id)
}

// Get implements store.SettingsStore.Get
func (s *PostgresDeploymentStore) Get(ctx context.Context) (*domain.Settings, error) {
	var settings domain.Settings
	err := s.db.QueryRowContext(ctx, `SELECT version FROM settings WHERE id = 1`).Scan(&settings.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSettingsNotFound
		}
		return nil, MapError(err)
	}
	return &settings, nil
}
