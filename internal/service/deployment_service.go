package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/reitmaier/transcribe-api/internal/store"
)

// DeploymentService serves the admin reporting routes.
type DeploymentService interface {
	// Status reads a deployment, its transcribers and their tasks. The reads
	// are independent and do not share a snapshot.
	Status(ctx context.Context, id domain.DeploymentID) (*domain.DeploymentStatus, error)

	// SchemaVersion returns the version recorded in the settings row.
	SchemaVersion(ctx context.Context) (int, error)
}

type deploymentServiceImpl struct {
	deployments store.DeploymentStore
	settings    store.SettingsStore
	logger      *slog.Logger
}

var _ DeploymentService = (*deploymentServiceImpl)(nil)

// NewDeploymentService creates a new DeploymentService
func NewDeploymentService(
	deployments store.DeploymentStore,
	settings store.SettingsStore,
	logger *slog.Logger,
) DeploymentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &deploymentServiceImpl{
		deployments: deployments,
		settings:    settings,
		logger:      logger.With(slog.String("component", "deployment_service")),
	}
}

// Status implements DeploymentService.Status
func (s *deploymentServiceImpl) Status(
	ctx context.Context,
	id domain.DeploymentID,
) (*domain.DeploymentStatus, error) {
	const op = "deployment_status"
	log := logger.FromContextOrDefault(ctx, s.logger)

	deployment, err := s.deployments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = NewOperationError(op, domain.ErrDeploymentNotFound, err)
		}
		return nil, fail(log, op, err)
	}

	users, err := s.deployments.ListUsers(ctx, id)
	if err != nil {
		return nil, fail(log, op, err)
	}

	tasks, err := s.deployments.ListTasks(ctx, id)
	if err != nil {
		return nil, fail(log, op, err)
	}

	return &domain.DeploymentStatus{Deployment: deployment, Users: users, Tasks: tasks}, nil
}

// SchemaVersion implements DeploymentService.SchemaVersion
func (s *deploymentServiceImpl) SchemaVersion(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, fail(log, "schema_version", err)
	}
	return settings.Version, nil
}
