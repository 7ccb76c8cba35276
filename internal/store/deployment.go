package store

import (
	"context"

	"github.com/reitmaier/transcribe-api/internal/domain"
)

// DeploymentStore reads deployment campaigns for status reporting.
type DeploymentStore interface {
	// GetByID returns ErrDeploymentNotFound if the deployment does not exist.
	GetByID(ctx context.Context, id domain.DeploymentID) (*domain.Deployment, error)

	// ListUsers returns the deployment's transcribers ordered by user id.
	ListUsers(ctx context.Context, id domain.DeploymentID) ([]*domain.User, error)

	// ListTasks returns the tasks held by the deployment's transcribers that
	// were created while the deployment ran.
	ListTasks(ctx context.Context, id domain.DeploymentID) ([]*domain.Task, error)
}

// SettingsStore reads the single settings row.
type SettingsStore interface {
	// Get returns ErrSettingsNotFound if the row is missing.
	Get(ctx context.Context) (*domain.Settings, error)
}
