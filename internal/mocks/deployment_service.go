package mocks

import (
	"context"

	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/service"
)

// MockDeploymentService implements service.DeploymentService for testing
type MockDeploymentService struct {
	StatusFn        func(ctx context.Context, id domain.DeploymentID) (*domain.DeploymentStatus, error)
	SchemaVersionFn func(ctx context.Context) (int, error)
}

var _ service.DeploymentService = (*MockDeploymentService)(nil)

// Status implements service.DeploymentService
func (m *MockDeploymentService) Status(ctx context.Context, id domain.DeploymentID) (*domain.DeploymentStatus, error) {
	if m.StatusFn != nil {
		return m.StatusFn(ctx, id)
	}
	return nil, ErrNotConfigured
}

// SchemaVersion implements service.DeploymentService
func (m *MockDeploymentService) SchemaVersion(ctx context.Context) (int, error) {
	if m.SchemaVersionFn != nil {
		return m.SchemaVersionFn(ctx)
	}
	return 0, ErrNotConfigured
}
