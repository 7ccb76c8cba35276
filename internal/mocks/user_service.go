package mocks

import (
	"context"

	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/service"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	RegisterFn                   func(ctx context.Context, reg domain.Registration) (*domain.User, error)
	AuthenticateByPasswordFn     func(ctx context.Context, mobile domain.MobileNumber, password domain.Password) (*domain.User, error)
	AuthenticateByRefreshTokenFn func(ctx context.Context, token domain.RefreshToken) (*domain.User, error)
	GetByMobileFn                func(ctx context.Context, mobile domain.MobileNumber) (*domain.User, error)
	RotateRefreshTokenFn         func(ctx context.Context, id domain.UserID, token domain.RefreshToken) error
}

var _ service.UserService = (*MockUserService)(nil)

// Register implements service.UserService
func (m *MockUserService) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, reg)
	}
	return nil, ErrNotConfigured
}

// AuthenticateByPassword implements service.UserService
func (m *MockUserService) AuthenticateByPassword(
	ctx context.Context,
	mobile domain.MobileNumber,
	password domain.Password,
) (*domain.User, error) {
	if m.AuthenticateByPasswordFn != nil {
		return m.AuthenticateByPasswordFn(ctx, mobile, password)
	}
	return nil, ErrNotConfigured
}

// AuthenticateByRefreshToken implements service.UserService
func (m *MockUserService) AuthenticateByRefreshToken(
	ctx context.Context,
	token domain.RefreshToken,
) (*domain.User, error) {
	if m.AuthenticateByRefreshTokenFn != nil {
		return m.AuthenticateByRefreshTokenFn(ctx, token)
	}
	return nil, ErrNotConfigured
}

// GetByMobile implements service.UserService
func (m *MockUserService) GetByMobile(ctx context.Context, mobile domain.MobileNumber) (*domain.User, error) {
	if m.GetByMobileFn != nil {
		return m.GetByMobileFn(ctx, mobile)
	}
	return nil, ErrNotConfigured
}

// RotateRefreshToken implements service.UserService
func (m *MockUserService) RotateRefreshToken(ctx context.Context, id domain.UserID, token domain.RefreshToken) error {
	if m.RotateRefreshTokenFn != nil {
		return m.RotateRefreshTokenFn(ctx, id, token)
	}
	return ErrNotConfigured
}
