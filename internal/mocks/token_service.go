package mocks

import (
	"context"

	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing
type MockTokenService struct {
	IssueFn         func(ctx context.Context, user *domain.User, supplied *domain.RefreshToken) (*auth.Tokens, error)
	ValidateTokenFn func(ctx context.Context, token string) (domain.MobileNumber, error)
}

var _ auth.TokenService = (*MockTokenService)(nil)

// Issue implements auth.TokenService
func (m *MockTokenService) Issue(
	ctx context.Context,
	user *domain.User,
	supplied *domain.RefreshToken,
) (*auth.Tokens, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, user, supplied)
	}
	return nil, ErrNotConfigured
}

// ValidateToken implements auth.TokenService
func (m *MockTokenService) ValidateToken(ctx context.Context, token string) (domain.MobileNumber, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return "", auth.ErrInvalidToken
}
