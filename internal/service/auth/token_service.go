package auth

import (
	"context"
	"time"

	"github.com/reitmaier/transcribe-api/internal/domain"
)

// TokenService issues and validates the credentials handed to mobile clients.
type TokenService interface {
	// Issue signs a new access token for user. When supplied is nil a fresh
	// refresh token is generated and persisted through the RefreshTokenRotator;
	// otherwise supplied is returned unchanged.
	Issue(ctx context.Context, user *domain.User, supplied *domain.RefreshToken) (*Tokens, error)

	// ValidateToken checks the signature and the registered claims of an access
	// token and returns the mobile number it was issued for.
	// Returns ErrInvalidToken, ErrExpiredToken or ErrTokenNotYetValid.
	ValidateToken(ctx context.Context, token string) (domain.MobileNumber, error)
}

// RefreshTokenRotator persists a user's refresh token, replacing any previous one.
type RefreshTokenRotator interface {
	RotateRefreshToken(ctx context.Context, id domain.UserID, token domain.RefreshToken) error
}

// Tokens is the credential set returned by login and refresh.
type Tokens struct {
	AccessToken  domain.AccessToken
	RefreshToken domain.RefreshToken
	ExpiresAt    time.Time
}
