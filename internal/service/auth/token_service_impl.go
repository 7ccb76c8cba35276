package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/reitmaier/transcribe-api/internal/config"
	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
)

// hmacTokenService is an implementation of TokenService using HMAC-SHA signing.
type hmacTokenService struct {
	signingKey    []byte
	audience      string
	issuer        string
	tokenLifetime time.Duration
	rotator       RefreshTokenRotator
	timeFunc      func() time.Time // Injectable for testing
	clockSkew     time.Duration
	newRefresh    func() domain.RefreshToken
}

// accessClaims defines the structure of JWT claims we use
type accessClaims struct {
	Mobile string `json:"mobile"`
	jwt.RegisteredClaims
}

var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a TokenService signing with HMAC-SHA256.
func NewTokenService(cfg config.AuthConfig, rotator RefreshTokenRotator) (TokenService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if rotator == nil {
		return nil, fmt.Errorf("refresh token rotator cannot be nil")
	}

	return &hmacTokenService{
		signingKey:    []byte(cfg.JWTSecret),
		audience:      cfg.Audience,
		issuer:        cfg.Issuer,
		tokenLifetime: cfg.AccessTokenLifetime(),
		rotator:       rotator,
		timeFunc:      time.Now,
		clockSkew:     2 * time.Minute,
		newRefresh: func() domain.RefreshToken {
			return domain.RefreshToken(uuid.NewString())
		},
	}, nil
}

// Issue implements TokenService.Issue
func (s *hmacTokenService) Issue(
	ctx context.Context,
	user *domain.User,
	supplied *domain.RefreshToken,
) (*Tokens, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()
	expiresAt := now.Add(s.tokenLifetime)

	claims := accessClaims{
		Mobile: string(user.Mobile),
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{s.audience},
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign access token",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()),
			slog.String("signing_method", jwt.SigningMethodHS256.Name))
		return nil, fmt.Errorf("failed to sign access token with HMAC-SHA256: %w", err)
	}

	refresh := s.newRefresh()
	if supplied != nil {
		refresh = *supplied
	} else if err := s.rotator.RotateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}

	return &Tokens{
		AccessToken:  domain.AccessToken(signed),
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// ValidateToken implements TokenService.ValidateToken
func (s *hmacTokenService) ValidateToken(ctx context.Context, tokenString string) (domain.MobileNumber, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithAudience(s.audience),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&accessClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", slog.String("error", err.Error()))
			return "", ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: token not yet valid", slog.String("error", err.Error()))
			return "", ErrTokenNotYetValid
		default:
			log.Debug("token validation failed",
				slog.String("error", err.Error()),
				slog.String("error_type", fmt.Sprintf("%T", err)))
			return "", ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid || claims.Mobile == "" {
		log.Debug("token validation failed: invalid claims")
		return "", ErrInvalidToken
	}
	return domain.MobileNumber(claims.Mobile), nil
}
