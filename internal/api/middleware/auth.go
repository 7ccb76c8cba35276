package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/reitmaier/transcribe-api/internal/api/shared"
	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/reitmaier/transcribe-api/internal/service"
	"github.com/reitmaier/transcribe-api/internal/service/auth"
)

// AuthMiddleware authenticates bearer tokens and resolves the caller.
type AuthMiddleware struct {
	tokens auth.TokenService
	users  service.UserService
	logger *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens auth.TokenService, users service.UserService, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
		logger: logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates the bearer token, loads the user named by its
// mobile claim and stores that user on the request context. Every failure
// is a 401 so clients cannot probe which mobile numbers exist.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		token, ok := bearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		mobile, err := m.tokens.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrTokenNotYetValid), errors.Is(err, auth.ErrInvalidToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid token", err)
			}
			return
		}

		user, err := m.users.GetByMobile(r.Context(), mobile)
		if err != nil {
			if domain.AsError(err) == domain.ErrUserNotFound {
				log.Warn("token names an unknown user")
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				domain.ErrDatabase.Error(), err)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), user)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
