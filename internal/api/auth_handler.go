package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/reitmaier/transcribe-api/internal/api/shared"
	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/reitmaier/transcribe-api/internal/service"
	"github.com/reitmaier/transcribe-api/internal/service/auth"
)

// AuthHandler handles registration, login and token refresh.
type AuthHandler struct {
	users  service.UserService
	tokens auth.TokenService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService, tokens auth.TokenService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /register and answers with the new user's id.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.registration())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, int64(user.ID))
}

// Login handles POST /login. A successful login rotates the refresh token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.users.AuthenticateByPassword(r.Context(),
		domain.MobileNumber(req.Mobile), domain.Password(req.Password))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	tokens, err := h.tokens.Issue(r.Context(), user, nil)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, authResponse(tokens))
}

// Refresh handles POST /refresh. The body is the refresh token as a JSON
// string; it is echoed back alongside a new access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var raw string
	if err := shared.DecodeJSON(r, &raw); err != nil || strings.TrimSpace(raw) == "" {
		HandleError(w, r, service.NewOperationError("refresh", domain.ErrInvalidRequest, err))
		return
	}
	token := domain.RefreshToken(raw)

	user, err := h.users.AuthenticateByRefreshToken(r.Context(), token)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	tokens, err := h.tokens.Issue(r.Context(), user, &token)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, authResponse(tokens))
}
