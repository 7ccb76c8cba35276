package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/reitmaier/transcribe-api/internal/api/shared"
	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/reitmaier/transcribe-api/internal/redact"
)

// maxClientErrorBytes caps the body of POST /error.
const maxClientErrorBytes = 64 << 10

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithText(w, r, http.StatusOK, "OK")
}

// ClientError handles POST /error, a sink for crash reports sent by the app.
// The report is logged at WARN and echoed back.
func ClientError(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxClientErrorBytes))
	if err != nil {
		HandleError(w, r, domain.ErrInvalidRequest)
		return
	}

	logger.FromContext(r.Context()).Warn("client reported an error",
		slog.String("report", redact.String(string(body))),
		slog.String("remote_addr", r.RemoteAddr))
	shared.RespondWithText(w, r, http.StatusOK, string(body))
}

// Ping handles GET /ping for an authenticated user.
func Ping(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	shared.RespondWithText(w, r, http.StatusOK, fmt.Sprintf("Hello, %s!", user.Mobile))
}
