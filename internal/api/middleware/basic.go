package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/reitmaier/transcribe-api/internal/api/shared"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
)

// CredentialVerifier checks HTTP Basic credentials.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// BasicAuth guards the admin routes with HTTP Basic authentication.
func BasicAuth(realm string, verifier CredentialVerifier) func(http.Handler) http.Handler {
	challenge := fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", realm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok || !verifier.Verify(username, password) {
				if ok {
					logger.FromContext(r.Context()).Warn("admin authentication failed",
						slog.String("remote_addr", r.RemoteAddr))
				}
				w.Header().Set("WWW-Authenticate", challenge)
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
