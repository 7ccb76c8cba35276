package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reitmaier/transcribe-api/internal/api/shared"
	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
)

// Path parameter names used by the router.
const (
	TaskIDParam       = "taskId"
	UserIDParam       = "userId"
	DeploymentIDParam = "deploymentId"
)

// pathID parses a positive integer path parameter. A missing value yields
// required and a malformed one yields invalid.
func pathID[T ~int64](
	r *http.Request,
	name string,
	parse func(string) (T, error),
	required, invalid domain.Error,
) (T, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, required
	}
	id, err := parse(raw)
	if err != nil {
		logger.FromContext(r.Context()).Debug("invalid path parameter",
			slog.String("param", name),
			slog.String("value", raw))
		return 0, invalid
	}
	return id, nil
}

func pathTaskID(r *http.Request) (domain.TaskID, error) {
	return pathID(r, TaskIDParam, domain.ParseTaskID, domain.ErrTaskIDRequired, domain.ErrTaskIDInvalid)
}

func pathUserID(r *http.Request) (domain.UserID, error) {
	return pathID(r, UserIDParam, domain.ParseUserID, domain.ErrUserIDRequired, domain.ErrUserIDInvalid)
}

func pathDeploymentID(r *http.Request) (domain.DeploymentID, error) {
	return pathID(r, DeploymentIDParam, domain.ParseDeploymentID,
		domain.ErrDeploymentIDRequired, domain.ErrDeploymentIDInvalid)
}

// currentUserAndTask resolves the authenticated user and the task id path
// parameter, writing the error response itself when either is missing.
func currentUserAndTask(w http.ResponseWriter, r *http.Request) (*domain.User, domain.TaskID, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return nil, 0, false
	}
	taskID, err := pathTaskID(r)
	if err != nil {
		HandleError(w, r, err)
		return nil, 0, false
	}
	return user, taskID, true
}

// currentUser returns the user stored by the bearer middleware. A missing
// user means the route was mounted without authentication.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Error("no authenticated user in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return user, true
}

// decode reads and validates a JSON body, answering InvalidRequest on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeAndValidate(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, StatusFor(domain.ErrInvalidRequest),
			domain.ErrInvalidRequest.Error(), err)
		return false
	}
	return true
}
