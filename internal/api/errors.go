package api

import (
	"net/http"

	"github.com/reitmaier/transcribe-api/internal/api/shared"
	"github.com/reitmaier/transcribe-api/internal/domain"
)

// statusByError fixes the HTTP status of every domain.Error kind.
var statusByError = map[domain.Error]int{
	domain.ErrDatabase:                  http.StatusInternalServerError,
	domain.ErrDuplicateUser:             http.StatusConflict,
	domain.ErrDuplicateFile:             http.StatusConflict,
	domain.ErrTaskAlreadyFinished:       http.StatusConflict,
	domain.ErrUserNotFound:              http.StatusForbidden,
	domain.ErrPasswordIncorrect:         http.StatusForbidden,
	domain.ErrMobileOrPasswordIncorrect: http.StatusUnauthorized,
	domain.ErrTaskNotFound:              http.StatusNotFound,
	domain.ErrTranscriptNotFound:        http.StatusNotFound,
	domain.ErrFileNotFound:              http.StatusNotFound,
	domain.ErrDeploymentNotFound:        http.StatusNotFound,
	domain.ErrInvalidRequest:            http.StatusBadRequest,
	domain.ErrRequestFileMissing:        http.StatusBadRequest,
	domain.ErrFileNameMissing:           http.StatusBadRequest,
	domain.ErrContentLengthMissing:      http.StatusBadRequest,
	domain.ErrTaskIDInvalid:             http.StatusBadRequest,
	domain.ErrTaskIDRequired:            http.StatusBadRequest,
	domain.ErrUserIDInvalid:             http.StatusBadRequest,
	domain.ErrUserIDRequired:            http.StatusBadRequest,
	domain.ErrDeploymentIDInvalid:       http.StatusBadRequest,
	domain.ErrDeploymentIDRequired:      http.StatusBadRequest,
}

// StatusFor returns the HTTP status of kind. Unknown kinds are 500.
func StatusFor(kind domain.Error) int {
	if status, ok := statusByError[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HandleError responds with the status and message of the kind carried by
// err. Errors without a kind are reported as domain.ErrDatabase.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.AsError(err)
	status := StatusFor(kind)

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, kind.Error(), err, opts...)
}
