package api

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/reitmaier/transcribe-api/internal/api/shared"
	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/reitmaier/transcribe-api/internal/service"
)

// StatusRenderer renders a deployment status report as HTML.
type StatusRenderer interface {
	Render(w io.Writer, status *domain.DeploymentStatus) error
}

// AdminHandler serves the routes behind HTTP Basic authentication.
type AdminHandler struct {
	deployments service.DeploymentService
	tasks       service.TaskService
	page        StatusRenderer
	logger      *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	deployments service.DeploymentService,
	tasks service.TaskService,
	page StatusRenderer,
	logger *slog.Logger,
) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{
		deployments: deployments,
		tasks:       tasks,
		page:        page,
		logger:      logger.With(slog.String("component", "admin_handler")),
	}
}

// Hello handles GET /admin with a greeting and the schema version.
func (h *AdminHandler) Hello(w http.ResponseWriter, r *http.Request) {
	version, err := h.deployments.SchemaVersion(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	username, _, _ := r.BasicAuth()
	shared.RespondWithText(w, r, http.StatusOK,
		fmt.Sprintf("Hello, %s!\nSchema version: %d", username, version))
}

// UserTaskFile handles GET /user/{userId}/task/{taskId}/file.
func (h *AdminHandler) UserTaskFile(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	taskID, err := pathTaskID(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	serveTaskFile(w, r, h.tasks, userID, taskID)
}

// DeploymentStatus handles GET /status/deployment/{deploymentId}.
func (h *AdminHandler) DeploymentStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := pathDeploymentID(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	status, err := h.deployments.Status(r.Context(), id)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	// render fully before writing so a template error can still be a 500
	var buf bytes.Buffer
	if err := h.page.Render(&buf, status); err != nil {
		log.Error("failed to render status page",
			slog.String("deployment_id", id.String()),
			slog.String("error", err.Error()))
		HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug("failed to write status page", slog.String("error", err.Error()))
	}
}
