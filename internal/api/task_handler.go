package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/reitmaier/transcribe-api/internal/api/shared"
	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/filestore"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/reitmaier/transcribe-api/internal/service"
)

const (
	// DefaultMaxUploadBytes caps a multipart upload body.
	DefaultMaxUploadBytes = 256 << 20

	fileFormField   = "file"
	lengthFormField = "length"
)

// AudioStore persists uploaded audio.
type AudioStore interface {
	Save(ctx context.Context, r io.Reader) (path string, n int64, err error)
	Remove(ctx context.Context, path string)
}

// TaskMetrics records task lifecycle events.
type TaskMetrics interface {
	TaskCreated(provenance string, n int)
	TaskFinished(outcome string)
	TranscriptsInserted(n int)
}

// TaskHandler serves the /tasks routes of an authenticated user.
type TaskHandler struct {
	tasks          service.TaskService
	files          AudioStore
	metrics        TaskMetrics
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewTaskHandler creates a new TaskHandler. metrics may be nil.
func NewTaskHandler(
	tasks service.TaskService,
	files AudioStore,
	metrics TaskMetrics,
	logger *slog.Logger,
) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = noMetrics{}
	}
	return &TaskHandler{
		tasks:          tasks,
		files:          files,
		metrics:        metrics,
		maxUploadBytes: DefaultMaxUploadBytes,
		logger:         logger.With(slog.String("component", "task_handler")),
	}
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListUserTasks(r.Context(), user.ID)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// Get handles GET /tasks/{taskId}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := currentUserAndTask(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetUserTask(r.Context(), user.ID, taskID)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Upload handles POST /tasks. The body is multipart with the audio in a
// file part and its duration in milliseconds in the "length" field. An
// admin's upload is also distributed to every other user.
func (h *TaskHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	form, err := h.readUpload(r)
	if err != nil {
		if form.path != "" {
			h.files.Remove(r.Context(), form.path)
		}
		HandleError(w, r, err)
		return
	}

	upload, err := domain.NewUpload(form.path, form.fileName, form.lengthMs)
	if err != nil {
		h.files.Remove(r.Context(), form.path)
		HandleError(w, r, service.NewOperationError("upload_task", domain.ErrInvalidRequest, err))
		return
	}

	task, distributed, err := h.tasks.UploadTask(r.Context(), user, upload)
	if err != nil {
		h.files.Remove(r.Context(), form.path)
		HandleError(w, r, err)
		return
	}

	h.metrics.TaskCreated(string(task.Provenance), 1)
	if distributed > 0 {
		h.metrics.TaskCreated(string(domain.ProvenanceRemote), distributed)
	}
	log.Info("audio uploaded",
		slog.String("task_id", task.ID.String()),
		slog.Int64("bytes", form.size),
		slog.Int("distributed", distributed))
	shared.RespondWithJSON(w, r, http.StatusCreated, int64(task.ID))
}

type uploadForm struct {
	path     string
	fileName string
	lengthMs int64
	size     int64
}

// readUpload streams the multipart body, saving the first file part. The
// returned form carries the saved path even on error so the caller can
// remove it.
func (h *TaskHandler) readUpload(r *http.Request) (uploadForm, error) {
	var (
		form       uploadForm
		sawFile    bool
		haveLength bool
	)

	mr, err := r.MultipartReader()
	if err != nil {
		return form, domain.ErrRequestFileMissing
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return form, service.NewOperationError("upload_task", domain.ErrInvalidRequest, err)
		}

		switch {
		case part.FormName() == lengthFormField && part.FileName() == "":
			form.lengthMs, haveLength = readLength(part)
		case isFilePart(part) && !sawFile:
			sawFile = true
			form.fileName = part.FileName()
			if form.fileName == "" {
				_ = part.Close()
				return form, domain.ErrFileNameMissing
			}
			form.path, form.size, err = h.files.Save(r.Context(), part)
			if err != nil {
				_ = part.Close()
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					return form, service.NewOperationError("upload_task", domain.ErrInvalidRequest, err)
				}
				return form, service.NewOperationError("upload_task", domain.ErrDatabase, err)
			}
		}
		_ = part.Close()
	}

	if !sawFile {
		return form, domain.ErrRequestFileMissing
	}
	if !haveLength {
		return form, domain.ErrContentLengthMissing
	}
	return form, nil
}

func isFilePart(part *multipart.Part) bool {
	if part.FormName() == fileFormField || part.FileName() != "" {
		return true
	}
	// a part whose disposition carries an empty filename is still a file part
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}

func readLength(part *multipart.Part) (int64, bool) {
	raw, err := io.ReadAll(io.LimitReader(part, 32))
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// SubmitTranscripts handles POST /tasks/{taskId}/transcripts and answers
// with the number of segments stored.
func (h *TaskHandler) SubmitTranscripts(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := currentUserAndTask(w, r)
	if !ok {
		return
	}

	var req NewTranscriptsRequest
	if !decode(w, r, &req) {
		return
	}

	n, err := h.tasks.SubmitTranscripts(r.Context(), user.ID, taskID, req.candidates())
	if err != nil {
		HandleError(w, r, err)
		return
	}
	h.metrics.TranscriptsInserted(n)
	shared.RespondWithJSON(w, r, http.StatusCreated, n)
}

// LatestTranscript handles GET /tasks/{taskId}/transcripts/latest.
func (h *TaskHandler) LatestTranscript(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := currentUserAndTask(w, r)
	if !ok {
		return
	}

	t, err := h.tasks.LatestTranscript(r.Context(), user.ID, taskID)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewTranscriptRequest{
		Transcript:  t.Text,
		RegionStart: t.RegionStart,
		RegionEnd:   t.RegionEnd,
		UpdatedAt:   epochMillis(t.ClientUpdatedAt),
	})
}

// Complete handles POST /tasks/{taskId}/complete.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := currentUserAndTask(w, r)
	if !ok {
		return
	}

	var req CompleteTaskRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.tasks.CompleteTask(r.Context(), user.ID, taskID, req.completion()); err != nil {
		HandleError(w, r, err)
		return
	}
	h.metrics.TaskFinished("completed")
	w.WriteHeader(http.StatusOK)
}

// Reject handles POST /tasks/{taskId}/reject. The body is the reason as a
// JSON string.
func (h *TaskHandler) Reject(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := currentUserAndTask(w, r)
	if !ok {
		return
	}

	var reason string
	if err := shared.DecodeJSON(r, &reason); err != nil {
		HandleError(w, r, service.NewOperationError("reject_task", domain.ErrInvalidRequest, err))
		return
	}

	if err := h.tasks.RejectTask(r.Context(), user.ID, taskID, domain.RejectReason(reason)); err != nil {
		HandleError(w, r, err)
		return
	}
	h.metrics.TaskFinished("rejected")
	w.WriteHeader(http.StatusOK)
}

// File handles GET /tasks/{taskId}/file.
func (h *TaskHandler) File(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := currentUserAndTask(w, r)
	if !ok {
		return
	}
	serveTaskFile(w, r, h.tasks, user.ID, taskID)
}

// serveTaskFile streams a task's audio as an attachment named after the
// task's display name. Range requests are honoured.
func serveTaskFile(
	w http.ResponseWriter,
	r *http.Request,
	tasks service.TaskService,
	userID domain.UserID,
	taskID domain.TaskID,
) {
	task, f, err := tasks.GetTaskFile(r.Context(), userID, taskID)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.FromContext(r.Context()).Debug("failed to close task file",
				slog.String("error", cerr.Error()))
		}
	}()

	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": task.DisplayName}))
	http.ServeContent(w, r, task.DisplayName, f.ModTime, f.File)
}

type noMetrics struct{}

func (noMetrics) TaskCreated(string, int) {}
func (noMetrics) TaskFinished(string)     {}
func (noMetrics) TranscriptsInserted(int) {}

var _ AudioStore = (*filestore.Store)(nil)
