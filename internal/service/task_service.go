package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/filestore"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/reitmaier/transcribe-api/internal/store"
)

// AudioFiles opens stored audio for download.
type AudioFiles interface {
	Open(path string) (*filestore.File, error)
}

// TaskService manages the lifecycle of transcription tasks.
type TaskService interface {
	// ListUserTasks returns the user's tasks ordered by id.
	ListUserTasks(ctx context.Context, userID domain.UserID) ([]*domain.Task, error)

	// GetUserTask fails with ErrTaskNotFound when the task does not exist or
	// belongs to another user.
	GetUserTask(ctx context.Context, userID domain.UserID, taskID domain.TaskID) (*domain.Task, error)

	// UploadTask records a LOCAL task for the uploader under a new OWNER
	// request. An admin upload also distributes the audio to every other user
	// in the same transaction; the second result is the number of REMOTE
	// tasks created that way.
	UploadTask(ctx context.Context, user *domain.User, upload domain.Upload) (*domain.Task, int, error)

	// DistributeTask creates one REMOTE task per user other than the requester
	// under a new ALL request. Only admins may distribute.
	DistributeTask(ctx context.Context, user *domain.User, upload domain.Upload) (domain.RequestID, error)

	// SubmitTranscripts stores the candidates that are not already present and
	// returns how many were inserted.
	SubmitTranscripts(
		ctx context.Context,
		userID domain.UserID,
		taskID domain.TaskID,
		candidates []domain.NewTranscript,
	) (int, error)

	// CompleteTask fails with ErrTaskAlreadyFinished for a completed or rejected task.
	CompleteTask(ctx context.Context, userID domain.UserID, taskID domain.TaskID, completion domain.Completion) error

	// RejectTask fails with ErrTaskAlreadyFinished for a completed or rejected task.
	RejectTask(ctx context.Context, userID domain.UserID, taskID domain.TaskID, reason domain.RejectReason) error

	// LatestTranscript returns the most recent transcript of an owned task.
	LatestTranscript(ctx context.Context, userID domain.UserID, taskID domain.TaskID) (*domain.Transcript, error)

	// GetTaskFile opens the audio of a task owned by userID. Fails with
	// ErrFileNotFound when the file is gone. The caller closes the file.
	GetTaskFile(ctx context.Context, userID domain.UserID, taskID domain.TaskID) (*domain.Task, *filestore.File, error)
}

type taskServiceImpl struct {
	db          store.TxBeginner
	tasks       store.TaskStore
	requests    store.RequestStore
	transcripts store.TranscriptStore
	users       store.UserStore
	files       AudioFiles
	logger      *slog.Logger
	now         func() time.Time
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService
func NewTaskService(
	db store.TxBeginner,
	tasks store.TaskStore,
	requests store.RequestStore,
	transcripts store.TranscriptStore,
	users store.UserStore,
	files AudioFiles,
	logger *slog.Logger,
) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		db:          db,
		tasks:       tasks,
		requests:    requests,
		transcripts: transcripts,
		users:       users,
		files:       files,
		logger:      logger.With(slog.String("component", "task_service")),
		now:         time.Now,
	}
}

// ownedTask loads a task for its owner, translating a miss to ErrTaskNotFound.
func ownedTask(
	ctx context.Context,
	tasks store.TaskStore,
	op string,
	userID domain.UserID,
	taskID domain.TaskID,
) (*domain.Task, error) {
	task, err := tasks.GetByIDForUser(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewOperationError(op, domain.ErrTaskNotFound, err)
		}
		return nil, err
	}
	return task, nil
}

// ListUserTasks implements TaskService.ListUserTasks
func (s *taskServiceImpl) ListUserTasks(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fail(log, "list_tasks", err)
	}
	return tasks, nil
}

// GetUserTask implements TaskService.GetUserTask
func (s *taskServiceImpl) GetUserTask(
	ctx context.Context,
	userID domain.UserID,
	taskID domain.TaskID,
) (*domain.Task, error) {
	const op = "get_task"
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := ownedTask(ctx, s.tasks, op, userID, taskID)
	if err != nil {
		return nil, fail(log, op, err)
	}
	return task, nil
}

// UploadTask implements TaskService.UploadTask
func (s *taskServiceImpl) UploadTask(
	ctx context.Context,
	user *domain.User,
	upload domain.Upload,
) (*domain.Task, int, error) {
	const op = "upload_task"
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	var distributed int
	task, err := store.RunInTransactionWithResult(ctx, s.db,
		func(ctx context.Context, tx *sql.Tx) (*domain.Task, error) {
			requests := s.requests.WithTx(tx)
			tasks := s.tasks.WithTx(tx)

			requestID, err := requests.Create(ctx, newRequest(user.ID, upload, domain.StrategyOwner, now))
			if err != nil {
				return nil, err
			}
			taskID, err := tasks.Create(ctx, newTask(user.ID, upload, domain.ProvenanceLocal, now))
			if err != nil {
				return nil, err
			}
			if _, err := requests.Assign(ctx, requestID, taskID, now); err != nil {
				return nil, err
			}

			if user.IsAdmin {
				_, n, err := s.distribute(ctx, tx, user, upload, now)
				if err != nil {
					return nil, err
				}
				distributed = n
			}

			return tasks.GetByID(ctx, taskID)
		})
	if err != nil {
		return nil, 0, fail(log, op, err)
	}

	log.Info("task uploaded",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", user.ID.String()),
		slog.Int("distributed", distributed))
	return task, distributed, nil
}

// DistributeTask implements TaskService.DistributeTask
func (s *taskServiceImpl) DistributeTask(
	ctx context.Context,
	user *domain.User,
	upload domain.Upload,
) (domain.RequestID, error) {
	const op = "distribute_task"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !user.IsAdmin {
		log.Warn("non-admin attempted to distribute a task", slog.String("user_id", user.ID.String()))
		return 0, fail(log, op, NewOperationError(op, domain.ErrInvalidRequest, nil))
	}

	now := s.now().UTC()
	requestID, err := store.RunInTransactionWithResult(ctx, s.db,
		func(ctx context.Context, tx *sql.Tx) (domain.RequestID, error) {
			id, _, err := s.distribute(ctx, tx, user, upload, now)
			return id, err
		})
	if err != nil {
		return 0, fail(log, op, err)
	}
	return requestID, nil
}

// distribute fans an upload out to every user except the requester within tx
// and returns the request id and the number of tasks created.
func (s *taskServiceImpl) distribute(
	ctx context.Context,
	tx *sql.Tx,
	user *domain.User,
	upload domain.Upload,
	now time.Time,
) (domain.RequestID, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	requests := s.requests.WithTx(tx)
	tasks := s.tasks.WithTx(tx)

	requestID, err := requests.Create(ctx, newRequest(user.ID, upload, domain.StrategyAll, now))
	if err != nil {
		return 0, 0, err
	}

	recipients, err := s.users.WithTx(tx).ListIDsExcept(ctx, user.ID)
	if err != nil {
		return 0, 0, err
	}

	for _, recipient := range recipients {
		taskID, err := tasks.Create(ctx, newTask(recipient, upload, domain.ProvenanceRemote, now))
		if err != nil {
			return 0, 0, err
		}
		if _, err := requests.Assign(ctx, requestID, taskID, now); err != nil {
			return 0, 0, err
		}
	}

	log.Info("task distributed",
		slog.String("request_id", requestID.String()),
		slog.Int("recipients", len(recipients)))
	return requestID, len(recipients), nil
}

// SubmitTranscripts implements TaskService.SubmitTranscripts
func (s *taskServiceImpl) SubmitTranscripts(
	ctx context.Context,
	userID domain.UserID,
	taskID domain.TaskID,
	candidates []domain.NewTranscript,
) (int, error) {
	const op = "submit_transcripts"
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	inserted, err := store.RunInTransactionWithResult(ctx, s.db,
		func(ctx context.Context, tx *sql.Tx) (int, error) {
			tasks := s.tasks.WithTx(tx)
			transcripts := s.transcripts.WithTx(tx)

			if _, err := ownedTask(ctx, tasks, op, userID, taskID); err != nil {
				return 0, err
			}

			existing, err := transcripts.ListByTask(ctx, taskID)
			if err != nil {
				return 0, err
			}

			fresh := domain.DedupeTranscripts(existing, candidates)
			for _, c := range fresh {
				if _, err := transcripts.Create(ctx, taskID, c, now); err != nil {
					return 0, err
				}
			}
			if len(fresh) > 0 {
				if err := tasks.Touch(ctx, taskID, now); err != nil {
					return 0, err
				}
			}
			return len(fresh), nil
		})
	if err != nil {
		return 0, fail(log, op, err)
	}

	log.Debug("transcripts submitted",
		slog.String("task_id", taskID.String()),
		slog.Int("submitted", len(candidates)),
		slog.Int("inserted", inserted))
	return inserted, nil
}

// CompleteTask implements TaskService.CompleteTask
func (s *taskServiceImpl) CompleteTask(
	ctx context.Context,
	userID domain.UserID,
	taskID domain.TaskID,
	completion domain.Completion,
) error {
	const op = "complete_task"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := completion.Validate(); err != nil {
		return fail(log, op, NewOperationError(op, domain.ErrInvalidRequest, err))
	}

	now := s.now().UTC()
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = now
	}

	return s.finish(ctx, op, userID, taskID, func(tasks store.TaskStore) error {
		return tasks.Complete(ctx, taskID, completion, now)
	})
}

// RejectTask implements TaskService.RejectTask
func (s *taskServiceImpl) RejectTask(
	ctx context.Context,
	userID domain.UserID,
	taskID domain.TaskID,
	reason domain.RejectReason,
) error {
	const op = "reject_task"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !reason.Valid() {
		return fail(log, op, NewOperationError(op, domain.ErrInvalidRequest, domain.ErrInvalidEnum))
	}

	now := s.now().UTC()
	return s.finish(ctx, op, userID, taskID, func(tasks store.TaskStore) error {
		return tasks.Reject(ctx, taskID, reason, now)
	})
}

// finish checks ownership and applies a terminal transition in one transaction.
func (s *taskServiceImpl) finish(
	ctx context.Context,
	op string,
	userID domain.UserID,
	taskID domain.TaskID,
	transition func(store.TaskStore) error,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)
		if _, err := ownedTask(ctx, tasks, op, userID, taskID); err != nil {
			return err
		}
		if err := transition(tasks); err != nil {
			if errors.Is(err, store.ErrUpdateFailed) {
				return NewOperationError(op, domain.ErrTaskAlreadyFinished, err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return fail(log, op, err)
	}

	log.Info("task finished", slog.String("operation", op), slog.String("task_id", taskID.String()))
	return nil
}

// LatestTranscript implements TaskService.LatestTranscript
func (s *taskServiceImpl) LatestTranscript(
	ctx context.Context,
	userID domain.UserID,
	taskID domain.TaskID,
) (*domain.Transcript, error) {
	const op = "latest_transcript"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := ownedTask(ctx, s.tasks, op, userID, taskID); err != nil {
		return nil, fail(log, op, err)
	}

	transcript, err := s.transcripts.Latest(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = NewOperationError(op, domain.ErrTranscriptNotFound, err)
		}
		return nil, fail(log, op, err)
	}
	return transcript, nil
}

// GetTaskFile implements TaskService.GetTaskFile
func (s *taskServiceImpl) GetTaskFile(
	ctx context.Context,
	userID domain.UserID,
	taskID domain.TaskID,
) (*domain.Task, *filestore.File, error) {
	const op = "get_task_file"
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := ownedTask(ctx, s.tasks, op, userID, taskID)
	if err != nil {
		return nil, nil, fail(log, op, err)
	}

	f, err := s.files.Open(task.Path)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			err = NewOperationError(op, domain.ErrFileNotFound, err)
		}
		return nil, nil, fail(log, op, err)
	}
	return task, f, nil
}

func newRequest(
	userID domain.UserID,
	upload domain.Upload,
	strategy domain.AssignmentStrategy,
	now time.Time,
) *domain.Request {
	return &domain.Request{
		UserID:    userID,
		Path:      upload.Path,
		Extension: upload.Extension,
		LengthMs:  upload.LengthMs,
		Strategy:  strategy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newTask(
	userID domain.UserID,
	upload domain.Upload,
	provenance domain.TaskProvenance,
	now time.Time,
) *domain.Task {
	return &domain.Task{
		UserID:      userID,
		Path:        upload.Path,
		LengthMs:    upload.LengthMs,
		Provenance:  provenance,
		DisplayName: upload.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
