package mocks

import (
	"context"

	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/filestore"
	"github.com/reitmaier/transcribe-api/internal/service"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	ListUserTasksFn     func(ctx context.Context, userID domain.UserID) ([]*domain.Task, error)
	GetUserTaskFn       func(ctx context.Context, userID domain.UserID, taskID domain.TaskID) (*domain.Task, error)
	UploadTaskFn        func(ctx context.Context, user *domain.User, upload domain.Upload) (*domain.Task, int, error)
	DistributeTaskFn    func(ctx context.Context, user *domain.User, upload domain.Upload) (domain.RequestID, error)
	SubmitTranscriptsFn func(ctx context.Context, userID domain.UserID, taskID domain.TaskID, candidates []domain.NewTranscript) (int, error)
	CompleteTaskFn      func(ctx context.Context, userID domain.UserID, taskID domain.TaskID, completion domain.Completion) error
	RejectTaskFn        func(ctx context.Context, userID domain.UserID, taskID domain.TaskID, reason domain.RejectReason) error
	LatestTranscriptFn  func(ctx context.Context, userID domain.UserID, taskID domain.TaskID) (*domain.Transcript, error)
	GetTaskFileFn       func(ctx context.Context, userID domain.UserID, taskID domain.TaskID) (*domain.Task, *filestore.File, error)
}

var _ service.TaskService = (*MockTaskService)(nil)

// ListUserTasks implements service.TaskService
func (m *MockTaskService) ListUserTasks(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	if m.ListUserTasksFn != nil {
		return m.ListUserTasksFn(ctx, userID)
	}
	return nil, ErrNotConfigured
}

// GetUserTask implements service.TaskService
func (m *MockTaskService) GetUserTask(
	ctx context.Context,
	userID domain.UserID,
	taskID domain.TaskID,
) (*domain.Task, error) {
	if m.GetUserTaskFn != nil {
		return m.GetUserTaskFn(ctx, userID, taskID)
	}
	return nil, ErrNotConfigured
}

// UploadTask implements service.TaskService
func (m *MockTaskService) UploadTask(
	ctx context.Context,
	user *domain.User,
	upload domain.Upload,
) (*domain.Task, int, error) {
	if m.UploadTaskFn != nil {
		return m.UploadTaskFn(ctx, user, upload)
	}
	return nil, 0, ErrNotConfigured
}

// DistributeTask implements service.TaskService
func (m *MockTaskService) DistributeTask(
	ctx context.Context,
	user *domain.User,
	upload domain.Upload,
) (domain.RequestID, error) {
	if m.DistributeTaskFn != nil {
		return m.DistributeTaskFn(ctx, user, upload)
	}
	return 0, ErrNotConfigured
}

// SubmitTranscripts implements service.TaskService
func (m *MockTaskService) SubmitTranscripts(
	ctx context.Context,
	userID domain.UserID,
	taskID domain.TaskID,
	candidates []domain.NewTranscript,
) (int, error) {
	if m.SubmitTranscriptsFn != nil {
		return m.SubmitTranscriptsFn(ctx, userID, taskID, candidates)
	}
	return 0, ErrNotConfigured
}

// CompleteTask implements service.TaskService
func (m *MockTaskService) CompleteTask(
	ctx context.Context,
	userID domain.UserID,
	taskID domain.TaskID,
	completion domain.Completion,
) error {
	if m.CompleteTaskFn != nil {
		return m.CompleteTaskFn(ctx, userID, taskID, completion)
	}
	return ErrNotConfigured
}

// RejectTask implements service.TaskService
func (m *MockTaskService) RejectTask(
	ctx context.Context,
	userID domain.UserID,
	taskID domain.TaskID,
	reason domain.RejectReason,
) error {
	if m.RejectTaskFn != nil {
		return m.RejectTaskFn(ctx, userID, taskID, reason)
	}
	return ErrNotConfigured
}

// LatestTranscript implements service.TaskService
func (m *MockTaskService) LatestTranscript(
	ctx context.Context,
	userID domain.UserID,
	taskID domain.TaskID,
) (*domain.Transcript, error) {
	if m.LatestTranscriptFn != nil {
		return m.LatestTranscriptFn(ctx, userID, taskID)
	}
	return nil, ErrNotConfigured
}

// GetTaskFile implements service.TaskService
func (m *MockTaskService) GetTaskFile(
	ctx context.Context,
	userID domain.UserID,
	taskID domain.TaskID,
) (*domain.Task, *filestore.File, error) {
	if m.GetTaskFileFn != nil {
		return m.GetTaskFileFn(ctx, userID, taskID)
	}
	return nil, nil, ErrNotConfigured
}
