package service_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	insertRequest    = regexp.QuoteMeta("INSERT INTO requests")
	insertTask       = regexp.QuoteMeta("INSERT INTO tasks")
	insertAssignment = regexp.QuoteMeta("INSERT INTO assignments")
	listOtherUsers   = regexp.QuoteMeta("SELECT id FROM users WHERE id <> $1")
	selectTaskByID   = regexp.QuoteMeta("WHERE t.id = $1")
	selectOwnedTask  = regexp.QuoteMeta("WHERE t.id = $1 AND t.user_id = $2")
	listTranscripts  = regexp.QuoteMeta("FROM transcripts WHERE task_id = $1")
	insertTranscript = regexp.QuoteMeta("INSERT INTO transcripts")
	touchTask        = regexp.QuoteMeta("UPDATE tasks SET updated_at = $1 WHERE id = $2")
	finishGuard      = regexp.QuoteMeta("AND completed_at IS NULL")
)

func testUpload() domain.Upload {
	upload, _ := domain.NewUpload("data/abc.task", "interview.oga", 60000)
	return upload
}

func TestUploadTask(t *testing.T) {
	upload := testUpload()

	t.Run("owner only", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(insertRequest).
			WithArgs(int64(1), "data/abc.task", "oga", int64(60000), "OWNER", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(idRow(1))
		mock.ExpectQuery(insertTask).
			WithArgs(int64(1), "data/abc.task", int64(60000), "LOCAL", "interview.oga", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(idRow(10))
		mock.ExpectQuery(insertAssignment).
			WithArgs(int64(1), int64(10), sqlmock.AnyArg()).
			WillReturnRows(idRow(100))
		mock.ExpectQuery(selectTaskByID).
			WithArgs(int64(10)).
			WillReturnRows(openTaskRow(10, 1, "data/abc.task"))
		mock.ExpectCommit()

		user := &domain.User{ID: 1}
		task, distributed, err := newTaskService(t, db).UploadTask(context.Background(), user, upload)
		require.NoError(t, err)
		assert.Zero(t, distributed)
		assert.Equal(t, domain.TaskID(10), task.ID)
		assert.Equal(t, domain.ProvenanceLocal, task.Provenance)
	})

	t.Run("admin upload fans out to every other user", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(insertRequest).WithArgs(
			int64(1), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "OWNER", sqlmock.AnyArg(), sqlmock.AnyArg(),
		).WillReturnRows(idRow(1))
		mock.ExpectQuery(insertTask).WillReturnRows(idRow(10))
		mock.ExpectQuery(insertAssignment).WillReturnRows(idRow(100))

		// N=3 users yields N-1 remote tasks under one ALL request
		mock.ExpectQuery(insertRequest).WithArgs(
			int64(1), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "ALL", sqlmock.AnyArg(), sqlmock.AnyArg(),
		).WillReturnRows(idRow(2))
		mock.ExpectQuery(listOtherUsers).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)).AddRow(int64(3)))
		for i, recipient := range []int64{2, 3} {
			taskID := int64(11 + i)
			mock.ExpectQuery(insertTask).
				WithArgs(recipient, "data/abc.task", int64(60000), "REMOTE", "interview.oga", sqlmock.AnyArg(), sqlmock.AnyArg()).
				WillReturnRows(idRow(taskID))
			mock.ExpectQuery(insertAssignment).
				WithArgs(int64(2), taskID, sqlmock.AnyArg()).
				WillReturnRows(idRow(200 + int64(i)))
		}
		mock.ExpectQuery(selectTaskByID).WithArgs(int64(10)).WillReturnRows(openTaskRow(10, 1, "data/abc.task"))
		mock.ExpectCommit()

		admin := &domain.User{ID: 1, IsAdmin: true}
		_, distributed, err := newTaskService(t, db).UploadTask(context.Background(), admin, upload)
		require.NoError(t, err)
		assert.Equal(t, 2, distributed)
	})

	t.Run("fan-out failure rolls back the whole upload", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(insertRequest).WillReturnRows(idRow(1))
		mock.ExpectQuery(insertTask).WillReturnRows(idRow(10))
		mock.ExpectQuery(insertAssignment).WillReturnRows(idRow(100))
		mock.ExpectQuery(insertRequest).WillReturnRows(idRow(2))
		mock.ExpectQuery(listOtherUsers).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)).AddRow(int64(3)))
		mock.ExpectQuery(insertTask).WillReturnRows(idRow(11))
		mock.ExpectQuery(insertAssignment).WillReturnRows(idRow(200))
		mock.ExpectQuery(insertTask).WillReturnError(assert.AnError)
		mock.ExpectRollback()

		admin := &domain.User{ID: 1, IsAdmin: true}
		_, _, err := newTaskService(t, db).UploadTask(context.Background(), admin, upload)
		assertKind(t, err, domain.ErrDatabase)
	})
}

func TestDistributeTask(t *testing.T) {
	upload := testUpload()

	t.Run("non-admin is refused", func(t *testing.T) {
		db, _ := newMockDB(t)

		_, err := newTaskService(t, db).DistributeTask(context.Background(), &domain.User{ID: 4}, upload)
		assertKind(t, err, domain.ErrInvalidRequest)
	})

	t.Run("single user yields no tasks", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(insertRequest).WillReturnRows(idRow(7))
		mock.ExpectQuery(listOtherUsers).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectCommit()

		requestID, err := newTaskService(t, db).
			DistributeTask(context.Background(), &domain.User{ID: 1, IsAdmin: true}, upload)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestID(7), requestID)
	})
}

func TestGetUserTask(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectOwnedTask).
		WithArgs(int64(10), int64(2)).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	_, err := newTaskService(t, db).GetUserTask(context.Background(), 2, 10)
	assertKind(t, err, domain.ErrTaskNotFound)
}

func TestListUserTasks(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.user_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(openTaskRow(10, 1, "data/abc.task"))

	tasks, err := newTaskService(t, db).ListUserTasks(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestSubmitTranscripts(t *testing.T) {
	existing := sqlmock.NewRows(transcriptColumns).
		AddRow(int64(40), int64(10), 0, 1500, "sawubona", fixedTime, fixedTime, fixedTime)

	t.Run("identical resubmission inserts nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectOwnedTask).WillReturnRows(openTaskRow(10, 1, "data/abc.task"))
		mock.ExpectQuery(listTranscripts).WithArgs(int64(10)).WillReturnRows(existing)
		mock.ExpectCommit()

		n, err := newTaskService(t, db).SubmitTranscripts(context.Background(), 1, 10, []domain.NewTranscript{
			{Text: "sawubona", RegionStart: 0, RegionEnd: 1500, UpdatedAt: fixedTime},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("new segments are inserted once", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectOwnedTask).WillReturnRows(openTaskRow(10, 1, "data/abc.task"))
		mock.ExpectQuery(listTranscripts).WillReturnRows(sqlmock.NewRows(transcriptColumns))
		mock.ExpectQuery(insertTranscript).
			WithArgs(int64(10), 1500, 3000, "unjani", fixedTime, sqlmock.AnyArg()).
			WillReturnRows(idRow(41))
		mock.ExpectExec(touchTask).
			WithArgs(sqlmock.AnyArg(), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		segment := domain.NewTranscript{Text: "unjani", RegionStart: 1500, RegionEnd: 3000, UpdatedAt: fixedTime}
		n, err := newTaskService(t, db).SubmitTranscripts(context.Background(), 1, 10,
			[]domain.NewTranscript{segment, segment})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("foreign task", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectOwnedTask).WillReturnRows(sqlmock.NewRows(taskColumns))
		mock.ExpectRollback()

		_, err := newTaskService(t, db).SubmitTranscripts(context.Background(), 2, 10, nil)
		assertKind(t, err, domain.ErrTaskNotFound)
	})
}

func TestCompleteTask(t *testing.T) {
	completion := domain.Completion{Difficulty: domain.DifficultyMedium}

	t.Run("open task", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectOwnedTask).WillReturnRows(openTaskRow(10, 1, "data/abc.task"))
		mock.ExpectExec(finishGuard).
			WithArgs(sqlmock.AnyArg(), "MEDIUM", nil, sqlmock.AnyArg(), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, newTaskService(t, db).CompleteTask(context.Background(), 1, 10, completion))
	})

	t.Run("already finished", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectOwnedTask).WillReturnRows(openTaskRow(10, 1, "data/abc.task"))
		mock.ExpectExec(finishGuard).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := newTaskService(t, db).CompleteTask(context.Background(), 1, 10, completion)
		assertKind(t, err, domain.ErrTaskAlreadyFinished)
	})

	t.Run("invalid difficulty", func(t *testing.T) {
		db, _ := newMockDB(t)

		err := newTaskService(t, db).CompleteTask(context.Background(), 1, 10, domain.Completion{Difficulty: "TRIVIAL"})
		assertKind(t, err, domain.ErrInvalidRequest)
	})
}

func TestRejectTask(t *testing.T) {
	t.Run("open task", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectOwnedTask).WillReturnRows(openTaskRow(10, 1, "data/abc.task"))
		mock.ExpectExec(finishGuard).
			WithArgs(sqlmock.AnyArg(), "INAPPROPRIATE", int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := newTaskService(t, db).RejectTask(context.Background(), 1, 10, domain.RejectInappropriate)
		assert.NoError(t, err)
	})

	t.Run("other user's task", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectOwnedTask).WillReturnRows(sqlmock.NewRows(taskColumns))
		mock.ExpectRollback()

		err := newTaskService(t, db).RejectTask(context.Background(), 2, 10, domain.RejectBlank)
		assertKind(t, err, domain.ErrTaskNotFound)
	})

	t.Run("unknown reason", func(t *testing.T) {
		db, _ := newMockDB(t)

		err := newTaskService(t, db).RejectTask(context.Background(), 1, 10, "BORING")
		assertKind(t, err, domain.ErrInvalidRequest)
	})
}

func TestLatestTranscript(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectOwnedTask).WillReturnRows(openTaskRow(10, 1, "data/abc.task"))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
		WillReturnRows(sqlmock.NewRows(transcriptColumns))

	_, err := newTaskService(t, db).LatestTranscript(context.Background(), 1, 10)
	assertKind(t, err, domain.ErrTranscriptNotFound)
}

func TestGetTaskFile(t *testing.T) {
	t.Run("file missing on disk", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(selectOwnedTask).
			WillReturnRows(openTaskRow(10, 1, t.TempDir()+"/gone.task"))

		_, _, err := newTaskService(t, db).GetTaskFile(context.Background(), 1, 10)
		assertKind(t, err, domain.ErrFileNotFound)
	})

	t.Run("task of another user", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(selectOwnedTask).WillReturnRows(sqlmock.NewRows(taskColumns))

		_, _, err := newTaskService(t, db).GetTaskFile(context.Background(), 2, 10)
		assertKind(t, err, domain.ErrTaskNotFound)
	})
}
