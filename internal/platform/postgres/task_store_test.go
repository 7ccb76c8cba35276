package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskRowColumns = []string{
	"id", "user_id", "path", "length", "provenance", "display_name",
	"created_at", "updated_at", "completed_at",
	"reject_reason", "difficulty", "confidence", "transcript",
}

func TestPostgresTaskStore_Create(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	task := &domain.Task{
		UserID:      4,
		Path:        "data/abc.task",
		LengthMs:    12000,
		Provenance:  domain.ProvenanceLocal,
		DisplayName: "interview.oga",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	t.Run("returns generated id", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks")).
			WithArgs(domain.UserID(4), "data/abc.task", int64(12000), "LOCAL", "interview.oga", now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

		id, err := NewPostgresTaskStore(db, nil).Create(context.Background(), task)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskID(11), id)
	})

	t.Run("unknown owner", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks")).
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "tasks_user_id_fkey"})

		_, err := NewPostgresTaskStore(db, nil).Create(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresTaskStore_GetByIDForUser(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	completed := created.Add(time.Hour)

	t.Run("hydrates optional columns", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE t.id = $1 AND t.user_id = $2")).
			WithArgs(domain.TaskID(11), domain.UserID(4)).
			WillReturnRows(sqlmock.NewRows(taskRowColumns).AddRow(
				int64(11), int64(4), "data/abc.task", int64(12000), "REMOTE", "interview.oga",
				created, completed, completed,
				nil, "HARD", "LOW", "hello world",
			))

		task, err := NewPostgresTaskStore(db, nil).GetByIDForUser(context.Background(), 11, 4)
		require.NoError(t, err)
		assert.Equal(t, domain.ProvenanceRemote, task.Provenance)
		assert.Equal(t, "hello world", task.Transcript)
		require.NotNil(t, task.CompletedAt)
		assert.True(t, completed.Equal(*task.CompletedAt))
		assert.Nil(t, task.RejectReason)
		require.NotNil(t, task.Difficulty)
		assert.Equal(t, domain.DifficultyHard, *task.Difficulty)
		require.NotNil(t, task.Confidence)
		assert.Equal(t, domain.ConfidenceLow, *task.Confidence)
		assert.True(t, task.Finished())
	})

	t.Run("other owner is not found", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE t.id = $1 AND t.user_id = $2")).
			WillReturnRows(sqlmock.NewRows(taskRowColumns))

		_, err := NewPostgresTaskStore(db, nil).GetByIDForUser(context.Background(), 11, 5)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_ListByUser(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("open tasks", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE t.user_id = $1 ORDER BY t.id")).
			WithArgs(domain.UserID(4)).
			WillReturnRows(sqlmock.NewRows(taskRowColumns).
				AddRow(int64(1), int64(4), "data/a.task", int64(1000), "LOCAL", "a.oga",
					created, created, nil, nil, nil, nil, "").
				AddRow(int64(2), int64(4), "data/b.task", int64(2000), "REMOTE", "b.oga",
					created, created, nil, nil, nil, nil, "draft"))

		tasks, err := NewPostgresTaskStore(db, nil).ListByUser(context.Background(), 4)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.False(t, tasks[0].Finished())
		assert.Equal(t, "draft", tasks[1].Transcript)
	})

	t.Run("no tasks", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE t.user_id = $1")).
			WillReturnRows(sqlmock.NewRows(taskRowColumns))

		tasks, err := NewPostgresTaskStore(db, nil).ListByUser(context.Background(), 4)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})
}

func TestPostgresTaskStore_Complete(t *testing.T) {
	at := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	confidence := domain.ConfidenceHigh
	completion := domain.Completion{
		Difficulty:  domain.DifficultyEasy,
		Confidence:  &confidence,
		CompletedAt: at.Add(-time.Minute),
	}
	query := regexp.QuoteMeta("WHERE id = $5 AND completed_at IS NULL")

	t.Run("open task", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(query).
			WithArgs(completion.CompletedAt, "EASY", "HIGH", at, domain.TaskID(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgresTaskStore(db, nil).Complete(context.Background(), 11, completion, at)
		assert.NoError(t, err)
	})

	t.Run("without confidence", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(query).
			WithArgs(completion.CompletedAt, "EASY", nil, at, domain.TaskID(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		c := completion
		c.Confidence = nil
		err := NewPostgresTaskStore(db, nil).Complete(context.Background(), 11, c, at)
		assert.NoError(t, err)
	})

	t.Run("already finished", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgresTaskStore(db, nil).Complete(context.Background(), 11, completion, at)
		assert.ErrorIs(t, err, store.ErrUpdateFailed)
	})
}

func TestPostgresTaskStore_Reject(t *testing.T) {
	at := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("SET completed_at = $1, reject_reason = $2")

	t.Run("open task", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(query).
			WithArgs(at, "BLANK", domain.TaskID(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgresTaskStore(db, nil).Reject(context.Background(), 11, domain.RejectBlank, at)
		assert.NoError(t, err)
	})

	t.Run("already finished", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgresTaskStore(db, nil).Reject(context.Background(), 11, domain.RejectBlank, at)
		assert.ErrorIs(t, err, store.ErrUpdateFailed)
	})
}

func TestPostgresTaskStore_Touch(t *testing.T) {
	at := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET updated_at = $1 WHERE id = $2")).
		WithArgs(at, domain.TaskID(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewPostgresTaskStore(db, nil).Touch(context.Background(), 11, at)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}
