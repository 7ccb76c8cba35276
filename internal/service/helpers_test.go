package service_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/filestore"
	"github.com/reitmaier/transcribe-api/internal/platform/postgres"
	"github.com/reitmaier/transcribe-api/internal/service"
	"github.com/reitmaier/transcribe-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	userColumns = []string{
		"id", "name", "mobile_number", "mobile_operator", "password", "refresh_token", "is_admin", "created_at",
	}
	taskColumns = []string{
		"id", "user_id", "path", "length", "provenance", "display_name",
		"created_at", "updated_at", "completed_at",
		"reject_reason", "difficulty", "confidence", "transcript",
	}
	transcriptColumns = []string{
		"id", "task_id", "region_start", "region_end", "transcript", "client_updated_at", "created_at", "updated_at",
	}
	fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func newEncryptor(t *testing.T) *auth.HMACEncryptor {
	t.Helper()
	enc, err := auth.NewEncryptor("test-password-key")
	require.NoError(t, err)
	return enc
}

func newUserService(t *testing.T, db *sql.DB) service.UserService {
	t.Helper()
	return service.NewUserService(postgres.NewPostgresUserStore(db, nil), db, newEncryptor(t), nil)
}

func newTaskService(t *testing.T, db *sql.DB) service.TaskService {
	t.Helper()
	files, err := filestore.New(t.TempDir(), nil)
	require.NoError(t, err)
	return service.NewTaskService(
		db,
		postgres.NewPostgresTaskStore(db, nil),
		postgres.NewPostgresRequestStore(db, nil),
		postgres.NewPostgresTranscriptStore(db, nil),
		postgres.NewPostgresUserStore(db, nil),
		files,
		nil,
	)
}

func userRow(id int64, admin bool) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).
		AddRow(id, "Thandi", "+27820000001", "vodacom", "hash", nil, admin, fixedTime)
}

func openTaskRow(id, userID int64, path string) *sqlmock.Rows {
	return sqlmock.NewRows(taskColumns).
		AddRow(id, userID, path, int64(60000), "LOCAL", "clip.oga",
			fixedTime, fixedTime, nil, nil, nil, nil, "")
}

func idRow(id int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(id)
}

// assertKind checks that err carries exactly the expected domain kind.
func assertKind(t *testing.T, err error, want domain.Error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, want), "expected %v, got %v", want, err)
	assert.Equal(t, want, domain.AsError(err))

	var opErr *service.OperationError
	assert.True(t, errors.As(err, &opErr), "expected *service.OperationError, got %T", err)
}
