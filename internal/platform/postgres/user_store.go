package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/reitmaier/transcribe-api/internal/store"
)

const userColumns = `id, name, mobile_number, mobile_operator, password, refresh_token, is_admin, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// If logger is nil, the default logger is used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u            domain.User
		refreshToken sql.NullString
	)
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Mobile,
		&u.Operator,
		&u.Password,
		&refreshToken,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if refreshToken.Valid {
		token := domain.RefreshToken(refreshToken.String)
		u.RefreshToken = &token
	}
	return &u, nil
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) (domain.UserID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO users (name, mobile_number, mobile_operator, password, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id domain.UserID
	err := s.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Mobile,
		user.Operator,
		user.Password,
		user.IsAdmin,
		user.CreatedAt,
	).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("mobile number already registered")
			return 0, store.ErrMobileExists
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	log.Info("user created", slog.String("user_id", id.String()))
	return id, nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.getOne(ctx, "id", query, id)
}

// GetByMobile implements store.UserStore.GetByMobile
func (s *PostgresUserStore) GetByMobile(ctx context.Context, mobile domain.MobileNumber) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE mobile_number = $1`
	return s.getOne(ctx, "mobile", query, mobile)
}

// GetByMobileAndPassword implements store.UserStore.GetByMobileAndPassword
func (s *PostgresUserStore) GetByMobileAndPassword(
	ctx context.Context,
	mobile domain.MobileNumber,
	password domain.EncryptedPassword,
) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE mobile_number = $1 AND password = $2`
	return s.getOne(ctx, "credentials", query, mobile, password)
}

// GetByRefreshToken implements store.UserStore.GetByRefreshToken
func (s *PostgresUserStore) GetByRefreshToken(
	ctx context.Context,
	token domain.RefreshToken,
) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE refresh_token = $1`
	return s.getOne(ctx, "refresh_token", query, token)
}

func (s *PostgresUserStore) getOne(ctx context.Context, by, query string, args ...any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("lookup", by))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("lookup", by),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return user, nil
}

// UpdateRefreshToken implements store.UserStore.UpdateRefreshToken
func (s *PostgresUserStore) UpdateRefreshToken(
	ctx context.Context,
	id domain.UserID,
	token domain.RefreshToken,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `UPDATE users SET refresh_token = $1 WHERE id = $2`, token, id)
	if err != nil {
		log.Error("failed to update refresh token",
			slog.String("user_id", id.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Debug("refresh token rotated", slog.String("user_id", id.String()))
	return nil
}

// ListIDsExcept implements store.UserStore.ListIDsExcept
func (s *PostgresUserStore) ListIDsExcept(ctx context.Context, id domain.UserID) ([]domain.UserID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users WHERE id <> $1 ORDER BY id`, id)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Error("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	ids := []domain.UserID{}
	for rows.Next() {
		var other domain.UserID
		if err := rows.Scan(&other); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, other)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return ids, nil
}
