package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/reitmaier/transcribe-api/internal/service/auth"
	"github.com/reitmaier/transcribe-api/internal/store"
)

// UserService provides registration, authentication and refresh-token rotation.
type UserService interface {
	// Register creates a user and returns it as stored.
	// Fails with ErrDuplicateUser when the mobile number is taken.
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)

	// AuthenticateByPassword matches mobile and encrypted password in one
	// lookup. Fails with ErrMobileOrPasswordIncorrect whether the mobile is
	// unknown or the password is wrong.
	AuthenticateByPassword(
		ctx context.Context,
		mobile domain.MobileNumber,
		password domain.Password,
	) (*domain.User, error)

	// AuthenticateByRefreshToken fails with ErrUserNotFound for an unknown token.
	AuthenticateByRefreshToken(ctx context.Context, token domain.RefreshToken) (*domain.User, error)

	// GetByMobile fails with ErrUserNotFound.
	GetByMobile(ctx context.Context, mobile domain.MobileNumber) (*domain.User, error)

	// RotateRefreshToken replaces the user's refresh token.
	RotateRefreshToken(ctx context.Context, id domain.UserID, token domain.RefreshToken) error
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	users     store.UserStore
	db        store.TxBeginner
	encryptor auth.Encryptor
	logger    *slog.Logger
	now       func() time.Time
}

var (
	_ UserService              = (*userServiceImpl)(nil)
	_ auth.RefreshTokenRotator = (*userServiceImpl)(nil)
)

// NewUserService creates a new UserService
func NewUserService(
	users store.UserStore,
	db store.TxBeginner,
	encryptor auth.Encryptor,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userServiceImpl{
		users:     users,
		db:        db,
		encryptor: encryptor,
		logger:    logger.With(slog.String("component", "user_service")),
		now:       time.Now,
	}
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	const op = "register"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := reg.Validate(); err != nil {
		return nil, fail(log, op, NewOperationError(op, domain.ErrInvalidRequest, err))
	}

	candidate := &domain.User{
		Name:      reg.Name,
		Mobile:    reg.Mobile,
		Operator:  reg.Operator,
		Password:  s.encryptor.Encrypt(reg.Password),
		CreatedAt: s.now().UTC(),
	}

	user, err := store.RunInTransactionWithResult(ctx, s.db,
		func(ctx context.Context, tx *sql.Tx) (*domain.User, error) {
			users := s.users.WithTx(tx)

			id, err := users.Create(ctx, candidate)
			if err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					return nil, NewOperationError(op, domain.ErrDuplicateUser, err)
				}
				return nil, err
			}
			return users.GetByID(ctx, id)
		})
	if err != nil {
		return nil, fail(log, op, err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// AuthenticateByPassword implements UserService.AuthenticateByPassword
func (s *userServiceImpl) AuthenticateByPassword(
	ctx context.Context,
	mobile domain.MobileNumber,
	password domain.Password,
) (*domain.User, error) {
	const op = "authenticate_password"
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByMobileAndPassword(ctx, mobile, s.encryptor.Encrypt(password))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = NewOperationError(op, domain.ErrMobileOrPasswordIncorrect, nil)
		}
		return nil, fail(log, op, err)
	}
	return user, nil
}

// AuthenticateByRefreshToken implements UserService.AuthenticateByRefreshToken
func (s *userServiceImpl) AuthenticateByRefreshToken(
	ctx context.Context,
	token domain.RefreshToken,
) (*domain.User, error) {
	const op = "authenticate_refresh_token"
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByRefreshToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = NewOperationError(op, domain.ErrUserNotFound, nil)
		}
		return nil, fail(log, op, err)
	}
	return user, nil
}

// GetByMobile implements UserService.GetByMobile
func (s *userServiceImpl) GetByMobile(ctx context.Context, mobile domain.MobileNumber) (*domain.User, error) {
	const op = "get_user_by_mobile"
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = NewOperationError(op, domain.ErrUserNotFound, nil)
		}
		return nil, fail(log, op, err)
	}
	return user, nil
}

// RotateRefreshToken implements UserService.RotateRefreshToken. Every failure,
// including a missing user, is reported as ErrDatabase.
func (s *userServiceImpl) RotateRefreshToken(
	ctx context.Context,
	id domain.UserID,
	token domain.RefreshToken,
) error {
	const op = "rotate_refresh_token"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.users.UpdateRefreshToken(ctx, id, token); err != nil {
		return fail(log, op, err)
	}
	return nil
}
