package store

import (
	"context"
	"database/sql"

	"github.com/reitmaier/transcribe-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create inserts a new user and returns the generated id.
	// Returns ErrMobileExists if the mobile number is already registered.
	Create(ctx context.Context, user *domain.User) (domain.UserID, error)

	// GetByID retrieves a user by id.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)

	// GetByMobile retrieves a user by mobile number.
	// Returns ErrUserNotFound if the user does not exist.
	GetByMobile(ctx context.Context, mobile domain.MobileNumber) (*domain.User, error)

	// GetByMobileAndPassword matches mobile and stored password in one query.
	// Returns ErrUserNotFound when either does not match.
	GetByMobileAndPassword(
		ctx context.Context,
		mobile domain.MobileNumber,
		password domain.EncryptedPassword,
	) (*domain.User, error)

	// GetByRefreshToken retrieves the user currently holding token.
	// Returns ErrUserNotFound if no user holds it.
	GetByRefreshToken(ctx context.Context, token domain.RefreshToken) (*domain.User, error)

	// UpdateRefreshToken replaces the user's refresh token.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateRefreshToken(ctx context.Context, id domain.UserID, token domain.RefreshToken) error

	// ListIDsExcept returns every user id other than id, ascending.
	ListIDsExcept(ctx context.Context, id domain.UserID) ([]domain.UserID, error)

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
