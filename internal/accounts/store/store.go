package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, mongo)
// implement this. Every mutation the services need is a single atomic
// operation on one user, so there is no transaction API.
type Store interface {
	Users() Users

	// ApplyMigrations brings the schema (sqlite) or indexes (mongo) up to date.
	ApplyMigrations() error

	// Close releases the underlying connection.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID). A
	// duplicate email fails with ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ActivateUser sets active and clears the activation id of the user
	// holding activationID, returning the updated user.
	ActivateUser(ctx context.Context, activationID string) (domain.User, error)

	// SetPasswordResetID stores resetID on the user with email, returning the
	// updated user.
	SetPasswordResetID(ctx context.Context, email, resetID string) (domain.User, error)

	// ClearPasswordResetID clears the reset id of the user with email, but
	// only while it still equals resetID. Clearing nothing is not an error.
	ClearPasswordResetID(ctx context.Context, email, resetID string) error

	// ResetPassword replaces the password hash of the user holding resetID
	// and clears the reset id, returning the updated user.
	ResetPassword(ctx context.Context, resetID, passwordHash string) (domain.User, error)

	// DeleteUserByEmail hard deletes a user and its sessions.
	DeleteUserByEmail(ctx context.Context, email string) error

	// AddSession appends s to the user's sessions.
	AddSession(ctx context.Context, userID string, s domain.Session) error

	// GetUserBySession returns the user only when it holds a session with
	// tokenHash.
	GetUserBySession(ctx context.Context, userID, tokenHash string) (domain.User, error)

	// RemoveSession drops the matching session. Removing nothing is not an error.
	RemoveSession(ctx context.Context, userID, tokenHash string) error

	// DeleteExpiredSessions removes sessions that expired at or before now
	// and reports how many records changed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
