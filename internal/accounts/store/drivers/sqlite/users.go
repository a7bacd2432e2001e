package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
)

type usersRepo struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u            domain.User
		activationID sql.NullString
		resetID      sql.NullString
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Active,
		&activationID,
		&resetID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.ActivationID = mapNullStringPtr(activationID)
	u.PasswordResetID = mapNullStringPtr(resetID)
	return u, nil
}

// withSessions loads the session sequence of u. It runs after the user row
// has been fully read since the pool only has one connection.
func (r *usersRepo) withSessions(ctx context.Context, u domain.User, err error) (domain.User, error) {
	if err != nil {
		return domain.User{}, err
	}

	rows, err := r.db.QueryContext(ctx, listSessions, u.ID)
	if err != nil {
		return domain.User{}, err
	}
	defer rows.Close()

	u.Tokens = []domain.Session{}
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.Access, &s.TokenHash, &s.CreatedAt, &s.ExpiresAt); err != nil {
			return domain.User{}, err
		}
		u.Tokens = append(u.Tokens, s)
	}
	return u, rows.Err()
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, createUser,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Active,
		mapOptionalString(u.ActivationID),
		mapOptionalString(u.PasswordResetID),
		dbTime(u.CreatedAt),
		dbTime(u.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", mapConstraint(err))
	}
	return nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserByID, id))
	return r.withSessions(ctx, u, err)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserByEmail, email))
	return r.withSessions(ctx, u, err)
}

func (r *usersRepo) ActivateUser(ctx context.Context, activationID string) (domain.User, error) {
	if activationID == "" {
		return domain.User{}, store.ErrNotFound
	}
	u, err := scanUser(r.db.QueryRowContext(ctx, activateUser, dbTime(time.Now()), activationID))
	return r.withSessions(ctx, u, err)
}

func (r *usersRepo) SetPasswordResetID(ctx context.Context, email, resetID string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, setPasswordResetID, resetID, dbTime(time.Now()), email))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		err = mapConstraint(err)
	}
	return r.withSessions(ctx, u, err)
}

func (r *usersRepo) ClearPasswordResetID(ctx context.Context, email, resetID string) error {
	_, err := r.db.ExecContext(ctx, clearPasswordResetID, dbTime(time.Now()), email, resetID)
	return err
}

func (r *usersRepo) ResetPassword(ctx context.Context, resetID, passwordHash string) (domain.User, error) {
	if resetID == "" {
		return domain.User{}, store.ErrNotFound
	}
	u, err := scanUser(r.db.QueryRowContext(ctx, resetPassword, passwordHash, dbTime(time.Now()), resetID))
	return r.withSessions(ctx, u, err)
}

func (r *usersRepo) DeleteUserByEmail(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, deleteUserByEmail, email)
	return err
}

func (r *usersRepo) AddSession(ctx context.Context, userID string, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, addSession,
		userID,
		s.Access,
		s.TokenHash,
		dbTime(s.CreatedAt),
		dbTime(s.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("add session: %w", mapConstraint(err))
	}

	_, err = r.db.ExecContext(ctx, touchUser, dbTime(time.Now()), userID)
	return err
}

func (r *usersRepo) GetUserBySession(ctx context.Context, userID, tokenHash string) (domain.User, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, hasSession, userID, tokenHash).Scan(&one); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return r.GetUserByID(ctx, userID)
}

func (r *usersRepo) RemoveSession(ctx context.Context, userID, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, removeSession, userID, tokenHash)
	return err
}

func (r *usersRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredSessions, dbTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
