package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// Password length bounds, counted in characters.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

// UserService owns credential handling on top of the user store.
type UserService struct {
	Store  store.Store
	Hasher *cryptox.Hasher

	dummyOnce sync.Once
	dummyHash string
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required, validation.Length(MinPasswordLength, MaxPasswordLength)),
	)
}

type newPassword struct {
	Password string `json:"password"`
}

func (p newPassword) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Password, validation.Required, validation.Length(MinPasswordLength, MaxPasswordLength)),
	)
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser validates the credentials and builds an inactive user with a fresh
// activation id. Nothing is persisted.
func (s *UserService) NewUser(email, password string) (domain.User, error) {
	c := credentials{Email: NormalizeEmail(email), Password: password}
	if err := c.Validate(); err != nil {
		return domain.User{}, &ValidationError{Fields: err}
	}

	hash, err := s.Hasher.Hash(c.Password)
	if err != nil {
		return domain.User{}, err
	}

	activationID, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Email:        c.Email,
		PasswordHash: hash,
		ActivationID: &activationID,
		Tokens:       []domain.Session{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Insert stores u. A taken email yields ErrDuplicateEmail.
func (s *UserService) Insert(ctx context.Context, u domain.User) error {
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Create validates, hashes and inserts a new inactive user.
func (s *UserService) Create(ctx context.Context, email, password string) (domain.User, error) {
	u, err := s.NewUser(email, password)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.Insert(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Exists reports whether a user is registered under email.
func (s *UserService) Exists(ctx context.Context, email string) (bool, error) {
	_, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// FindByCredentials returns the user owning email if password matches.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials, and
// both pay for one hash verification.
func (s *UserService) FindByCredentials(ctx context.Context, email, password string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = s.Hasher.Verify(password, s.dummy())
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("verify password: %w", err)
	}
	return u, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.Hash("not-a-real-password")
		if err != nil {
			panic("service: hash dummy password: " + err.Error())
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// FindByActivationID consumes activationID and returns the activated user.
func (s *UserService) FindByActivationID(ctx context.Context, activationID string) (domain.User, error) {
	activationID = strings.TrimSpace(activationID)
	if activationID == "" {
		return domain.User{}, ErrActivationNotFound
	}

	u, err := s.Store.Users().ActivateUser(ctx, activationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrActivationNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// SetPasswordResetID records signature as the outstanding reset for email.
func (s *UserService) SetPasswordResetID(ctx context.Context, email, signature string) (domain.User, error) {
	u, err := s.Store.Users().SetPasswordResetID(ctx, NormalizeEmail(email), signature)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// ClearPasswordResetID drops signature from email if it is still the
// outstanding reset. Failures are logged.
func (s *UserService) ClearPasswordResetID(ctx context.Context, email, signature string) {
	if err := s.Store.Users().ClearPasswordResetID(ctx, NormalizeEmail(email), signature); err != nil {
		slogx.FromContext(ctx).Warn("failed to clear password reset id", slog.String("email", email), slog.Any("err", err))
	}
}

// ConsumePasswordReset sets a new password for the user holding signature
// and clears the signature.
func (s *UserService) ConsumePasswordReset(ctx context.Context, signature, password string) (domain.User, error) {
	if err := (newPassword{Password: password}).Validate(); err != nil {
		return domain.User{}, &ValidationError{Fields: err}
	}

	signature = strings.TrimSpace(signature)
	if signature == "" {
		return domain.User{}, ErrResetNotFound
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.Store.Users().ResetPassword(ctx, signature, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrResetNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// Remove deletes the user registered under email. Failures are logged.
func (s *UserService) Remove(ctx context.Context, email string) {
	if err := s.Store.Users().DeleteUserByEmail(ctx, NormalizeEmail(email)); err != nil && !errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Warn("failed to remove user", slog.String("email", email), slog.Any("err", err))
	}
}

// GetByID fetches a user by id.
func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}
