package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/mailer"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// AccountService drives the account lifecycle: registration and activation,
// login and logout, and the forgot/reset password flow.
//
// Register and RequestPasswordReset write to the store and send an email
// concurrently. When either half fails the store write is undone and the
// original failure is returned.
type AccountService struct {
	Users     *UserService
	Tokens    *TokenService
	Notifier  mailer.Notifier
	Templates *mailer.Templates

	// ClientURL prefixes the links in outgoing emails.
	ClientURL string
}

// Register creates an inactive account for email and mails its activation
// link.
func (s *AccountService) Register(ctx context.Context, email, password string) error {
	l := slogx.FromContext(ctx)

	u, err := s.Users.NewUser(email, password)
	if err != nil {
		return err
	}

	exists, err := s.Users.Exists(ctx, u.Email)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if exists {
		return ErrDuplicateEmail
	}

	msg, err := s.Templates.Activation(u.Email, s.ActivationLink(*u.ActivationID))
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	var insertErr, sendErr error
	var g errgroup.Group
	g.Go(func() error {
		insertErr = s.Users.Insert(ctx, u)
		return insertErr
	})
	g.Go(func() error {
		sendErr = s.Notifier.Send(ctx, msg)
		return sendErr
	})
	if g.Wait() == nil {
		l.Info("account registered", slog.String("user_id", u.ID))
		return nil
	}

	if insertErr == nil {
		l.Warn("registration failed, removing user", slog.String("user_id", u.ID), slog.Any("err", sendErr))
		s.Users.Remove(context.WithoutCancel(ctx), u.Email)
	}

	switch {
	case errors.Is(sendErr, mailer.ErrProviderAuth):
		return sendErr
	case errors.Is(insertErr, ErrDuplicateEmail):
		return ErrDuplicateEmail
	default:
		return fmt.Errorf("register: %w", errors.Join(insertErr, sendErr))
	}
}

// Activate consumes activationID.
func (s *AccountService) Activate(ctx context.Context, activationID string) error {
	u, err := s.Users.FindByActivationID(ctx, activationID)
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("account activated", slog.String("user_id", u.ID))
	return nil
}

// RequestPasswordReset stores a fresh reset signature for email and mails
// the reset link.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" {
		return ErrUserNotFound
	}

	exists, err := s.Users.Exists(ctx, email)
	if err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}

	signature, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	msg, err := s.Templates.PasswordReset(email, s.ResetLink(email, signature))
	if err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	var setErr, sendErr error
	var g errgroup.Group
	g.Go(func() error {
		_, setErr = s.Users.SetPasswordResetID(ctx, email, signature)
		return setErr
	})
	g.Go(func() error {
		sendErr = s.Notifier.Send(ctx, msg)
		return sendErr
	})
	if g.Wait() == nil {
		l.Info("password reset requested", slog.String("email", email))
		return nil
	}

	if setErr == nil {
		l.Warn("password reset request failed, clearing signature", slog.String("email", email), slog.Any("err", sendErr))
		s.Users.ClearPasswordResetID(context.WithoutCancel(ctx), email, signature)
	}

	switch {
	case errors.Is(sendErr, mailer.ErrProviderAuth):
		return sendErr
	case errors.Is(setErr, ErrUserNotFound):
		return ErrUserNotFound
	default:
		return fmt.Errorf("request password reset: %w", errors.Join(setErr, sendErr))
	}
}

// CompletePasswordReset replaces the password of the user holding signature.
// Existing sessions stay valid.
func (s *AccountService) CompletePasswordReset(ctx context.Context, signature, password string) error {
	u, err := s.Users.ConsumePasswordReset(ctx, signature, password)
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("password reset completed", slog.String("user_id", u.ID))
	return nil
}

// Login checks the credentials of an active account and issues a session
// token.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Users.FindByCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}
	if !u.Active {
		return "", ErrNotActivated
	}
	return s.Tokens.Issue(ctx, u.ID)
}

// Logout revokes the session behind rawToken.
func (s *AccountService) Logout(ctx context.Context, userID, rawToken string) error {
	return s.Tokens.Revoke(ctx, userID, rawToken)
}

// CurrentUser resolves rawToken to its session and reloads the owning user.
func (s *AccountService) CurrentUser(ctx context.Context, rawToken string) (Principal, domain.User, error) {
	p, err := s.Tokens.Verify(ctx, rawToken)
	if err != nil {
		return Principal{}, domain.User{}, err
	}

	u, err := s.Users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Principal{}, domain.User{}, fmt.Errorf("%w: user removed", ErrInvalidToken)
		}
		return Principal{}, domain.User{}, err
	}
	return p, u, nil
}

// ActivationLink is the link mailed on registration.
func (s *AccountService) ActivationLink(activationID string) string {
	return s.clientURL() + "activate?" + url.Values{"activationID": {activationID}}.Encode()
}

// ResetLink is the link mailed on a password reset request.
func (s *AccountService) ResetLink(email, signature string) string {
	return s.clientURL() + "resetpassword?" + url.Values{"email": {email}, "signature": {signature}}.Encode()
}

func (s *AccountService) clientURL() string {
	if strings.HasSuffix(s.ClientURL, "/") {
		return s.ClientURL
	}
	return s.ClientURL + "/"
}
