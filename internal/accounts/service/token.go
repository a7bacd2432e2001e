package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// Principal is the caller behind a verified session token.
type Principal struct {
	UserID    string
	Access    string
	TokenHash string
	ExpiresAt time.Time
	User      domain.User
}

type TokenService struct {
	KeyManager *jwtx.KeyManager
	Store      store.Store
	Issuer     string
	SessionTTL time.Duration
}

func (s *TokenService) ttl() time.Duration {
	if s.SessionTTL <= 0 {
		return jwtx.DefaultSessionTTL
	}
	return s.SessionTTL
}

// Issue signs a session token for userID and records its session.
func (s *TokenService) Issue(ctx context.Context, userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims(userID, jwtx.AccessAuth, s.Issuer, s.ttl(), now)

	raw, err := s.KeyManager.Signer().Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	session := domain.Session{
		Access:    domain.AccessAuth,
		TokenHash: cryptox.FingerprintToken(raw),
		CreatedAt: now,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.Store.Users().AddSession(ctx, userID, session); err != nil {
		return "", err
	}

	slogx.FromContext(ctx).Debug("session issued", slog.String("user_id", userID))
	return raw, nil
}

// Verify checks raw's signature, issuer and expiry, then requires the owning
// user to still hold the matching session.
func (s *TokenService) Verify(ctx context.Context, raw string) (Principal, error) {
	claims, err := s.KeyManager.Verifier.Verify(raw)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Access != jwtx.AccessAuth {
		return Principal{}, fmt.Errorf("%w: unexpected access %q", ErrInvalidToken, claims.Access)
	}
	if _, err := idx.Parse(claims.Subject); err != nil {
		return Principal{}, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}

	hash := cryptox.FingerprintToken(raw)
	u, err := s.Store.Users().GetUserBySession(ctx, claims.Subject, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Principal{}, fmt.Errorf("%w: session not found", ErrInvalidToken)
		}
		return Principal{}, err
	}

	return Principal{
		UserID:    u.ID,
		Access:    claims.Access,
		TokenHash: hash,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      u,
	}, nil
}

// Revoke removes the session matching raw from userID. Revoking an unknown
// token is not an error.
func (s *TokenService) Revoke(ctx context.Context, userID, raw string) error {
	return s.Store.Users().RemoveSession(ctx, userID, cryptox.FingerprintToken(raw))
}
