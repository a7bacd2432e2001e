package jwtx

import (
	"time"

	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the lifetime of a session token when none is configured.
const DefaultSessionTTL = 30 * 24 * time.Hour

// AccessAuth is the only access tag issued today.
const AccessAuth = "auth"

// Claims are the session-token claims. The token is only half of a session,
// the account store must also hold a session with the token's fingerprint.
type Claims struct {
	jwt.RegisteredClaims

	// Access tag of the session, mirrors the stored session's access.
	Access string `json:"access"`
}

// NewSessionClaims builds claims for subject valid from now for ttl.
func NewSessionClaims(subject, access, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Access: access,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. Two tokens
// issued within the same second for the same user still differ.
func NewJTI() string {
	jti, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		panic("jwtx: generate jti: " + err.Error())
	}
	return jti
}

// ValidateIssuer checks the issuer matches expected. Empty expected skips.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry checks exp and nbf against now with a leeway for clock skew.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
