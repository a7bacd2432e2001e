package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewSessionClaims(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	c := jwtx.NewSessionClaims("user-1", jwtx.AccessAuth, "accounts", time.Hour, now)

	require.Equal(t, "user-1", c.Subject)
	require.Equal(t, "auth", c.Access)
	require.Equal(t, "accounts", c.Issuer)
	require.Equal(t, now, c.IssuedAt.Time)
	require.Equal(t, now, c.NotBefore.Time)
	require.Equal(t, now.Add(time.Hour), c.ExpiresAt.Time)
	require.NotEmpty(t, c.ID)

	other := jwtx.NewSessionClaims("user-1", jwtx.AccessAuth, "accounts", time.Hour, now)
	require.NotEqual(t, c.ID, other.ID, "jti must differ between tokens")
}

func TestClaimsValidateExpiry(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	c := jwtx.NewSessionClaims("user-1", jwtx.AccessAuth, "accounts", time.Minute, now)

	tests := []struct {
		name   string
		at     time.Time
		leeway time.Duration
		want   error
	}{
		{"within lifetime", now.Add(30 * time.Second), 0, nil},
		{"expired", now.Add(2 * time.Minute), 0, jwtx.ErrExpired},
		{"expired within leeway", now.Add(61 * time.Second), 5 * time.Second, nil},
		{"before nbf", now.Add(-time.Minute), 0, jwtx.ErrNotYetValid},
		{"before nbf within leeway", now.Add(-2 * time.Second), 5 * time.Second, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.ValidateExpiry(tt.at, tt.leeway)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClaimsValidateIssuer(t *testing.T) {
	c := jwtx.NewSessionClaims("user-1", jwtx.AccessAuth, "accounts", time.Minute, time.Now())

	require.NoError(t, c.ValidateIssuer(""))
	require.NoError(t, c.ValidateIssuer("accounts"))
	require.ErrorIs(t, c.ValidateIssuer("someone-else"), jwtx.ErrIssuer)
}
