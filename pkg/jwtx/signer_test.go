package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "accounts-test"

var testSecret = []byte(strings.Repeat("s", jwtx.MinSecretLength))

func newSigners(t *testing.T) map[string]jwtx.Signer {
	t.Helper()

	hs, err := jwtx.NewSignerHS256("hs-key", testSecret)
	require.NoError(t, err)

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	ed, err := jwtx.NewSignerEdDSA("ed-key", pemKey)
	require.NoError(t, err)

	return map[string]jwtx.Signer{"HS256": hs, "EdDSA": ed}
}

func TestSignAndVerify(t *testing.T) {
	for name, signer := range newSigners(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, signer.Validate())
			require.Equal(t, name, signer.Alg())

			claims := jwtx.NewSessionClaims("user-456", jwtx.AccessAuth, exampleIssuer, 5*time.Minute, time.Now().UTC())
			token, err := signer.Sign(claims)
			require.NoError(t, err)

			keys := jwtx.NewKeySet()
			require.NoError(t, keys.AddSigner(signer))

			got, err := jwtx.NewVerifier(keys, jwtx.VerifyOptions{Issuer: exampleIssuer}).Verify(token)
			require.NoError(t, err)
			require.Equal(t, "user-456", got.Subject)
			require.Equal(t, jwtx.AccessAuth, got.Access)
			require.Equal(t, claims.ID, got.ID)
		})
	}
}

func TestVerifyFailures(t *testing.T) {
	signers := newSigners(t)
	hs := signers["HS256"]
	ed := signers["EdDSA"]

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(hs))
	require.NoError(t, keys.AddSigner(ed))
	verifier := jwtx.NewVerifier(keys, jwtx.VerifyOptions{Issuer: exampleIssuer})

	now := time.Now().UTC()
	valid := jwtx.NewSessionClaims("user-1", jwtx.AccessAuth, exampleIssuer, time.Minute, now)

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := hs.Sign(jwtx.NewSessionClaims("user-1", jwtx.AccessAuth, "other", time.Minute, now))
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := hs.Sign(jwtx.NewSessionClaims("user-1", jwtx.AccessAuth, exampleIssuer, time.Minute, now.Add(-time.Hour)))
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := ed.Sign(valid)
		require.NoError(t, err)
		parts := strings.Split(token, ".")
		other, err := ed.Sign(jwtx.NewSessionClaims("user-2", jwtx.AccessAuth, exampleIssuer, time.Minute, now))
		require.NoError(t, err)
		forged := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]

		_, err = verifier.Verify(forged)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("unknown kid", func(t *testing.T) {
		stranger, err := jwtx.NewSignerHS256("stranger", testSecret)
		require.NoError(t, err)
		token, err := stranger.Sign(valid)
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.Error(t, err)
		_, err = verifier.Verify("")
		require.Error(t, err)
	})
}

func TestHS256RejectsShortSecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256("kid", []byte("short"))
	require.Error(t, err)

	_, err = jwtx.NewSignerHS256("kid", nil)
	require.Error(t, err)
}

func TestVerifierUsesInjectedClock(t *testing.T) {
	hs := newSigners(t)["HS256"]
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(hs))

	issued := time.Unix(1700000000, 0).UTC()
	token, err := hs.Sign(jwtx.NewSessionClaims("user-1", jwtx.AccessAuth, exampleIssuer, time.Hour, issued))
	require.NoError(t, err)

	at := issued.Add(30 * time.Minute)
	_, err = jwtx.NewVerifier(keys, jwtx.VerifyOptions{Now: func() time.Time { return at }}).Verify(token)
	require.NoError(t, err)

	at = issued.Add(2 * time.Hour)
	_, err = jwtx.NewVerifier(keys, jwtx.VerifyOptions{Now: func() time.Time { return at }}).Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}
