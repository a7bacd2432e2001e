package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewKeyManager(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		secret    []byte
	}{
		{"HS256", jwtx.AlgorithmHS256, testSecret},
		{"EdDSA", jwtx.AlgorithmEdDSA, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
				Algorithm: tt.algorithm,
				Issuer:    exampleIssuer,
				Secret:    tt.secret,
			})
			require.NoError(t, err)
			require.True(t, km.IsReady())
			require.Equal(t, tt.algorithm, km.Algorithm())
			require.Equal(t, tt.algorithm, km.Signer().Alg())

			token, err := km.Signer().Sign(jwtx.NewSessionClaims("user-1", jwtx.AccessAuth, exampleIssuer, time.Minute, time.Now().UTC()))
			require.NoError(t, err)

			claims, err := km.Verifier.Verify(token)
			require.NoError(t, err)
			require.Equal(t, "user-1", claims.Subject)
		})
	}
}

func TestNewKeyManagerErrors(t *testing.T) {
	_, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Algorithm: jwtx.AlgorithmHS256, Secret: testSecret})
	require.Error(t, err, "issuer is required")

	_, err = jwtx.NewKeyManager(jwtx.KeyManagerOptions{Algorithm: jwtx.AlgorithmHS256, Issuer: exampleIssuer})
	require.Error(t, err, "HS256 needs a secret")

	_, err = jwtx.NewKeyManager(jwtx.KeyManagerOptions{Algorithm: "RS256", Issuer: exampleIssuer})
	require.Error(t, err)
}
