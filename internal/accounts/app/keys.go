package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

// InitAuthKeys creates the KeyManager for cfg.Algorithm.
//
//   - HS256 signs with JWT_SECRET, so sessions survive restarts and can be
//     shared between replicas. In dev an unset secret is replaced by a random
//     one for the lifetime of the process.
//   - EdDSA signs with a key generated on startup. Every restart logs all
//     users out.
func InitAuthKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Algorithm: cfg.Algorithm,
		Issuer:    cfg.Issuer,
	}

	if cfg.Algorithm == jwtx.AlgorithmHS256 {
		secret := cfg.JWTSecret
		if secret == "" {
			var err error
			secret, err = cryptox.GenerateToken(cryptox.TokenSize256)
			if err != nil {
				return nil, fmt.Errorf("generate JWT secret: %w", err)
			}
			logger.Warn("JWT_SECRET not set, using a random secret; sessions end on restart")
		}
		opts.Secret = []byte(secret)
	}

	km, err := jwtx.NewKeyManager(opts)
	if err != nil {
		return nil, err
	}

	logger.Info("session signing key ready",
		"algorithm", km.Algorithm(),
		"kid", km.Signer().KID(),
		"issuer", cfg.Issuer,
	)
	return km, nil
}
