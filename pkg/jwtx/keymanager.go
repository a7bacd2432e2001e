package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/cryptox"
)

// KeyManager owns the active signer, the key set and a verifier over it.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	algorithm string
	signer    Signer
}

// KeyManagerOptions configures NewKeyManager.
type KeyManagerOptions struct {
	// Algorithm is HS256 or EdDSA.
	Algorithm string

	// Issuer is stamped into, and required of, every token.
	Issuer string

	// Secret is the HS256 shared secret. Required for HS256, ignored for
	// EdDSA which always generates an ephemeral key.
	Secret []byte

	// Leeway allowed on exp and nbf.
	Leeway time.Duration
}

// NewKeyManager builds a KeyManager for opts.Algorithm.
//
// HS256 tokens survive restarts as long as the secret does. EdDSA keys are
// generated on the fly and only exist in memory, so every token issued by a
// previous process becomes invalid.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: Issuer is required")
	}

	kid, err := generateRandomKeyID()
	if err != nil {
		return nil, err
	}

	var signer Signer
	switch opts.Algorithm {
	case AlgorithmHS256:
		signer, err = NewSignerHS256(kid, opts.Secret)
	case AlgorithmEdDSA:
		var pemKey []byte
		pemKey, err = cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate EdDSA key: %w", err)
		}
		signer, err = NewSignerEdDSA(kid, pemKey)
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q (supported: HS256, EdDSA)", opts.Algorithm)
	}
	if err != nil {
		return nil, err
	}

	keyset := NewKeySet()
	if err := keyset.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}

	return &KeyManager{
		Verifier:  NewVerifier(keyset, VerifyOptions{Issuer: opts.Issuer, Leeway: opts.Leeway}),
		KeySet:    keyset,
		algorithm: opts.Algorithm,
		signer:    signer,
	}, nil
}

// Algorithm returns the signing algorithm in use.
func (km *KeyManager) Algorithm() string { return km.algorithm }

// IsReady reports whether a verification key is loaded.
func (km *KeyManager) IsReady() bool { return km.KeySet.IsReady() }

// Signer returns the active signer.
func (km *KeyManager) Signer() Signer { return km.signer }

// generateRandomKeyID returns "accounts-{128-bit token}".
func generateRandomKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("jwtx: generate key id: %w", err)
	}
	return "accounts-" + token, nil
}
