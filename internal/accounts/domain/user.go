package domain

import "time"

// AccessAuth tags sessions created by login.
const AccessAuth = "auth"

type User struct {
	ID              string
	Email           string // trimmed and lowercased
	PasswordHash    string // argon2 encoded
	Active          bool
	ActivationID    *string // set until the account is activated
	PasswordResetID *string // set while a reset is outstanding
	Tokens          []Session
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Session is one issued token. Only the token's fingerprint is stored.
type Session struct {
	Access    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// HasSession reports whether u holds a session with tokenHash.
func (u User) HasSession(tokenHash string) bool {
	for _, s := range u.Tokens {
		if s.TokenHash == tokenHash {
			return true
		}
	}
	return false
}

// PublicUser is the subset of a user that may leave the service.
type PublicUser struct {
	ID    string
	Email string
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}
