package service

import (
	"errors"
)

var (
	ErrValidation         = errors.New("validation_failed")
	ErrDuplicateEmail     = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNotActivated       = errors.New("not_activated")
	ErrActivationNotFound = errors.New("activation_not_found")
	ErrResetNotFound      = errors.New("reset_not_found")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrInvalidToken       = errors.New("invalid_token")
)

// ValidationError carries the per-field failures of a rejected request.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields error
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + e.Fields.Error()
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Fields }
