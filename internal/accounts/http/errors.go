package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/mailer"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// Messages shown to clients. Some are relied on by existing front ends and
// must not change.
const (
	msgMalformedBody    = "Malformed request body"
	msgInvalidInput     = "Invalid email and/or password"
	msgEmailTaken       = "User with that email already exists"
	msgMailProvider     = "Failed to connect with email service provider"
	msgInternal         = "Internal server error"
	msgWrongCredentials = "Wrong username and/or password"
	msgNotActivated     = "Account not yet activated"
	msgActivation       = "Activation link is invalid or has already been used."
	msgNoSuchEmail      = "User with that email doesn't exist."
	msgNoSuchReset      = "No user has requested reset with this signature."
)

// apiError maps a service error onto the response a client sees. Unexpected
// errors become a bare 500 and are logged.
func apiError(r *http.Request, err error) httpx.APIError {
	switch {
	case errors.Is(err, httpx.ErrBadBody):
		return httpx.APIError{Status: http.StatusBadRequest, Message: msgMalformedBody, DeveloperMessage: err.Error()}
	case errors.Is(err, service.ErrValidation):
		return httpx.APIError{Status: http.StatusBadRequest, Message: msgInvalidInput, DeveloperMessage: err.Error()}
	case errors.Is(err, service.ErrDuplicateEmail):
		return httpx.APIError{Status: http.StatusBadRequest, Message: msgEmailTaken}
	case errors.Is(err, mailer.ErrProviderAuth):
		slogx.FromContext(r.Context()).Error("email provider rejected credentials", slog.Any("err", err))
		return httpx.APIError{Status: http.StatusInternalServerError, Message: msgMailProvider, DeveloperMessage: err.Error()}
	case errors.Is(err, service.ErrInvalidCredentials):
		return httpx.APIError{Status: http.StatusUnauthorized, Message: msgWrongCredentials}
	case errors.Is(err, service.ErrNotActivated):
		return httpx.APIError{Status: http.StatusBadRequest, Message: msgNotActivated}
	case errors.Is(err, service.ErrActivationNotFound):
		return httpx.APIError{Status: http.StatusNotFound, Message: msgActivation}
	case errors.Is(err, service.ErrUserNotFound):
		return httpx.APIError{Status: http.StatusNotFound, Message: msgNoSuchEmail}
	case errors.Is(err, service.ErrResetNotFound):
		return httpx.APIError{Status: http.StatusNotFound, Message: msgNoSuchReset}
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("err", err))
		return httpx.APIError{Status: http.StatusInternalServerError, Message: msgInternal}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, apiError(r, err))
}
