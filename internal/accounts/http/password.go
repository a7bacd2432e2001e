package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// PasswordHandler serves the forgot/reset password flow.
type PasswordHandler struct {
	Accounts *service.AccountService
}

// HandleForgot emails a password reset link.
//
//	@Summary	Forgot password
//	@Tags		Password
//	@Accept		json
//	@Produce	json
//	@Param		body	body	accountsdk.ForgotPasswordRequest	true	"account email"
//	@Success	200		"reset email sent"
//	@Failure	404		{object}	httpx.APIError	"no account with that email"
//	@Failure	500		{object}	httpx.APIError	"email provider or internal failure"
//	@Router		/users/forgotpassword [post].
func (h *PasswordHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.ForgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Accounts.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteOK(w)
}

// HandleReset sets a new password.
//
//	@Summary	Reset password
//	@Tags		Password
//	@Accept		json
//	@Produce	json
//	@Param		body	body	accountsdk.PasswordResetRequest	true	"signature from the email and the new password"
//	@Success	200		"password changed"
//	@Failure	400		{object}	httpx.APIError	"password too short or too long"
//	@Failure	404		{object}	httpx.APIError	"unknown or already used signature"
//	@Router		/users/passwordreset [post].
func (h *PasswordHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.PasswordResetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Accounts.CompletePasswordReset(r.Context(), req.PasswordResetID, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteOK(w)
}
