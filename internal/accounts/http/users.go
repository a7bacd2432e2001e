package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// UsersHandler serves registration, activation and sessions.
type UsersHandler struct {
	Accounts *service.AccountService
}

// HandleRegister creates an account.
//
//	@Summary		Register
//	@Description	Creates an inactive account and emails its activation link.
//	@Description	The account cannot log in until activated.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		accountsdk.CredentialsRequest	true	"email and password (6 to 128 characters)"
//	@Success		200		"account created, activation email sent"
//	@Failure		400		{object}	httpx.APIError	"invalid input or email taken"
//	@Failure		500		{object}	httpx.APIError	"email provider or internal failure"
//	@Router			/users [post].
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.CredentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Accounts.Register(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteOK(w)
}

// HandleActivate activates an account.
//
//	@Summary	Activate
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		body	body	accountsdk.ActivateRequest	true	"activation id from the email"
//	@Success	200		"account activated"
//	@Failure	400		{object}	httpx.APIError	"malformed body"
//	@Failure	404		{object}	httpx.APIError	"unknown or already used activation id"
//	@Router		/users/activate [post].
func (h *UsersHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.ActivateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Accounts.Activate(r.Context(), req.ActivationID); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteOK(w)
}

// HandleLogin issues a session token.
//
//	@Summary	Login
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		body	body		accountsdk.CredentialsRequest	true	"credentials"
//	@Success	200		{object}	accountsdk.LoginResponse		"session token"
//	@Failure	400		{object}	httpx.APIError			"account not yet activated"
//	@Failure	401		{object}	httpx.APIError			"wrong email or password"
//	@Router		/users/login [post].
func (h *UsersHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.CredentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accountsdk.LoginResponse{Token: token})
}

// HandleMe returns the account behind the session token.
//
//	@Summary	Current user
//	@Tags		Users
//	@Security	SessionToken
//	@Produce	json
//	@Success	200	{object}	accountsdk.UserResponse	"id and email"
//	@Failure	401	{object}	httpx.APIError		"missing or invalid session token"
//	@Router		/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	raw := httpx.BearerToken(r)
	if raw == "" {
		httpx.WriteUnauthorized(w, "missing session token")
		return
	}

	_, u, err := h.Accounts.CurrentUser(r.Context(), raw)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			httpx.WriteUnauthorized(w, "invalid session token")
			return
		}
		writeError(w, r, err)
		return
	}

	pub := u.Public()
	httpx.WriteJSON(w, http.StatusOK, accountsdk.UserResponse{ID: pub.ID, Email: pub.Email})
}

// HandleLogout revokes the session token. Must run behind AuthnMiddleware.
//
//	@Summary	Logout
//	@Tags		Users
//	@Security	SessionToken
//	@Success	200	"session revoked"
//	@Failure	400	{object}	httpx.APIError	"revocation failed"
//	@Failure	401	{object}	httpx.APIError	"missing or invalid session token"
//	@Router		/users/me/token [delete].
func (h *UsersHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := httpx.UserID(ctx)
	token, _ := httpx.Token(ctx)

	if err := h.Accounts.Logout(ctx, userID, token); err != nil {
		e := apiError(r, err)
		e.Status = http.StatusBadRequest
		httpx.WriteError(w, e)
		return
	}
	httpx.WriteOK(w)
}
