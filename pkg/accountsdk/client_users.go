package accountsdk

import (
	"context"
	"net/http"
)

// Register creates an inactive account and triggers the activation email.
func (c *SDKClient) Register(ctx context.Context, email, password string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/users", "", CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// Activate consumes an activation id.
func (c *SDKClient) Activate(ctx context.Context, activationID string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/users/activate", "", ActivateRequest{ActivationID: activationID})
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// ForgotPassword triggers the password reset email for email.
func (c *SDKClient) ForgotPassword(ctx context.Context, email string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/users/forgotpassword", "", ForgotPasswordRequest{Email: email})
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// ResetPassword sets a new password using the signature from the reset email.
func (c *SDKClient) ResetPassword(ctx context.Context, signature, password string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/users/passwordreset", "", PasswordResetRequest{
		PasswordResetID: signature,
		Password:        password,
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// Login exchanges credentials for a session.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/users/login", "", CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return c.NewSession(out.Token), nil
}
