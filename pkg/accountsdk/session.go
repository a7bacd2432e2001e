package accountsdk

import (
	"context"
	"net/http"
)

// Session is a logged-in client. Tokens are long lived and never refreshed,
// Logout ends the session server side.
type Session struct {
	client *SDKClient
	token  string
}

// NewSession wraps an existing session token.
func (c *SDKClient) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}

// Token returns the raw session token.
func (s *Session) Token() string { return s.token }

// Me returns the account behind the session.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/users/me", s.token, nil)
	if err != nil {
		return nil, err
	}

	var me UserResponse
	if err := decodeJSON(resp, &me, http.StatusOK); err != nil {
		return nil, err
	}
	return &me, nil
}

// Logout revokes the session token.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.client.doRequest(ctx, http.MethodDelete, "/users/me/token", s.token, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}
