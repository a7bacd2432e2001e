package accountsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginAndMe(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /users/login":
			var body CredentialsRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			if body.Password != "pw12345!" {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(APIError{Status: 401, Message: "Wrong username and/or password"})
				return
			}
			_ = json.NewEncoder(w).Encode(LoginResponse{Token: "tok"})
		case "GET /users/me":
			require.Equal(t, "tok", r.Header.Get("x-auth"))
			_ = json.NewEncoder(w).Encode(UserResponse{ID: "01", Email: "a@b.com"})
		case "DELETE /users/me/token":
			require.Equal(t, "tok", r.Header.Get("x-auth"))
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	client := NewSDKClient(srv.URL + "/")

	_, err := client.Login(ctx, "a@b.com", "nope")
	require.True(t, IsStatus(err, http.StatusUnauthorized))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Wrong username and/or password", apiErr.Message)

	session, err := client.Login(ctx, "a@b.com", "pw12345!")
	require.NoError(t, err)
	require.Equal(t, "tok", session.Token())

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "01", me.ID)
	require.Equal(t, "a@b.com", me.Email)

	require.NoError(t, session.Logout(ctx))
}

func TestNonJSONErrorBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	err := NewSDKClient(srv.URL).Activate(context.Background(), "id")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "gateway down", apiErr.DeveloperMessage)
}
