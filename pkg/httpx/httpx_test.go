package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteError(rec, httpx.APIError{Status: http.StatusNotFound, Message: "gone"})

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"status":404,"message":"gone"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Email string `json:"email"`
	}

	tests := []struct {
		name    string
		ct      string
		payload string
		wantErr bool
	}{
		{"valid", "application/json", `{"email":"a@b.com"}`, false},
		{"no content type", "", `{"email":"a@b.com"}`, false},
		{"unknown fields ignored", "application/json; charset=utf-8", `{"email":"a@b.com","x":1}`, false},
		{"not json", "application/json", `email=a`, true},
		{"empty", "application/json", ``, true},
		{"trailing data", "application/json", `{"email":"a"}{"email":"b"}`, true},
		{"wrong content type", "text/plain", `{"email":"a@b.com"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			if tt.ct != "" {
				req.Header.Set("Content-Type", tt.ct)
			}

			var b body
			err := httpx.DecodeJSON(req, &b)
			if tt.wantErr {
				require.ErrorIs(t, err, httpx.ErrBadBody)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "a@b.com", b.Email)
		})
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, httpx.BearerToken(req))

	req.Header.Set("Authorization", "Bearer abc")
	require.Equal(t, "abc", httpx.BearerToken(req))

	req.Header.Set("Authorization", "bearer lower")
	require.Equal(t, "lower", httpx.BearerToken(req))

	// x-auth wins over Authorization
	req.Header.Set("x-auth", "legacy")
	require.Equal(t, "legacy", httpx.BearerToken(req))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	require.Empty(t, httpx.BearerToken(other))
}

func TestAuthnMiddleware(t *testing.T) {
	verifier := httpx.TokenVerifierFunc(func(_ context.Context, raw string) (string, error) {
		if raw == "good" {
			return "user-1", nil
		}
		return "", errors.New("nope")
	})

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := httpx.UserID(r.Context())
		require.True(t, ok)
		tok, ok := httpx.Token(r.Context())
		require.True(t, ok)
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"id": id, "token": tok})
	}), httpx.AuthnMiddleware(verifier))

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"bad token", "x-auth", "bad", http.StatusUnauthorized},
		{"good x-auth", "x-auth", "good", http.StatusOK},
		{"good bearer", "Authorization", "Bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				var e httpx.APIError
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
				require.Equal(t, http.StatusUnauthorized, e.Status)
				require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
				return
			}
			require.JSONEq(t, `{"id":"user-1","token":"good"}`, rec.Body.String())
		})
	}
}

func TestRecover(t *testing.T) {
	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), httpx.Recover())

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
