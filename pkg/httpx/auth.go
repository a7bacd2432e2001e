package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// AuthHeader is the legacy header carrying a raw session token.
const AuthHeader = "x-auth"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyToken  ctxKey = "token"
)

// TokenVerifier resolves a raw session token to the user id it belongs to.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, raw string) (userID string, err error)
}

// TokenVerifierFunc adapts a function to TokenVerifier.
type TokenVerifierFunc func(ctx context.Context, raw string) (string, error)

func (f TokenVerifierFunc) VerifyToken(ctx context.Context, raw string) (string, error) {
	return f(ctx, raw)
}

// BearerToken extracts the session token from the x-auth header, falling
// back to "Authorization: Bearer". Empty when neither is present.
func BearerToken(r *http.Request) string {
	if raw := strings.TrimSpace(r.Header.Get(AuthHeader)); raw != "" {
		return raw
	}

	authz := r.Header.Get("Authorization")
	if len(authz) > len("Bearer ") && strings.EqualFold(authz[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(authz[len("Bearer "):])
	}
	return ""
}

// AuthnMiddleware rejects requests without a valid session token with a 401
// and stores the user id and raw token in the request context.
func AuthnMiddleware(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := BearerToken(r)
			if raw == "" {
				WriteUnauthorized(w, "missing session token")
				return
			}

			userID, err := v.VerifyToken(ctx, raw)
			if err != nil {
				slogx.FromContext(ctx).Debug("session token rejected", "err", err)
				WriteUnauthorized(w, "invalid session token")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, userID)
			ctx = context.WithValue(ctx, CtxKeyToken, raw)
			ctx = slogx.WithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id stored by AuthnMiddleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyUserID).(string)
	return id, ok && id != ""
}

// Token returns the raw session token stored by AuthnMiddleware.
func Token(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(CtxKeyToken).(string)
	return tok, ok && tok != ""
}

// WriteUnauthorized writes a 401 with an RFC 6750 style challenge.
func WriteUnauthorized(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, APIError{Status: http.StatusUnauthorized, Message: "Unauthorized", DeveloperMessage: desc})
}
