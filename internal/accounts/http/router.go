package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/accounts/api/accounts" // Swagger docs
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AccountService *service.AccountService
	TokenService   *service.TokenService
}

func NewRouter(keys *jwtx.KeySet, buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerPassword()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Accounts Service API
//	@version		0.1.0
//	@description	User accounts with email activation, session tokens and password reset.
//	@description
//	@description	Errors are returned as {status, message, developerMessage}.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/accounts
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	SessionToken
//	@in							header
//	@name						x-auth
//	@description				Session token from /users/login. "Authorization: Bearer {token}" is accepted too.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Accounts: r.AccountService}

	r.Mux.HandleFunc("POST /users", h.HandleRegister)
	r.Mux.HandleFunc("POST /users/activate", h.HandleActivate)
	r.Mux.HandleFunc("POST /users/login", h.HandleLogin)

	// /users/me resolves the token itself since it needs the session's user
	r.Mux.HandleFunc("GET /users/me", h.HandleMe)
	r.Mux.Handle("DELETE /users/me/token",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.AuthnMiddleware(httpx.TokenVerifierFunc(r.verifySession)),
		),
	)
}

// verifySession resolves a raw session token to its user id.
func (r *Router) verifySession(ctx context.Context, raw string) (string, error) {
	p, err := r.TokenService.Verify(ctx, raw)
	if err != nil {
		return "", err
	}
	return p.UserID, nil
}

func (r *Router) registerPassword() {
	h := &PasswordHandler{Accounts: r.AccountService}

	r.Mux.HandleFunc("POST /users/forgotpassword", h.HandleForgot)
	r.Mux.HandleFunc("POST /users/passwordreset", h.HandleReset)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))
}
