package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/silverbirch/portal/internal/auth/domain"
	"github.com/silverbirch/portal/internal/auth/notify"
	"github.com/silverbirch/portal/internal/auth/service"
	"github.com/silverbirch/portal/internal/auth/store"
	"github.com/silverbirch/portal/pkg/httpx"
	"github.com/silverbirch/portal/pkg/jwtx"
	"github.com/silverbirch/portal/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	tokens       *jwtx.Tokens
	baseURL      string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	notifier notify.Notifier

	Credentials *service.CredentialService
	Users       *service.UserService
	Reset       *service.ResetService
}

func NewRouter(
	tokens *jwtx.Tokens,
	baseURL, buildVersion string,
	st store.Store,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		tokens:       tokens,
		baseURL:      baseURL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		notifier:     notifier,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{Credentials: r.Credentials, Tokens: r.tokens}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /password-reset/request - strict rate limit by IP (public,
	// triggers outbound email)
	requestHandler := &PasswordResetRequestHandler{
		Users:    r.Users,
		Reset:    r.Reset,
		Notifier: r.notifier,
		BaseURL:  r.baseURL,
	}
	r.Mux.Handle("POST /v1/auth/password-reset/request",
		httpx.Chain(requestHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /password-reset/confirm - strict rate limit by IP (token
	// guessing surface)
	confirmHandler := &PasswordResetConfirmHandler{
		Credentials: r.Credentials,
		Reset:       r.Reset,
	}
	r.Mux.Handle("POST /v1/auth/password-reset/confirm",
		httpx.Chain(confirmHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /password - authenticated, reachable while a password change is
	// still pending (that's the point)
	changeHandler := &ChangePasswordHandler{Credentials: r.Credentials}
	r.Mux.Handle("POST /v1/auth/password",
		httpx.Chain(changeHandler,
			httpx.AuthnMiddleware(r.tokens),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	createHandler := &CreateUserHandler{Users: r.Users, Notifier: r.notifier}
	r.Mux.Handle("POST /v1/users",
		httpx.Chain(createHandler,
			httpx.AuthnMiddleware(r.tokens),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RequirePasswordChanged(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	reissueHandler := &ReissueTemporaryPasswordHandler{Users: r.Users, Notifier: r.notifier}
	r.Mux.Handle("POST /v1/users/{id}/temporary-password",
		httpx.Chain(reissueHandler,
			httpx.AuthnMiddleware(r.tokens),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RequirePasswordChanged(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
