// Package http is the JSON transport in front of the auth services.
// Every handler resolves its authorization through the authz context
// built by the middleware; the GraphQL gateway and other machine
// clients are the intended callers.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/covenhall/arcana/internal/auth/authz"
	"github.com/covenhall/arcana/internal/auth/service"
	"github.com/covenhall/arcana/internal/auth/store"
	"github.com/covenhall/arcana/pkg/httpx"
	"github.com/covenhall/arcana/pkg/slogx"

	_ "github.com/covenhall/arcana/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Application scopes the handlers gate on. The auth scope is held by
// gateways allowed to drive signup/login/session flows; admin is held
// by operator tooling only.
const (
	ScopeAuth  = "auth"
	ScopeAdmin = "admin"

	// ScopeUserBasic is the user scope every account holds by default.
	ScopeUserBasic = "basic"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	builder *authz.Builder

	TokenService   *service.TokenService
	AccountService *service.AccountService
	SessionService *service.SessionService
	ClientService  *service.ClientService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	builder *authz.Builder,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		builder:      builder,
		logger:       logger,
	}

	// Global chain: request logging first, then credential resolution
	// so every handler below sees a populated authz context.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		AuthContextMiddleware(builder),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerToken()
	r.registerAccount()
	r.registerSessions()
	r.registerClients()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Arcana Authentication Service API
//	@version		0.1.0
//	@description	Authentication and authorization substrate for the Arcana platform.
//	@description
//	@description				Machine clients authenticate with client credentials and receive EdDSA-signed
//	@description				bearer tokens carrying application scopes. End users authenticate with emailed
//	@description				one-time codes and receive opaque session tokens.
//
//	@contact.name				Covenhall Platform Team
//	@contact.url				https://github.com/covenhall/arcana
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Client bearer token. Format: "Bearer {token}".
//
//	@securityDefinitions.apikey	SessionAuth
//	@in							header
//	@name						X-Session-Token
//	@description				Opaque end-user session token.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerToken() {
	// POST /token - strict rate limit by IP (credential endpoint)
	h := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/oauth2/token",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{AccountService: r.AccountService}

	// Initiate endpoints send email; strict IP limit on top of the
	// per-address cooldown the service enforces.
	r.Mux.Handle("POST /v1/auth/signup/initiate",
		httpx.Chain(http.HandlerFunc(h.HandleSignupInitiate),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/signup/complete",
		httpx.Chain(http.HandlerFunc(h.HandleSignupComplete),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login/initiate",
		httpx.Chain(http.HandlerFunc(h.HandleLoginInitiate),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login/complete",
		httpx.Chain(http.HandlerFunc(h.HandleLoginComplete),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{SessionService: r.SessionService}

	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout_all",
		httpx.Chain(http.HandlerFunc(h.HandleLogoutAll),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/sessions",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{ClientService: r.ClientService}

	r.Mux.Handle("POST /v1/clients",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/clients",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/clients/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/clients/{id}/secret",
		httpx.Chain(http.HandlerFunc(h.HandleRegenerateSecret),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/clients/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.TokenService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
