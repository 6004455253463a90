package http

import (
	"net"
	"net/http"
	"strings"

	"github.com/covenhall/arcana/internal/auth/authz"
	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/pkg/httpx"
)

// SessionTokenHeader carries the end-user session token. It travels
// beside the Authorization header, which stays reserved for the
// machine-client bearer token.
const SessionTokenHeader = "X-Session-Token"

// AuthContextMiddleware resolves both request credentials into an
// authz.Context and attaches it to the request. Invalid credentials
// leave their layer empty rather than failing the request; handlers
// enforce their own requirements through the Require helpers.
func AuthContextMiddleware(builder *authz.Builder) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a := builder.Build(r.Context(),
				bearerToken(r),
				r.Header.Get(SessionTokenHeader),
				requestMeta(r),
			)
			next.ServeHTTP(w, r.WithContext(authz.WithContext(r.Context(), a)))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// requestMeta captures the caller's user agent and IP for session
// bookkeeping. X-Forwarded-For wins over the socket address when a
// proxy sits in front.
func requestMeta(r *http.Request) domain.RequestMeta {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		if idx := strings.Index(ip, ","); idx != -1 {
			ip = ip[:idx]
		}
		ip = strings.TrimSpace(ip)
	} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	} else {
		ip = r.RemoteAddr
	}

	return domain.RequestMeta{
		UserAgent: r.UserAgent(),
		IPAddress: ip,
	}
}
