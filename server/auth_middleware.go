package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/prefeitura-rio/gorio-session-gateway/authz"
	"github.com/prefeitura-rio/gorio-session-gateway/heimdall"
	"github.com/prefeitura-rio/gorio-session-gateway/internal/metrics"
	"github.com/prefeitura-rio/gorio-session-gateway/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUser stores the Heimdall user resolved by CapabilityGuard
	ContextKeyUser ContextKey = "heimdall_user"
)

// RequireSession rejects requests whose access-token cookie is missing or
// expired. It is a pure local check; upstream validation happens in
// CapabilityGuard or in the service the request is forwarded to.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			status := session.StatusFromCookies(r)
			if !status.Authenticated {
				writeJSON(w, http.StatusUnauthorized, map[string]string{
					"error": "authentication required",
				})
				return
			}
			next(w, r)
		}
	}
}

// CapabilityGuard resolves the caller's Heimdall user and checks their roles
// against the permission table for the request path. Denials redirect to the
// unauthorized page. A Heimdall outage is neither a grant nor a denial: the
// caller gets a 503 and should retry, never a silent pass.
func (s *Server) CapabilityGuard() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			status := session.StatusFromCookies(r)

			user, err := s.users.GetUser(r.Context(), status.Token)
			if err != nil {
				if errors.Is(err, heimdall.ErrUnauthorized) {
					metrics.GuardDenials.Inc()
					http.Redirect(w, r, RouteUnauthorized, http.StatusFound)
					return
				}
				log.Error().Err(err).Str("path", r.URL.Path).Msg("[server CapabilityGuard] user lookup failed")
				w.Header().Set("Retry-After", "5")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"error": "authorization service unavailable",
				})
				return
			}

			if !authz.Authorize(r.URL.Path, user.Roles) {
				metrics.GuardDenials.Inc()
				http.Redirect(w, r, RouteUnauthorized, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next(w, r.WithContext(ctx))
		}
	}
}

// userFromContext returns the user stashed by CapabilityGuard, if any.
func userFromContext(ctx context.Context) (*heimdall.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(*heimdall.User)
	return user, ok
}
