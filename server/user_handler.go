package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/prefeitura-rio/gorio-session-gateway/authz"
	"github.com/prefeitura-rio/gorio-session-gateway/heimdall"
	"github.com/prefeitura-rio/gorio-session-gateway/session"
)

type heimdallUserResponse struct {
	User         *heimdall.User     `json:"user"`
	Capabilities authz.Capabilities `json:"capabilities"`
}

// HeimdallUserHandler returns the caller's Heimdall identity together with
// the capability flags derived from their roles. Lookups are cached and
// coalesced, so polling this endpoint stays cheap.
func (s *Server) HeimdallUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := session.StatusFromCookies(r)

		user, err := s.users.GetUser(r.Context(), status.Token)
		if err != nil {
			if errors.Is(err, heimdall.ErrUnauthorized) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{
					"error": "token rejected by authorization service",
				})
				return
			}
			log.Error().Err(err).Msg("[server HeimdallUserHandler] user lookup failed")
			w.Header().Set("Retry-After", "5")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "authorization service unavailable",
			})
			return
		}

		writeJSON(w, http.StatusOK, heimdallUserResponse{
			User:         user,
			Capabilities: user.Capabilities(),
		})
	}
}

// CapabilitiesHandler returns the capability flags for the already-guarded
// caller. CapabilityGuard resolved the user; missing context here means the
// route was wired without the guard.
func (s *Server) CapabilitiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			log.Error().Str("path", r.URL.Path).Msg("[server CapabilitiesHandler] no user in context")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, user.Capabilities())
	}
}
