package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/prefeitura-rio/gorio-session-gateway/internal/metrics"
	"github.com/prefeitura-rio/gorio-session-gateway/internal/utils"
	"github.com/prefeitura-rio/gorio-session-gateway/server/authstate"
	"github.com/prefeitura-rio/gorio-session-gateway/session"
	"github.com/prefeitura-rio/gorio-session-gateway/token"
)

type tokenStatusResponse struct {
	Authenticated bool    `json:"authenticated"`
	Token         *string `json:"token"`
	RefreshToken  *string `json:"refreshToken"`
	IsExpired     bool    `json:"isExpired"`
	Message       string  `json:"message,omitempty"`
}

// TokenStatusHandler reports the session state carried by the request's
// cookies. It never calls upstream, so clients can poll it on every tick.
// A request with no usable access cookie gets a 401 whose body is still a
// parseable status, so pollers can distinguish "logged out" from "broken".
func (s *Server) TokenStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := session.StatusFromCookies(r)

		if status.Token == "" {
			resp := tokenStatusResponse{Message: "no access token"}
			if status.RefreshToken != "" {
				resp.RefreshToken = utils.Ptr(status.RefreshToken)
			}
			writeJSON(w, http.StatusUnauthorized, resp)
			return
		}

		resp := tokenStatusResponse{
			Authenticated: status.Authenticated,
			Token:         utils.Ptr(status.Token),
			IsExpired:     status.IsExpired,
		}
		if status.RefreshToken != "" {
			resp.RefreshToken = utils.Ptr(status.RefreshToken)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type refreshResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RefreshHandler exchanges the refresh-token cookie for a new pair and
// re-issues the cookies. On any failure the existing cookies are left
// untouched; the caller decides whether the session is over.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshCookie, err := r.Cookie(token.RefreshTokenCookieName)
		if err != nil || refreshCookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, refreshResponse{Error: "no refresh token"})
			return
		}

		pair, err := s.provider.Refresh(r.Context(), refreshCookie.Value)
		if err != nil {
			log.Warn().Err(err).Msg("[server RefreshHandler] refresh grant rejected")
			metrics.RefreshTotal.WithLabelValues("failure").Inc()
			writeJSON(w, http.StatusUnauthorized, refreshResponse{Error: "refresh failed"})
			return
		}

		http.SetCookie(w, token.AccessTokenCookie(pair.AccessToken))
		if pair.RefreshToken != "" {
			// Provider rotated the refresh token
			http.SetCookie(w, token.RefreshTokenCookie(pair.RefreshToken))
		}

		// Roles may have changed with the new token; drop any cached user.
		s.users.Invalidate()
		metrics.RefreshTotal.WithLabelValues("success").Inc()
		writeJSON(w, http.StatusOK, refreshResponse{Success: true, Message: "token refreshed"})
	}
}

// LoginHandler starts the authorization-code flow: it parks a one-shot state
// with its nonce and return URL, then redirects to the identity provider.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.New().String()
		nonce := generateRandomString(32)

		if err := s.states.Put(state, authstate.AuthState{
			Nonce:     nonce,
			ReturnURL: safeReturnURL(r.URL.Query().Get("return_url")),
			CreatedAt: time.Now(),
		}); err != nil {
			log.Error().Err(err).Msg("[server LoginHandler] storing auth state")
			http.Error(w, "failed to start login", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, s.provider.AuthCodeURL(state, nonce), http.StatusFound)
	}
}

// CallbackHandler finishes the authorization-code flow. Every failure mode
// lands back on the home page rather than a dead error screen; the login can
// simply be retried.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerName := r.PathValue("provider")
		q := r.URL.Query()

		if errParam := q.Get("error"); errParam != "" {
			log.Warn().
				Str("provider", providerName).
				Str("error", errParam).
				Str("description", q.Get("error_description")).
				Msg("[server CallbackHandler] provider returned error")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		code := q.Get("code")
		state := q.Get("state")
		if code == "" || state == "" {
			log.Warn().Str("provider", providerName).Msg("[server CallbackHandler] missing code or state")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		authState, err := s.states.Consume(state)
		if err != nil {
			// Unknown, expired or replayed state parameter
			log.Warn().Err(err).Str("provider", providerName).Msg("[server CallbackHandler] state rejected")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		pair, err := s.provider.ExchangeCode(r.Context(), code, authState.Nonce)
		if err != nil {
			log.Error().Err(err).Str("provider", providerName).Msg("[server CallbackHandler] code exchange failed")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		http.SetCookie(w, token.AccessTokenCookie(pair.AccessToken))
		if pair.RefreshToken != "" {
			http.SetCookie(w, token.RefreshTokenCookie(pair.RefreshToken))
		}

		http.Redirect(w, r, safeReturnURL(authState.ReturnURL), http.StatusFound)
	}
}

// LogoutHandler clears both token cookies and forwards the browser to the
// provider's end-session endpoint so the federated session dies too.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, token.DeletionCookie(token.AccessTokenCookieName))
		http.SetCookie(w, token.DeletionCookie(token.RefreshTokenCookieName))
		s.users.Invalidate()

		http.Redirect(w, r, s.provider.LogoutURL(s.config.GetBaseURL()), http.StatusFound)
	}
}
