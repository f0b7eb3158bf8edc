package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/prefeitura-rio/gorio-session-gateway/heimdall"
	"github.com/prefeitura-rio/gorio-session-gateway/internal/config"
	"github.com/prefeitura-rio/gorio-session-gateway/server/authstate"
	"github.com/prefeitura-rio/gorio-session-gateway/session"
)

// IdentityProvider is the slice of session.Provider the handlers need;
// tests substitute fakes so no OIDC discovery happens in-process.
type IdentityProvider interface {
	AuthCodeURL(state, nonce string) string
	ExchangeCode(ctx context.Context, code, nonce string) (session.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (session.TokenPair, error)
	LogoutURL(postLogoutRedirect string) string
}

// UserDirectory is the coalesced Heimdall lookup; satisfied by
// *heimdall.UserCache.
type UserDirectory interface {
	GetUser(ctx context.Context, accessToken string) (*heimdall.User, error)
	Invalidate()
}

type Server struct {
	env      string // Environment (e.g., "DEV", "production")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	provider IdentityProvider
	users    UserDirectory
	states   *authstate.Store
}

func New(cfg config.Config, provider IdentityProvider, users UserDirectory) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		provider: provider,
		users:    users,
		states:   authstate.NewStore(cfg.GetStateTTL()),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}
