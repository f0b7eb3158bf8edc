package server

import "github.com/prefeitura-rio/gorio-session-gateway/internal/metrics"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", s.IndexHandler())
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, metrics.Handler(nil))
	s.RegisterRouteFunc("GET "+RouteUnauthorized, s.UnauthorizedHandler())

	// SESSION LIFECYCLE
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteTokenStatus, ChainMiddleware(s.TokenStatusHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// RBAC (require a live access-token cookie)
	s.RegisterRouteHandler("GET "+RouteHeimdallUser,
		ChainMiddleware(s.HeimdallUserHandler(), append(s.APIMiddleware(), s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteCapabilities,
		ChainMiddleware(s.CapabilitiesHandler(), append(s.APIMiddleware(), s.RequireSession(), s.CapabilityGuard())...))
}
