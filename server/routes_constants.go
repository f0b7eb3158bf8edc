package server

import "github.com/prefeitura-rio/gorio-session-gateway/session"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Session lifecycle routes (paths shared with the session monitor)
	RouteTokenStatus = session.TokenStatusPath
	RouteRefresh     = session.RefreshPath
	RouteLogout      = session.LogoutPath
	RouteLogin       = "/api/auth/login"
	RouteCallback    = "/api/auth/callback/{provider}"

	// RBAC routes
	RouteHeimdallUser = "/api/heimdall/user"
	RouteCapabilities = "/api/admin/capabilities"

	// App routes
	RouteUnauthorized = "/unauthorized"
	RouteHealthz      = "/healthz"
	RouteMetrics      = "/metrics"
)
