package server

import "net/http"

// IndexHandler is a minimal landing endpoint; the gateway sits behind the
// portal frontend, so there is no page to render here.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": s.config.GetAppName(),
			"status":  "ok",
		})
	}
}

// HealthzHandler is the liveness probe.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// UnauthorizedHandler is where the capability guard sends denied users.
func (s *Server) UnauthorizedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"error": "you do not have permission to access this area",
		})
	}
}
