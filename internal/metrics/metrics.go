// Package metrics holds the gateway's Prometheus collectors and serves the
// /metrics handler.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RefreshTotal counts refresh-grant attempts by result ("success",
	// "failure").
	RefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_refresh_total",
		Help: "Refresh-grant attempts against the identity provider by result",
	}, []string{"result"})

	// MonitorTicks counts monitor ticks by outcome ("fresh",
	// "proactive_refresh", "reactive_refresh", "logout", "status_error",
	// "skipped_busy").
	MonitorTicks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_monitor_ticks_total",
		Help: "Session monitor ticks by outcome",
	}, []string{"outcome"})

	// GuardDenials counts requests rejected by the capability guard.
	GuardDenials = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "authz_guard_denials_total",
		Help: "Requests rejected by the capability guard",
	})

	registerOnce sync.Once
)

// Handler registers the collectors once and returns the /metrics handler.
func Handler(registry prometheus.Registerer) http.Handler {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	registerOnce.Do(func() {
		registry.MustRegister(RefreshTotal, MonitorTicks, GuardDenials)
	})
	return promhttp.Handler()
}
