package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prefeitura-rio/gorio-session-gateway/internal/config"
	"github.com/prefeitura-rio/gorio-session-gateway/internal/metrics"
	"github.com/prefeitura-rio/gorio-session-gateway/internal/utils"
	"github.com/prefeitura-rio/gorio-session-gateway/token"
)

// Paths of the gateway's session endpoints; shared with the server's route
// table so the monitor and the routes cannot drift apart.
const (
	TokenStatusPath = "/api/auth/token-status"
	RefreshPath     = "/api/auth/refresh"
	LogoutPath      = "/api/auth/logout"
)

// Monitor keeps a session alive by polling the gateway's token-status
// endpoint and refreshing the cookie pair before the access token expires.
//
// The states are Idle and Monitoring. Start and Stop are idempotent and
// there is never more than one active ticker per Monitor. Each tick runs to
// completion before the next is considered; a tick still in flight when the
// ticker fires again is skipped rather than overlapped, so two refresh
// attempts can never race on the cookie jar.
type Monitor struct {
	baseURL  string
	client   *http.Client
	navigate func(logoutURL string)

	checkInterval time.Duration
	refreshBefore time.Duration

	mu         sync.Mutex
	monitoring bool
	stopCh     chan struct{}
	busy       atomic.Bool
}

// NewMonitor builds a monitor for the gateway at baseURL. A nil client gets
// a cookie-jar client with the configured timeout; the jar is where the
// session cookies live between ticks. A nil navigate falls back to following
// the logout URL with the monitor's own client.
func NewMonitor(baseURL string, cfg config.SessionConfig, client *http.Client, navigate func(logoutURL string)) *Monitor {
	if client == nil {
		jar, _ := cookiejar.New(nil)
		client = &http.Client{Jar: jar, Timeout: cfg.GetHTTPTimeout()}
	}
	m := &Monitor{
		baseURL:       strings.TrimRight(baseURL, "/"),
		client:        client,
		checkInterval: cfg.GetCheckInterval(),
		refreshBefore: cfg.GetRefreshBeforeExpiry(),
	}
	if navigate == nil {
		navigate = m.followLogout
	}
	m.navigate = navigate
	return m
}

// Start begins monitoring: one immediate check, then one per check
// interval. Calling Start while already monitoring is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.monitoring {
		m.mu.Unlock()
		return
	}
	m.monitoring = true
	m.stopCh = make(chan struct{})
	stopCh := m.stopCh
	m.mu.Unlock()

	go m.run(stopCh)
}

// Stop cancels the ticker synchronously: no tick starts after Stop returns,
// and an in-flight tick discards its outcome. Stopping an idle monitor is a
// no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.monitoring {
		return
	}
	m.monitoring = false
	close(m.stopCh)
}

// IsMonitoring reports whether the monitor is in the Monitoring state.
func (m *Monitor) IsMonitoring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.monitoring
}

func (m *Monitor) run(stopCh chan struct{}) {
	m.guardedTick(stopCh)

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			m.guardedTick(stopCh)
		}
	}
}

func (m *Monitor) guardedTick(stopCh chan struct{}) {
	if !m.busy.CompareAndSwap(false, true) {
		metrics.MonitorTicks.WithLabelValues("skipped_busy").Inc()
		return
	}
	defer m.busy.Store(false)
	m.tick(stopCh)
}

// tick is one pass of the per-tick sub-flow: check status, then decide
// between no action, proactive refresh, reactive refresh, or escalation.
// The status check always completes before the refresh decision.
func (m *Monitor) tick(stopCh chan struct{}) {
	timeout := m.client.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	status, err := m.fetchStatus(ctx)
	if err != nil {
		// A broken status endpoint must not be polled forever: stop and
		// let the next session re-initiate monitoring.
		log.Warn().Err(err).Msg("session monitor: status check failed, stopping")
		metrics.MonitorTicks.WithLabelValues("status_error").Inc()
		m.Stop()
		return
	}

	if !status.Authenticated {
		if status.RefreshToken == "" {
			// Nothing left to refresh with; the session is over.
			m.escalate(stopCh, "no refresh token available")
			return
		}
		if err := m.refresh(ctx); err != nil {
			m.escalate(stopCh, fmt.Sprintf("reactive refresh failed: %v", err))
			return
		}
		metrics.MonitorTicks.WithLabelValues("reactive_refresh").Inc()
		return
	}

	remaining := time.Until(token.ExpiryTime(status.Token))
	if remaining > 0 && remaining <= m.refreshBefore {
		if err := m.refresh(ctx); err != nil {
			m.escalate(stopCh, fmt.Sprintf("proactive refresh failed: %v", err))
			return
		}
		metrics.MonitorTicks.WithLabelValues("proactive_refresh").Inc()
		return
	}

	metrics.MonitorTicks.WithLabelValues("fresh").Inc()
}

// escalate is the terminal branch: navigate to logout and go idle. If the
// monitor was stopped while this tick was in flight, the outcome is
// discarded instead of applied.
func (m *Monitor) escalate(stopCh chan struct{}, reason string) {
	select {
	case <-stopCh:
		return
	default:
	}
	log.Info().Str("reason", reason).Msg("session monitor: session unrecoverable, logging out")
	metrics.MonitorTicks.WithLabelValues("logout").Inc()
	m.navigate(m.baseURL + LogoutPath)
	m.Stop()
}

type statusResponse struct {
	Authenticated bool    `json:"authenticated"`
	Token         *string `json:"token"`
	RefreshToken  *string `json:"refreshToken"`
	IsExpired     bool    `json:"isExpired"`
}

// fetchStatus polls the token-status endpoint. Both 200 and 401 carry a
// parseable status body; anything else is a transport-level failure.
func (m *Monitor) fetchStatus(ctx context.Context) (TokenStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+TokenStatusPath, nil)
	if err != nil {
		return TokenStatus{}, fmt.Errorf("build status request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return TokenStatus{}, fmt.Errorf("status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized {
		return TokenStatus{}, fmt.Errorf("status endpoint returned HTTP %d", resp.StatusCode)
	}

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return TokenStatus{}, fmt.Errorf("decode status response: %w", err)
	}

	return TokenStatus{
		Authenticated: body.Authenticated,
		Token:         utils.Value(body.Token),
		RefreshToken:  utils.Value(body.RefreshToken),
		IsExpired:     body.IsExpired,
	}, nil
}

// refresh posts to the refresh endpoint; the gateway re-issues cookies into
// the monitor's jar on success. No retry here; a rejected refresh token
// will not become valid by asking again.
func (m *Monitor) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+RefreshPath, nil)
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh endpoint returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func (m *Monitor) followLogout(logoutURL string) {
	resp, err := m.client.Get(logoutURL)
	if err != nil {
		log.Warn().Err(err).Msg("session monitor: logout navigation failed")
		return
	}
	_ = resp.Body.Close()
}
