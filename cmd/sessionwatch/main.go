// sessionwatch keeps a single session alive against a running gateway. It
// seeds a cookie jar from SESSIONWATCH_ACCESS_TOKEN / SESSIONWATCH_REFRESH_TOKEN
// and then polls and refreshes exactly the way the portal frontend does,
// which makes it useful both for service accounts and for soak-testing the
// refresh path.
package main

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prefeitura-rio/gorio-session-gateway/internal/config"
	"github.com/prefeitura-rio/gorio-session-gateway/session"
	"github.com/prefeitura-rio/gorio-session-gateway/token"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	c := config.New()
	baseURL := config.GetEnv("SESSIONWATCH_GATEWAY_URL", c.GetBaseURL())

	client, err := seededClient(baseURL, c)
	if err != nil {
		log.Fatal().Err(err).Msg("building session client")
	}

	monitor := session.NewMonitor(baseURL, c, client, nil)
	monitor.Start()
	log.Info().Str("gateway", baseURL).Msg("session monitor started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	monitor.Stop()
	log.Info().Msg("session monitor stopped")
}

func seededClient(baseURL string, c config.SessionConfig) (*http.Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	// Seeded without the Secure flag so a plain-HTTP gateway still works in
	// local setups; the gateway re-issues hardened cookies on first refresh.
	var cookies []*http.Cookie
	if access := os.Getenv("SESSIONWATCH_ACCESS_TOKEN"); access != "" {
		cookies = append(cookies, &http.Cookie{Name: token.AccessTokenCookieName, Value: access, Path: "/"})
	}
	if refresh := os.Getenv("SESSIONWATCH_REFRESH_TOKEN"); refresh != "" {
		cookies = append(cookies, &http.Cookie{Name: token.RefreshTokenCookieName, Value: refresh, Path: "/"})
	}
	jar.SetCookies(u, cookies)

	return &http.Client{Jar: jar, Timeout: c.GetHTTPTimeout()}, nil
}
