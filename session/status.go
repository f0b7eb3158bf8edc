package session

import (
	"net/http"

	"github.com/prefeitura-rio/gorio-session-gateway/token"
)

// TokenStatus reports the session state carried by a request's cookies. It
// is a pure local read: no upstream calls, cheap enough to poll every tick.
type TokenStatus struct {
	Authenticated bool
	Token         string
	RefreshToken  string
	IsExpired     bool
}

// StatusFromCookies inspects the request's token cookies. A missing access
// cookie yields an unauthenticated status; a present one is authenticated
// exactly when it has not expired. The refresh token is always echoed so the
// caller can decide whether a refresh is even possible.
func StatusFromCookies(r *http.Request) TokenStatus {
	var status TokenStatus

	if c, err := r.Cookie(token.RefreshTokenCookieName); err == nil {
		status.RefreshToken = c.Value
	}

	accessCookie, err := r.Cookie(token.AccessTokenCookieName)
	if err != nil || accessCookie.Value == "" {
		return status
	}

	status.Token = accessCookie.Value
	status.IsExpired = token.IsExpired(accessCookie.Value)
	status.Authenticated = !status.IsExpired
	return status
}
