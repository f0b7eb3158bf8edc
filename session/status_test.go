package session_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prefeitura-rio/gorio-session-gateway/session"
	"github.com/prefeitura-rio/gorio-session-gateway/token"
)

func forgeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func requestWithCookies(access, refresh string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/token-status", nil)
	if access != "" {
		r.AddCookie(&http.Cookie{Name: token.AccessTokenCookieName, Value: access})
	}
	if refresh != "" {
		r.AddCookie(&http.Cookie{Name: token.RefreshTokenCookieName, Value: refresh})
	}
	return r
}

func TestStatusFromCookies(t *testing.T) {
	t.Run("no cookies", func(t *testing.T) {
		status := session.StatusFromCookies(requestWithCookies("", ""))
		require.False(t, status.Authenticated)
		require.Empty(t, status.Token)
		require.Empty(t, status.RefreshToken)
	})

	t.Run("valid access token", func(t *testing.T) {
		access := forgeToken(t, map[string]any{"exp": time.Now().Add(10 * time.Minute).Unix()})
		status := session.StatusFromCookies(requestWithCookies(access, "refresh-raw"))
		require.True(t, status.Authenticated)
		require.False(t, status.IsExpired)
		require.Equal(t, access, status.Token)
		require.Equal(t, "refresh-raw", status.RefreshToken)
	})

	t.Run("expired access token", func(t *testing.T) {
		access := forgeToken(t, map[string]any{"exp": time.Now().Add(-time.Minute).Unix()})
		status := session.StatusFromCookies(requestWithCookies(access, "refresh-raw"))
		require.False(t, status.Authenticated)
		require.True(t, status.IsExpired)
		require.Equal(t, "refresh-raw", status.RefreshToken)
	})

	t.Run("undecodable access token counts as expired", func(t *testing.T) {
		status := session.StatusFromCookies(requestWithCookies("garbage", ""))
		require.False(t, status.Authenticated)
		require.True(t, status.IsExpired)
	})

	t.Run("refresh token echoed without access token", func(t *testing.T) {
		status := session.StatusFromCookies(requestWithCookies("", "refresh-raw"))
		require.False(t, status.Authenticated)
		require.Equal(t, "refresh-raw", status.RefreshToken)
	})
}
