package token_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prefeitura-rio/gorio-session-gateway/token"
)

func TestAccessTokenCookie(t *testing.T) {
	t.Run("max age equals remaining lifetime", func(t *testing.T) {
		raw := forgeToken(t, map[string]any{"exp": time.Now().Add(600 * time.Second).Unix()})

		ck := token.AccessTokenCookie(raw)
		require.Equal(t, token.AccessTokenCookieName, ck.Name)
		require.Equal(t, raw, ck.Value)
		require.InDelta(t, 600, ck.MaxAge, 1)
		require.Greater(t, ck.MaxAge, 0)
		require.LessOrEqual(t, ck.MaxAge, 600)
	})

	t.Run("already expired token falls back to 60s", func(t *testing.T) {
		raw := forgeToken(t, map[string]any{"exp": time.Now().Add(-5 * time.Second).Unix()})

		ck := token.AccessTokenCookie(raw)
		require.Equal(t, 60, ck.MaxAge)
	})

	t.Run("exp exactly now falls back to 60s", func(t *testing.T) {
		raw := forgeToken(t, map[string]any{"exp": time.Now().Unix()})

		ck := token.AccessTokenCookie(raw)
		require.Equal(t, 60, ck.MaxAge)
	})

	t.Run("undecodable token uses access fallback", func(t *testing.T) {
		ck := token.AccessTokenCookie("garbage")
		require.Equal(t, 10*60, ck.MaxAge)
	})

	t.Run("attributes", func(t *testing.T) {
		ck := token.AccessTokenCookie("garbage")
		require.True(t, ck.HttpOnly)
		require.True(t, ck.Secure)
		require.Equal(t, http.SameSiteLaxMode, ck.SameSite)
		require.Equal(t, "/", ck.Path)
	})
}

func TestRefreshTokenCookie(t *testing.T) {
	t.Run("undecodable token uses refresh fallback", func(t *testing.T) {
		ck := token.RefreshTokenCookie("garbage")
		require.Equal(t, token.RefreshTokenCookieName, ck.Name)
		require.Equal(t, 30*60, ck.MaxAge)
	})

	t.Run("never produces non-positive max age", func(t *testing.T) {
		for _, exp := range []int64{
			time.Now().Unix(),
			time.Now().Add(-time.Hour).Unix(),
			0,
		} {
			raw := forgeToken(t, map[string]any{"exp": exp})
			require.Greater(t, token.RefreshTokenCookie(raw).MaxAge, 0, "exp=%d", exp)
		}
	})
}

func TestDeletionCookie(t *testing.T) {
	ck := token.DeletionCookie(token.AccessTokenCookieName)
	require.Equal(t, -1, ck.MaxAge)
	require.Empty(t, ck.Value)
	require.True(t, ck.HttpOnly)
}
