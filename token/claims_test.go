package token_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prefeitura-rio/gorio-session-gateway/token"
)

// forgeToken builds an unsigned three-segment JWT for decode tests. The
// signature segment is garbage on purpose: the inspector never looks at it.
func forgeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestDecode(t *testing.T) {
	exp := time.Now().Add(10 * time.Minute).Unix()

	t.Run("valid token", func(t *testing.T) {
		raw := forgeToken(t, map[string]any{
			"exp":   exp,
			"cpf":   "52998224725",
			"name":  "Maria da Silva",
			"email": "maria@example.rio",
			"realm_access": map[string]any{
				"roles": []any{"go:admin", "offline_access"},
			},
		})

		claims, err := token.Decode(raw)
		require.NoError(t, err)
		require.Equal(t, exp, claims.Exp.Unix())
		require.Equal(t, "52998224725", claims.CPF)
		require.Equal(t, "Maria da Silva", claims.Name)
		require.Equal(t, "maria@example.rio", claims.Email)
		require.Equal(t, []string{"go:admin", "offline_access"}, claims.Roles)
	})

	t.Run("flat roles claim fallback", func(t *testing.T) {
		raw := forgeToken(t, map[string]any{
			"exp":   exp,
			"roles": []any{"admin"},
		})

		claims, err := token.Decode(raw)
		require.NoError(t, err)
		require.Equal(t, []string{"admin"}, claims.Roles)
	})

	t.Run("no roles", func(t *testing.T) {
		raw := forgeToken(t, map[string]any{"exp": exp})

		claims, err := token.Decode(raw)
		require.NoError(t, err)
		require.Empty(t, claims.Roles)
	})

	t.Run("malformed tokens", func(t *testing.T) {
		for name, raw := range map[string]string{
			"empty":            "",
			"not a jwt":        "not-a-jwt",
			"two segments":     "abc.def",
			"four segments":    "a.b.c.d",
			"invalid base64":   "a.!!!.c",
			"payload not json": "a." + base64.RawURLEncoding.EncodeToString([]byte("hello")) + ".c",
		} {
			t.Run(name, func(t *testing.T) {
				_, err := token.Decode(raw)
				require.Error(t, err)
				require.ErrorIs(t, err, token.ErrMalformedToken)
			})
		}
	})
}

func TestIsExpired(t *testing.T) {
	t.Run("future exp", func(t *testing.T) {
		raw := forgeToken(t, map[string]any{"exp": time.Now().Add(time.Hour).Unix()})
		require.False(t, token.IsExpired(raw))
	})

	t.Run("past exp", func(t *testing.T) {
		raw := forgeToken(t, map[string]any{"exp": time.Now().Add(-time.Hour).Unix()})
		require.True(t, token.IsExpired(raw))
	})

	t.Run("missing exp treated as expired", func(t *testing.T) {
		raw := forgeToken(t, map[string]any{"sub": "123"})
		require.True(t, token.IsExpired(raw))
	})

	t.Run("undecodable token is always expired", func(t *testing.T) {
		for _, raw := range []string{"", "garbage", "a.b", "a.!!!.c"} {
			require.True(t, token.IsExpired(raw), "token %q", raw)
		}
	})
}

func TestExpiryTime(t *testing.T) {
	t.Run("returns exp claim", func(t *testing.T) {
		exp := time.Now().Add(90 * time.Second).Unix()
		raw := forgeToken(t, map[string]any{"exp": exp})
		require.Equal(t, exp, token.ExpiryTime(raw).Unix())
	})

	t.Run("zero time on decode failure", func(t *testing.T) {
		require.True(t, token.ExpiryTime("not-a-jwt").IsZero())
	})
}
