package heimdall_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prefeitura-rio/gorio-session-gateway/heimdall"
)

func TestClient_FetchUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/user", r.URL.Path)
			require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"u1","cpf":"52998224725","display_name":"Maria","roles":["go:admin"]}`))
		}))
		defer srv.Close()

		client := heimdall.NewClient(srv.URL+"/api/v1/", time.Second)
		user, err := client.FetchUser(context.Background(), "tok-123")
		require.NoError(t, err)
		require.Equal(t, "u1", user.ID)
		require.Equal(t, "52998224725", user.CPF)
		require.Equal(t, []string{"go:admin"}, user.Roles)
		require.True(t, user.Capabilities().HasGoRioAccess)
	})

	t.Run("response data is sanitized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id":"u2",
				"cpf":"12345678900",
				"display_name":"JoÃ£o da SilvÃ£",
				"groups":["Educação","educacao","Saúde",""]
			}`))
		}))
		defer srv.Close()

		client := heimdall.NewClient(srv.URL, time.Second)
		user, err := client.FetchUser(context.Background(), "tok")
		require.NoError(t, err)
		require.Equal(t, "João da Silvã", user.DisplayName)
		require.Equal(t, []string{"Educação", "Saúde"}, user.Groups)
		require.Empty(t, user.CPF, "check-digit failure must drop the CPF")
	})

	t.Run("401 maps to ErrUnauthorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := heimdall.NewClient(srv.URL, time.Second)
		_, err := client.FetchUser(context.Background(), "bad")
		require.ErrorIs(t, err, heimdall.ErrUnauthorized)
	})

	t.Run("5xx is a transport-level error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := heimdall.NewClient(srv.URL, time.Second)
		_, err := client.FetchUser(context.Background(), "tok")
		require.Error(t, err)
		require.NotErrorIs(t, err, heimdall.ErrUnauthorized)
	})
}
