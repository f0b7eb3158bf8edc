package authstate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prefeitura-rio/gorio-session-gateway/server/authstate"
)

func TestStore(t *testing.T) {
	t.Run("put and consume", func(t *testing.T) {
		store := authstate.NewStore(time.Minute)
		require.NoError(t, store.Put("abc", authstate.AuthState{Nonce: "n1", ReturnURL: "/painel"}))

		got, err := store.Consume("abc")
		require.NoError(t, err)
		require.Equal(t, "n1", got.Nonce)
		require.Equal(t, "/painel", got.ReturnURL)
	})

	t.Run("consume is one-shot", func(t *testing.T) {
		store := authstate.NewStore(time.Minute)
		require.NoError(t, store.Put("abc", authstate.AuthState{Nonce: "n1"}))

		_, err := store.Consume("abc")
		require.NoError(t, err)
		_, err = store.Consume("abc")
		require.ErrorIs(t, err, authstate.ErrStateNotFound)
	})

	t.Run("unknown state", func(t *testing.T) {
		store := authstate.NewStore(time.Minute)
		_, err := store.Consume("nope")
		require.ErrorIs(t, err, authstate.ErrStateNotFound)
	})

	t.Run("empty state rejected", func(t *testing.T) {
		store := authstate.NewStore(time.Minute)
		require.ErrorIs(t, store.Put("", authstate.AuthState{}), authstate.ErrEmptyState)
		_, err := store.Consume("")
		require.ErrorIs(t, err, authstate.ErrEmptyState)
	})

	t.Run("expires", func(t *testing.T) {
		store := authstate.NewStore(20 * time.Millisecond)
		require.NoError(t, store.Put("abc", authstate.AuthState{Nonce: "n1"}))
		time.Sleep(40 * time.Millisecond)
		_, err := store.Consume("abc")
		require.ErrorIs(t, err, authstate.ErrStateNotFound)
	})
}
