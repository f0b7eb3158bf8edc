// Package authstate tracks pending OAuth login flows between the redirect
// to the identity provider and its callback. Each state parameter is
// one-shot and expires on its own if the user abandons the login page.
package authstate

import (
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

var (
	ErrEmptyState    = errors.New("authstate: state cannot be empty")
	ErrStateNotFound = errors.New("authstate: state not found or already used")
)

// AuthState is what the callback needs to finish a login flow.
type AuthState struct {
	Nonce     string
	ReturnURL string
	CreatedAt time.Time
}

type Store struct {
	states *gocache.Cache
}

// NewStore creates a store whose entries expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{states: gocache.New(ttl, 2*ttl)}
}

// Put registers a pending flow under its state parameter.
func (s *Store) Put(state string, authState AuthState) error {
	if state == "" {
		return ErrEmptyState
	}
	s.states.SetDefault(state, authState)
	return nil
}

// Consume returns the pending flow and deletes it, so a state parameter can
// be redeemed exactly once (replayed callbacks fail).
func (s *Store) Consume(state string) (AuthState, error) {
	if state == "" {
		return AuthState{}, ErrEmptyState
	}
	v, ok := s.states.Get(state)
	if !ok {
		return AuthState{}, ErrStateNotFound
	}
	s.states.Delete(state)
	return v.(AuthState), nil
}
