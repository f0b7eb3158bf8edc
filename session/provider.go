// Package session owns the cookie-stored token pair's lifecycle: exchanging
// codes and refresh tokens with the external identity provider, answering
// token-status checks, and the monitor that keeps a session alive.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/prefeitura-rio/gorio-session-gateway/internal/config"
)

// TokenPair is the result of a code exchange or a refresh grant.
// RefreshToken is empty when the provider did not rotate it, in which case
// the caller keeps the old refresh cookie untouched.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Provider is the gateway's confidential-client view of the external OIDC
// identity provider.
type Provider struct {
	oauthConfig   *oauth2.Config
	verifier      *oidc.IDTokenVerifier
	endSessionURL string
}

// NewProvider runs OIDC discovery against the configured issuer. The
// end-session endpoint is not part of go-oidc's typed surface, so it is read
// from the raw discovery claims.
func NewProvider(ctx context.Context, cfg config.OidcConfig, redirectURL string) (*Provider, error) {
	provider, err := oidc.NewProvider(ctx, cfg.GetIssuerURL())
	if err != nil {
		return nil, fmt.Errorf("[Provider New] discovery failed: %w", err)
	}

	var discovery struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}
	if err := provider.Claims(&discovery); err != nil {
		return nil, fmt.Errorf("[Provider New] reading discovery claims: %w", err)
	}

	if cfg.GetRedirectURL() != "" {
		redirectURL = cfg.GetRedirectURL()
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GetClientID(),
			ClientSecret: cfg.GetClientSecret(),
			Endpoint:     provider.Endpoint(),
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email", oidc.ScopeOfflineAccess},
		},
		verifier:      provider.Verifier(&oidc.Config{ClientID: cfg.GetClientID()}),
		endSessionURL: discovery.EndSessionEndpoint,
	}, nil
}

// AuthCodeURL builds the provider's authorization URL for a login redirect.
func (p *Provider) AuthCodeURL(state, nonce string) string {
	return p.oauthConfig.AuthCodeURL(state, oidc.Nonce(nonce))
}

// ExchangeCode trades an authorization code for the token pair and verifies
// the accompanying ID token, including its nonce.
func (p *Provider) ExchangeCode(ctx context.Context, code, nonce string) (TokenPair, error) {
	oauth2Token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return TokenPair{}, fmt.Errorf("[Provider ExchangeCode] token exchange failed: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return TokenPair{}, errors.New("[Provider ExchangeCode] no ID token in response")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("[Provider ExchangeCode] ID token verification failed: %w", err)
	}
	if idToken.Nonce != nonce {
		return TokenPair{}, errors.New("[Provider ExchangeCode] nonce mismatch")
	}

	return TokenPair{
		AccessToken:  oauth2Token.AccessToken,
		RefreshToken: oauth2Token.RefreshToken,
	}, nil
}

// Refresh exchanges a refresh token for a new pair. It never retries; retry
// policy belongs to the caller, and a rejected refresh token will not become
// valid by retrying. On error the caller must leave the existing cookies
// untouched.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, errors.New("[Provider Refresh] missing refresh token")
	}

	src := p.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	newToken, err := src.Token()
	if err != nil {
		return TokenPair{}, fmt.Errorf("[Provider Refresh] token endpoint: %w", err)
	}

	pair := TokenPair{AccessToken: newToken.AccessToken}
	// oauth2 echoes the old refresh token back when the provider did not
	// rotate it; only report a rotation to the caller.
	if newToken.RefreshToken != "" && newToken.RefreshToken != refreshToken {
		pair.RefreshToken = newToken.RefreshToken
	}
	return pair, nil
}

// LogoutURL builds the provider's end-session URL, terminating the federated
// session and sending the browser back to postLogoutRedirect.
func (p *Provider) LogoutURL(postLogoutRedirect string) string {
	if p.endSessionURL == "" {
		return postLogoutRedirect
	}
	q := url.Values{}
	q.Set("client_id", p.oauthConfig.ClientID)
	q.Set("post_logout_redirect_uri", postLogoutRedirect)
	return p.endSessionURL + "?" + q.Encode()
}
