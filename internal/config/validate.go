package config

import "fmt"

// Validate checks cross-cutting invariants that individual getters cannot
// enforce on their own. It must be called once at startup, before any
// component consumes the config.
func Validate(c Config) error {
	if c.GetIssuerURL() == "" {
		return fmt.Errorf("[config Validate] OIDC_ISSUER_URL is required")
	}
	if c.GetClientID() == "" {
		return fmt.Errorf("[config Validate] OIDC_CLIENT_ID is required")
	}
	if c.GetClientSecret() == "" {
		return fmt.Errorf("[config Validate] OIDC_CLIENT_SECRET is required")
	}

	// The proactive-refresh window must comfortably exceed the poll
	// interval, otherwise a token can expire between two polls before the
	// reactive path ever sees it.
	if c.GetRefreshBeforeExpiry() <= c.GetCheckInterval() {
		return fmt.Errorf(
			"[config Validate] refresh-before-expiry window (%s) must exceed the check interval (%s)",
			c.GetRefreshBeforeExpiry(), c.GetCheckInterval(),
		)
	}
	return nil
}
