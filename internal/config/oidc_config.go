package config

// OidcConfig describes the confidential client registered with the external
// identity provider. The client secret never leaves the server.
type OidcConfig interface {
	GetIssuerURL() string
	GetClientID() string
	GetClientSecret() string
	GetRedirectURL() string
}

type Oidc struct{}

var _ OidcConfig = Oidc{}

func (Oidc) GetIssuerURL() string {
	return GetEnv("OIDC_ISSUER_URL", "")
}

func (Oidc) GetClientID() string {
	return GetEnv("OIDC_CLIENT_ID", "")
}

func (Oidc) GetClientSecret() string {
	return GetEnv("OIDC_CLIENT_SECRET", "")
}

// GetRedirectURL returns the registered callback URI. Empty means "derive
// from BASE_URL" (see server route wiring).
func (Oidc) GetRedirectURL() string {
	return GetEnv("OIDC_REDIRECT_URI", "")
}
