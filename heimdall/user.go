// Package heimdall is the client for the Heimdall RBAC service: it fetches
// the current user for an access token and caches the result, coalescing
// concurrent lookups so a burst of authorization checks costs one upstream
// call.
package heimdall

import "github.com/prefeitura-rio/gorio-session-gateway/authz"

// User is the identity record Heimdall returns for a valid access token.
type User struct {
	ID          string   `json:"id"`
	CPF         string   `json:"cpf"`
	DisplayName string   `json:"display_name,omitempty"`
	Groups      []string `json:"groups,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// Capabilities derives the user's capability flags from their role list.
func (u *User) Capabilities() authz.Capabilities {
	if u == nil {
		return authz.Capabilities{}
	}
	return authz.DeriveCapabilities(u.Roles)
}
