// Package authz derives coarse-grained capability flags from the role
// strings the identity provider embeds in access tokens, and maps admin
// routes to the capability they require.
package authz

// Role strings recognised by the admin portal. Anything else in a token's
// role list is ignored rather than rejected.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"

	RoleGoRioAdmin = "go:admin"

	RoleBuscaServicesAdmin  = "busca:services:admin"
	RoleBuscaServicesEditor = "busca:services:editor"
)

// Capabilities are the derived feature-area flags consumed by the route
// guard and echoed to the frontend.
type Capabilities struct {
	HasAdminPrivileges bool `json:"hasAdminPrivileges"`

	HasGoRioAccess bool `json:"hasGoRioAccess"`
	CanEditGoRio   bool `json:"canEditGoRio"`
	IsGoRioAdmin   bool `json:"isGoRioAdmin"`

	HasBuscaServicesAccess bool `json:"hasBuscaServicesAccess"`
	CanEditBuscaServices   bool `json:"canEditBuscaServices"`
	IsBuscaServicesAdmin   bool `json:"isBuscaServicesAdmin"`
}

// DeriveCapabilities computes the capability flags for a role list. It is
// pure and total: a nil or empty list yields all-false flags, and admin
// privileges imply every module flag.
func DeriveCapabilities(roles []string) Capabilities {
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	has := func(role string) bool {
		_, ok := set[role]
		return ok
	}

	admin := has(RoleAdmin) || has(RoleSuperAdmin)
	goRioAdmin := admin || has(RoleGoRioAdmin)
	buscaAdmin := admin || has(RoleBuscaServicesAdmin)
	buscaEditor := buscaAdmin || has(RoleBuscaServicesEditor)

	return Capabilities{
		HasAdminPrivileges: admin,

		HasGoRioAccess: goRioAdmin,
		CanEditGoRio:   goRioAdmin,
		IsGoRioAdmin:   goRioAdmin,

		HasBuscaServicesAccess: buscaEditor,
		CanEditBuscaServices:   buscaEditor,
		IsBuscaServicesAdmin:   buscaAdmin,
	}
}

// HasAnyRole reports whether the user holds at least one of the required
// roles. Admin privileges satisfy any requirement. An empty requirement list
// means "no explicit allow-list"; callers fall back to the path table.
func HasAnyRole(required, roles []string) bool {
	if DeriveCapabilities(roles).HasAdminPrivileges {
		return true
	}
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; ok {
			return true
		}
	}
	return false
}
