package authz

import "strings"

// pathPermission maps a route prefix to the capability it requires.
type pathPermission struct {
	prefix string
	check  func(Capabilities) bool
}

// Longest prefixes first so /api/gorio/admin wins over /api/gorio.
var pathPermissions = []pathPermission{
	{"/api/gorio/admin", func(c Capabilities) bool { return c.IsGoRioAdmin }},
	{"/api/gorio", func(c Capabilities) bool { return c.HasGoRioAccess }},
	{"/api/busca/admin", func(c Capabilities) bool { return c.IsBuscaServicesAdmin }},
	{"/api/busca", func(c Capabilities) bool { return c.HasBuscaServicesAccess }},
	{"/api/admin", func(c Capabilities) bool { return c.HasAdminPrivileges }},
}

// Authorize decides whether a role list may use a path, per the permission
// table. Paths with no table entry are open to any authenticated session.
func Authorize(path string, roles []string) bool {
	caps := DeriveCapabilities(roles)
	for _, p := range pathPermissions {
		if strings.HasPrefix(path, p.prefix) {
			return p.check(caps)
		}
	}
	return true
}
