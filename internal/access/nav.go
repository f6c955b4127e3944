package access

import "github.com/openpos/pos-admin/internal/model"

// NavEntry is one sidebar destination with the closed set of roles allowed
// to see it.
type NavEntry struct {
	Title        string
	Path         string
	AllowedRoles []model.Role
}

var allRoles = []model.Role{model.RoleAdmin, model.RoleManager, model.RoleWaiter, model.RoleKitchen}

var managers = []model.Role{model.RoleAdmin, model.RoleManager}

var adminOnly = []model.Role{model.RoleAdmin}

// Nav is the full sidebar in display order.
var Nav = []NavEntry{
	{Title: "Dashboard", Path: "/dashboard", AllowedRoles: allRoles},
	{Title: "Orders", Path: "/orders", AllowedRoles: allRoles},
	{Title: "Menu Management", Path: "/menu", AllowedRoles: managers},
	{Title: "Table Management", Path: "/tables", AllowedRoles: managers},
	{Title: "User Management", Path: "/users", AllowedRoles: managers},
	{Title: "Tenant Settings", Path: "/tenant", AllowedRoles: adminOnly},
	{Title: "Profile", Path: "/profile", AllowedRoles: allRoles},
	{Title: "Settings", Path: "/settings", AllowedRoles: adminOnly},
}

// VisibleNav filters Nav down to the entries the role may see. It is
// computed fresh on every call; nothing is cached so a role change is
// reflected immediately.
func VisibleNav(role model.Role) []NavEntry {
	out := make([]NavEntry, 0, len(Nav))
	for _, e := range Nav {
		for _, r := range e.AllowedRoles {
			if r == role {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
