package model

// Role is the closed set of staff roles understood by the application.  Roles
// are stored as lowercase strings in both the database and JWT claims.  There
// is deliberately no extensibility path: handlers, the access gate and the
// navigation filter all assume one of these four values.
type Role string

const (
	RoleAdmin   Role = "admin"   // full control over the tenant
	RoleManager Role = "manager" // staff and menu management
	RoleWaiter  Role = "waiter"  // front-of-house, read-mostly
	RoleKitchen Role = "kitchen" // kitchen display, read-mostly
)

// Roles lists every valid role.  Iteration order is stable so callers can
// render pick-lists deterministically.
var Roles = []Role{RoleAdmin, RoleManager, RoleWaiter, RoleKitchen}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleWaiter, RoleKitchen:
		return true
	}
	return false
}
