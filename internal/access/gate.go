// Package access decides what the current session is allowed to see. It is
// pure: decisions are computed from a session snapshot and a role
// requirement, with no I/O and no state of its own.
package access

import (
	"github.com/openpos/pos-admin/internal/model"
	"github.com/openpos/pos-admin/internal/session"
)

// Decision is what the rendering layer should do with a navigation target.
type Decision int

const (
	// Loading: bootstrap has not resolved yet; show a placeholder, never a
	// redirect. This wins over every other check so neither a login flash
	// nor a protected-content flash can happen during the startup window.
	Loading Decision = iota
	// Allow: render the target.
	Allow
	// Denied: authenticated but the role does not match. Rendered in
	// place, deliberately not a redirect to login.
	Denied
	// RedirectLogin: unauthenticated on a protected target.
	RedirectLogin
	// RedirectHome: authenticated on a public-only target (login page).
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case Allow:
		return "allow"
	case Denied:
		return "denied"
	case RedirectLogin:
		return "redirect-login"
	default:
		return "redirect-home"
	}
}

// Protected gates a target that requires authentication, optionally
// restricted to the given roles. An empty role list means any authenticated
// user may enter.
func Protected(snap session.Snapshot, roles ...model.Role) Decision {
	switch snap.Status {
	case session.StatusInitializing:
		return Loading
	case session.StatusUnauthenticated:
		return RedirectLogin
	}
	if len(roles) == 0 {
		return Allow
	}
	if snap.User == nil {
		// Authenticated without a user never happens through the store;
		// treat it like a failed session rather than granting access.
		return RedirectLogin
	}
	for _, r := range roles {
		if snap.User.Role == r {
			return Allow
		}
	}
	return Denied
}

// PublicOnly gates login/register targets, which an authenticated user
// should never see.
func PublicOnly(snap session.Snapshot) Decision {
	switch snap.Status {
	case session.StatusInitializing:
		return Loading
	case session.StatusAuthenticated:
		return RedirectHome
	}
	return Allow
}
