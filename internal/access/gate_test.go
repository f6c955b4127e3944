package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openpos/pos-admin/internal/model"
	"github.com/openpos/pos-admin/internal/session"
)

func snap(status session.Status, role model.Role) session.Snapshot {
	s := session.Snapshot{Status: status}
	if status == session.StatusAuthenticated {
		s.User = &model.User{ID: 1, Role: role}
		s.Token = "tok"
	}
	return s
}

func TestProtected(t *testing.T) {
	cases := map[string]struct {
		snap  session.Snapshot
		roles []model.Role
		want  Decision
	}{
		"initializing wins over everything": {snap(session.StatusInitializing, ""), []model.Role{model.RoleAdmin}, Loading},
		"unauthenticated redirects":         {snap(session.StatusUnauthenticated, ""), nil, RedirectLogin},
		"authenticated no requirement":      {snap(session.StatusAuthenticated, model.RoleKitchen), nil, Allow},
		"role match":                        {snap(session.StatusAuthenticated, model.RoleManager), []model.Role{model.RoleAdmin, model.RoleManager}, Allow},
		"role mismatch is denied not redirect": {snap(session.StatusAuthenticated, model.RoleWaiter), []model.Role{model.RoleAdmin}, Denied},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Protected(tc.snap, tc.roles...))
		})
	}
}

func TestProtectedAuthenticatedWithoutUser(t *testing.T) {
	// Cannot happen through the store; the gate refuses rather than grants.
	s := session.Snapshot{Status: session.StatusAuthenticated}
	assert.Equal(t, RedirectLogin, Protected(s, model.RoleAdmin))
}

func TestPublicOnly(t *testing.T) {
	assert.Equal(t, Loading, PublicOnly(snap(session.StatusInitializing, "")))
	assert.Equal(t, RedirectHome, PublicOnly(snap(session.StatusAuthenticated, model.RoleAdmin)))
	assert.Equal(t, Allow, PublicOnly(snap(session.StatusUnauthenticated, "")))
}

func TestVisibleNavPerRole(t *testing.T) {
	// Every role sees exactly the entries that list it, nothing else.
	for _, role := range model.Roles {
		visible := VisibleNav(role)
		seen := map[string]bool{}
		for _, e := range visible {
			seen[e.Title] = true
		}
		for _, e := range Nav {
			allowed := false
			for _, r := range e.AllowedRoles {
				if r == role {
					allowed = true
					break
				}
			}
			assert.Equal(t, allowed, seen[e.Title], "role %s, entry %s", role, e.Title)
		}
	}
}

func TestVisibleNavUnknownRoleIsEmpty(t *testing.T) {
	assert.Empty(t, VisibleNav(model.Role("intruder")))
}

func TestVisibleNavRoleSets(t *testing.T) {
	titles := func(role model.Role) []string {
		var out []string
		for _, e := range VisibleNav(role) {
			out = append(out, e.Title)
		}
		return out
	}

	assert.Equal(t,
		[]string{"Dashboard", "Orders", "Menu Management", "Table Management", "User Management", "Tenant Settings", "Profile", "Settings"},
		titles(model.RoleAdmin))
	assert.Equal(t,
		[]string{"Dashboard", "Orders", "Menu Management", "Table Management", "User Management", "Profile"},
		titles(model.RoleManager))
	assert.Equal(t, []string{"Dashboard", "Orders", "Profile"}, titles(model.RoleWaiter))
	assert.Equal(t, []string{"Dashboard", "Orders", "Profile"}, titles(model.RoleKitchen))
}
