package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/openpos/pos-admin/internal/model" // model defines the closed role set
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  The roles accepted
// correspond to the values stored in the JWT's "role" claim and must come
// from the closed set in the model package.  If the user's role is not in
// the allowed set, the request is aborted with a 403 Forbidden response.
// It assumes a previous middleware has extracted the role into the context
// under the key "role".
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	// Build a set of allowed roles for constant-time lookups.
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// The role should have been stored by JWTAuth as a string; a
			// missing, unknown or disallowed role is treated identically.
			v, _ := c.Get("role").(string)
			role := model.Role(v)
			if !role.Valid() || !allowed[role] {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
