package router

import (
	"github.com/labstack/echo/v4"

	"github.com/openpos/pos-admin/internal/handler"
	"github.com/openpos/pos-admin/internal/middleware"
	"github.com/openpos/pos-admin/internal/model"
)

// RegisterTenant registers tenant endpoints under /v1/tenants.
// Every authenticated role may read its own tenant; settings mutations are
// restricted to admins.
func RegisterTenant(e *echo.Echo, t *handler.TenantHandler, jwtSecret string) {
	g := e.Group("/v1/tenants", middleware.JWTAuth(jwtSecret))

	g.GET("/current", t.Current)

	admin := middleware.RequireRole(model.RoleAdmin)
	g.GET("/:id", t.Get, admin)
	g.PATCH("/:id", t.Update, admin)
	g.DELETE("/:id", t.Delete, admin)
}
