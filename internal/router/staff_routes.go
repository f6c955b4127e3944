package router

import (
	"github.com/labstack/echo/v4"

	"github.com/openpos/pos-admin/internal/handler"
	"github.com/openpos/pos-admin/internal/middleware"
	"github.com/openpos/pos-admin/internal/model"
)

// RegisterStaff registers staff management endpoints under /v1/users.
// The own-profile endpoint is open to every authenticated role; everything
// else mirrors the User Management page and requires admin or manager.
func RegisterStaff(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	g := e.Group("/v1/users", middleware.JWTAuth(jwtSecret))

	g.GET("/profile/me", u.Me)

	mgmt := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	g.GET("", u.List, mgmt)
	g.GET("/count", u.Count, mgmt)
	g.GET("/:id", u.Get, mgmt)
	g.POST("", u.Create, mgmt)
	g.PATCH("/:id", u.Update, mgmt)
	g.DELETE("/:id", u.Deactivate, mgmt)
}
