package router

import (
	"github.com/labstack/echo/v4"

	"github.com/openpos/pos-admin/internal/handler"
	"github.com/openpos/pos-admin/internal/middleware"
	"github.com/openpos/pos-admin/internal/model"
)

// RegisterMenu registers the menu catalog endpoints.  Reads are open to all
// authenticated roles so waiters and kitchen staff can browse the catalog;
// mutations mirror the Menu Management page and require admin or manager.
func RegisterMenu(e *echo.Echo, cat *handler.CategoryHandler, item *handler.ItemHandler, mod *handler.ModifierHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	mgmt := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

	// ---- Categories ----
	g.GET("/menu-categories", cat.List)
	g.GET("/menu-categories/:id", cat.Get)
	g.POST("/menu-categories", cat.Create, mgmt)
	g.PATCH("/menu-categories/:id", cat.Update, mgmt)
	g.PATCH("/menu-categories/:id/toggle-status", cat.ToggleStatus, mgmt)
	g.DELETE("/menu-categories/:id", cat.Delete, mgmt)

	// ---- Items ----
	g.GET("/menu-items", item.List)
	g.GET("/menu-items/:id", item.Get)
	g.POST("/menu-items", item.Create, mgmt)
	g.PATCH("/menu-items/:id", item.Update, mgmt)
	g.PATCH("/menu-items/:id/toggle-availability", item.ToggleAvailability, mgmt)
	g.DELETE("/menu-items/:id", item.Delete, mgmt)

	// ---- Modifiers ----
	g.GET("/menu-modifiers", mod.List)
	g.GET("/menu-modifiers/:id", mod.Get)
	g.POST("/menu-modifiers", mod.Create, mgmt)
	g.PATCH("/menu-modifiers/:id", mod.Update, mgmt)
	g.DELETE("/menu-modifiers/:id", mod.Delete, mgmt)
	g.POST("/menu-modifiers/:modifierId/assign/:menuItemId", mod.Assign, mgmt)
	g.DELETE("/menu-modifiers/:modifierId/assign/:menuItemId", mod.Unassign, mgmt)
}
