package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openpos/pos-admin/internal/model"
	"github.com/openpos/pos-admin/internal/repository"
)

// ModifierHandler exposes menu modifier CRUD and the assignment endpoints
// that link modifiers to menu items.
type ModifierHandler struct {
	Modifiers *repository.ModifierRepo
}

func NewModifierHandler(r *repository.ModifierRepo) *ModifierHandler {
	if r == nil {
		panic("nil repository passed to NewModifierHandler")
	}
	return &ModifierHandler{Modifiers: r}
}

type modifierReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *uint32 `json:"priceCents"`
	IsAvailable *bool   `json:"isAvailable"`
}

// List handles GET /v1/menu-modifiers.
func (h *ModifierHandler) List(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	mods, err := h.Modifiers.ListByTenant(ctx, tid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, mods)
}

// Get handles GET /v1/menu-modifiers/:id.
func (h *ModifierHandler) Get(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	m, err := h.Modifiers.GetByID(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrModifierNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "modifier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, m)
}

// Create handles POST /v1/menu-modifiers.
func (h *ModifierHandler) Create(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req modifierReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": "validation failed", "fields": map[string]string{"name": "name is required"}})
	}

	m := model.Modifier{
		TenantID:    tid,
		Name:        strings.TrimSpace(*req.Name),
		IsAvailable: true,
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.PriceCents != nil {
		m.PriceCents = *req.PriceCents
	}
	if req.IsAvailable != nil {
		m.IsAvailable = *req.IsAvailable
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Modifiers.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create modifier failed"})
	}

	publishCatalog(c, "modifier", m.ID, m.Name, "created")
	return c.JSON(http.StatusCreated, m)
}

// Update handles PATCH /v1/menu-modifiers/:id; only provided fields change.
func (h *ModifierHandler) Update(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req modifierReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	m, err := h.Modifiers.GetByID(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrModifierNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "modifier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "validation failed", "fields": map[string]string{"name": "name is required"}})
		}
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.PriceCents != nil {
		m.PriceCents = *req.PriceCents
	}
	if req.IsAvailable != nil {
		m.IsAvailable = *req.IsAvailable
	}

	if err := h.Modifiers.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrModifierNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "modifier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	updated, err := h.Modifiers.GetByID(ctx, id, tid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	publishCatalog(c, "modifier", updated.ID, updated.Name, "updated")
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/menu-modifiers/:id. Assignments cascade.
func (h *ModifierHandler) Delete(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	m, err := h.Modifiers.GetByID(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrModifierNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "modifier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if err := h.Modifiers.Delete(ctx, id, tid); err != nil {
		if errors.Is(err, repository.ErrModifierNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "modifier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	publishCatalog(c, "modifier", m.ID, m.Name, "deleted")
	return c.JSON(http.StatusOK, echo.Map{"message": "modifier deleted"})
}

// Assign handles POST /v1/menu-modifiers/:modifierId/assign/:menuItemId and
// links a modifier to a menu item. Both must belong to the caller's tenant.
func (h *ModifierHandler) Assign(c echo.Context) error {
	return h.assignment(c, true)
}

// Unassign handles DELETE /v1/menu-modifiers/:modifierId/assign/:menuItemId.
func (h *ModifierHandler) Unassign(c echo.Context) error {
	return h.assignment(c, false)
}

func (h *ModifierHandler) assignment(c echo.Context, add bool) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	modID, err := strconv.ParseUint(c.Param("modifierId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid modifier id"})
	}
	itemID, err := strconv.ParseUint(c.Param("menuItemId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	m, err := h.Modifiers.GetByID(ctx, modID, tid)
	if err != nil {
		if errors.Is(err, repository.ErrModifierNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "modifier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if add {
		err = h.Modifiers.Assign(ctx, modID, itemID, tid)
	} else {
		err = h.Modifiers.Unassign(ctx, modID, itemID, tid)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrModifierNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "modifier not found"})
		case errors.Is(err, repository.ErrItemNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assignment failed"})
	}

	if add {
		publishCatalog(c, "modifier", m.ID, m.Name, "assigned")
		return c.JSON(http.StatusOK, echo.Map{"message": "modifier assigned"})
	}
	publishCatalog(c, "modifier", m.ID, m.Name, "unassigned")
	return c.JSON(http.StatusOK, echo.Map{"message": "modifier unassigned"})
}
