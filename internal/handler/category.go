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

// CategoryHandler exposes menu category CRUD for the management pages.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(r *repository.CategoryRepo) *CategoryHandler {
	if r == nil {
		panic("nil repository passed to NewCategoryHandler")
	}
	return &CategoryHandler{Categories: r}
}

type categoryReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

// List handles GET /v1/menu-categories with per-category item counts.
func (h *CategoryHandler) List(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	cats, err := h.Categories.ListByTenant(ctx, tid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cats)
}

// Get handles GET /v1/menu-categories/:id.
func (h *CategoryHandler) Get(c echo.Context) error {
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

	cat, err := h.Categories.GetByID(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cat)
}

// Create handles POST /v1/menu-categories. New categories start active
// unless the request says otherwise.
func (h *CategoryHandler) Create(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": "validation failed", "fields": map[string]string{"name": "name is required"}})
	}

	cat := model.Category{
		TenantID: tid,
		Name:     strings.TrimSpace(*req.Name),
		IsActive: true,
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}
	if req.Color != nil {
		cat.Color = *req.Color
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Categories.Create(ctx, &cat); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}

	publishCatalog(c, "category", cat.ID, cat.Name, "created")
	return c.JSON(http.StatusCreated, cat)
}

// Update handles PATCH /v1/menu-categories/:id; only provided fields change.
func (h *CategoryHandler) Update(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "validation failed", "fields": map[string]string{"name": "name is required"}})
		}
		cat.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}
	if req.Color != nil {
		cat.Color = *req.Color
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := h.Categories.Update(ctx, cat); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	updated, err := h.Categories.GetByID(ctx, id, tid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	publishCatalog(c, "category", updated.ID, updated.Name, "updated")
	return c.JSON(http.StatusOK, updated)
}

// ToggleStatus handles PATCH /v1/menu-categories/:id/toggle-status and flips
// is_active in place, returning the new state.
func (h *CategoryHandler) ToggleStatus(c echo.Context) error {
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

	cat, err := h.Categories.ToggleStatus(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}

	publishCatalog(c, "category", cat.ID, cat.Name, "toggled")
	return c.JSON(http.StatusOK, cat)
}

// Delete handles DELETE /v1/menu-categories/:id. Categories that still have
// items refuse deletion with 409 so the dashboard can prompt the user to
// move the items first.
func (h *CategoryHandler) Delete(c echo.Context) error {
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

	cat, err := h.Categories.GetByID(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if err := h.Categories.Delete(ctx, id, tid); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "category still has menu items"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	publishCatalog(c, "category", cat.ID, cat.Name, "deleted")
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted"})
}
