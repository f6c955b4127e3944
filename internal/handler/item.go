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

// ItemHandler exposes menu item CRUD plus the availability toggle used by
// the kitchen view.
type ItemHandler struct {
	Items *repository.ItemRepo
}

func NewItemHandler(r *repository.ItemRepo) *ItemHandler {
	if r == nil {
		panic("nil repository passed to NewItemHandler")
	}
	return &ItemHandler{Items: r}
}

type itemReq struct {
	CategoryID      *uint64 `json:"categoryId"`
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	PriceCents      *uint32 `json:"priceCents"`
	ImageURL        *string `json:"imageUrl"`
	PreparationTime *int    `json:"preparationTime"`
	IsAvailable     *bool   `json:"isAvailable"`
}

// List handles GET /v1/menu-items. Optional query params: category (id),
// available (true/false) and q (name substring).
func (h *ItemHandler) List(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var f repository.ItemFilter
	if raw := c.QueryParam("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category filter"})
		}
		f.CategoryID = id
	}
	if raw := c.QueryParam("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid available filter"})
		}
		f.Available = &v
	}
	f.Search = strings.TrimSpace(c.QueryParam("q"))

	ctx, cancel := reqContext(c)
	defer cancel()

	items, err := h.Items.List(ctx, tid, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/menu-items/:id and includes assigned modifiers.
func (h *ItemHandler) Get(c echo.Context) error {
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

	it, err := h.Items.GetByID(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, it)
}

// Create handles POST /v1/menu-items. The category must belong to the
// caller's tenant.
func (h *ItemHandler) Create(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	fields := map[string]string{}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		fields["name"] = "name is required"
	}
	if req.CategoryID == nil || *req.CategoryID == 0 {
		fields["categoryId"] = "category is required"
	}
	if req.PriceCents == nil {
		fields["priceCents"] = "price is required"
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": fields})
	}

	it := model.MenuItem{
		TenantID:    tid,
		CategoryID:  *req.CategoryID,
		Name:        strings.TrimSpace(*req.Name),
		PriceCents:  *req.PriceCents,
		IsAvailable: true,
	}
	if req.Description != nil {
		it.Description = *req.Description
	}
	if req.ImageURL != nil {
		it.ImageURL = *req.ImageURL
	}
	if req.PreparationTime != nil {
		it.PreparationTime = *req.PreparationTime
	}
	if req.IsAvailable != nil {
		it.IsAvailable = *req.IsAvailable
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Items.Create(ctx, &it); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "validation failed", "fields": map[string]string{"categoryId": "unknown category"}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create item failed"})
	}

	publishCatalog(c, "item", it.ID, it.Name, "created")
	return c.JSON(http.StatusCreated, it)
}

// Update handles PATCH /v1/menu-items/:id; only provided fields change.
func (h *ItemHandler) Update(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	it, err := h.Items.GetByID(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "validation failed", "fields": map[string]string{"name": "name is required"}})
		}
		it.Name = strings.TrimSpace(*req.Name)
	}
	if req.CategoryID != nil {
		it.CategoryID = *req.CategoryID
	}
	if req.Description != nil {
		it.Description = *req.Description
	}
	if req.PriceCents != nil {
		it.PriceCents = *req.PriceCents
	}
	if req.ImageURL != nil {
		it.ImageURL = *req.ImageURL
	}
	if req.PreparationTime != nil {
		it.PreparationTime = *req.PreparationTime
	}
	if req.IsAvailable != nil {
		it.IsAvailable = *req.IsAvailable
	}

	if err := h.Items.Update(ctx, it); err != nil {
		switch {
		case errors.Is(err, repository.ErrItemNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		case errors.Is(err, repository.ErrCategoryNotFound):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "validation failed", "fields": map[string]string{"categoryId": "unknown category"}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	updated, err := h.Items.GetByID(ctx, id, tid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	publishCatalog(c, "item", updated.ID, updated.Name, "updated")
	return c.JSON(http.StatusOK, updated)
}

// ToggleAvailability handles PATCH /v1/menu-items/:id/toggle-availability.
func (h *ItemHandler) ToggleAvailability(c echo.Context) error {
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

	it, err := h.Items.ToggleAvailability(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}

	publishCatalog(c, "item", it.ID, it.Name, "toggled")
	return c.JSON(http.StatusOK, it)
}

// Delete handles DELETE /v1/menu-items/:id. Modifier assignments cascade.
func (h *ItemHandler) Delete(c echo.Context) error {
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

	it, err := h.Items.GetByID(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if err := h.Items.Delete(ctx, id, tid); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	publishCatalog(c, "item", it.ID, it.Name, "deleted")
	return c.JSON(http.StatusOK, echo.Map{"message": "menu item deleted"})
}
