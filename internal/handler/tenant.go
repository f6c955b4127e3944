package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openpos/pos-admin/internal/repository"
)

// TenantHandler exposes the restaurant profile endpoints.  Every operation
// is pinned to the tenant carried in the caller's token: an id in the URL
// that names another tenant is rejected, not looked up.
type TenantHandler struct {
	Tenants *repository.TenantRepo
}

func NewTenantHandler(t *repository.TenantRepo) *TenantHandler {
	if t == nil {
		panic("nil repository passed to NewTenantHandler")
	}
	return &TenantHandler{Tenants: t}
}

type updateTenantReq struct {
	Name      *string `json:"name"`
	Subdomain *string `json:"subdomain"`
	IsActive  *bool   `json:"isActive"`
}

// Current handles GET /v1/tenants/current and returns the caller's tenant.
func (h *TenantHandler) Current(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	t, err := h.Tenants.GetByID(ctx, tid)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, t)
}

// Get handles GET /v1/tenants/:id.
func (h *TenantHandler) Get(c echo.Context) error {
	tid, ok, err := h.ownTenantID(c)
	if !ok {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	t, err := h.Tenants.GetByID(ctx, tid)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, t)
}

// Update handles PATCH /v1/tenants/:id.  Only provided fields change.
func (h *TenantHandler) Update(c echo.Context) error {
	tid, ok, err := h.ownTenantID(c)
	if !ok {
		return err
	}

	var req updateTenantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	t, err := h.Tenants.GetByID(ctx, tid)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		t.Name = *req.Name
	}
	if req.Subdomain != nil {
		sub := strings.ToLower(strings.TrimSpace(*req.Subdomain))
		if sub == "" || !validSubdomain(sub) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid subdomain"})
		}
		t.Subdomain = sub
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := h.Tenants.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrSubdomainExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "subdomain already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Tenants.GetByID(ctx, tid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/tenants/:id and removes an empty tenant.
func (h *TenantHandler) Delete(c echo.Context) error {
	tid, ok, err := h.ownTenantID(c)
	if !ok {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Tenants.Delete(ctx, tid); err != nil {
		switch {
		case errors.Is(err, repository.ErrTenantNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "tenant still has users or menu data"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ownTenantID parses the :id param and verifies it names the caller's own
// tenant.  When it returns ok=false the error response has already been
// written and the handler should return the accompanying error value.
func (h *TenantHandler) ownTenantID(c echo.Context) (uint64, bool, error) {
	tid, err := getTenantID(c)
	if err != nil {
		return 0, false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if id != tid {
		return 0, false, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return tid, true, nil
}
