package handler

import (
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openpos/pos-admin/internal/config"
	"github.com/openpos/pos-admin/internal/model"
	"github.com/openpos/pos-admin/internal/repository"
	"github.com/openpos/pos-admin/internal/utils"
)

// UserHandler exposes staff management endpoints.  All operations are
// scoped to the caller's tenant; ids belonging to other tenants behave
// like missing rows.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
	if u == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Cfg: cfg, Users: u}
}

type createUserReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type updateUserReq struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"isActive"`
}

// List handles GET /v1/users and returns all staff of the tenant.
func (h *UserHandler) List(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Users.ListByTenant(ctx, tid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, users)
}

// Count handles GET /v1/users/count, reporting usage against the per-tenant
// staff cap so the dashboard can warn before the limit is hit.
func (h *UserHandler) Count(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	n, err := h.Users.CountByTenant(ctx, tid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n, "limit": h.Cfg.StaffLimit})
}

// Me handles GET /v1/users/profile/me, the profile page's data source.
func (h *UserHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// Get handles GET /v1/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
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

	u, err := h.Users.GetByIDAndTenant(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, u)
}

// Create handles POST /v1/users and adds a staff account to the tenant.
// The staff cap is enforced here rather than in the repository so the
// response can carry the limit for the UI message.
func (h *UserHandler) Create(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.FirstName) == "" {
		fields["firstName"] = "first name is required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		fields["lastName"] = "last name is required"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		fields["email"] = "a valid email is required"
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		fields["password"] = err.Error()
	}
	role := model.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if role == "" {
		role = model.RoleWaiter // sensible default for new staff
	}
	if !role.Valid() {
		fields["role"] = "unknown role"
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	n, err := h.Users.CountByTenant(ctx, tid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if n >= h.Cfg.StaffLimit {
		return c.JSON(http.StatusConflict, echo.Map{"error": "staff limit reached", "limit": h.Cfg.StaffLimit})
	}

	id, err := h.Users.Create(ctx, tid, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName),
		req.Email, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	u, err := h.Users.GetByIDAndTenant(ctx, id, tid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusCreated, u)
}

// Update handles PATCH /v1/users/:id.  Only provided fields change; the
// last active admin cannot demote or deactivate itself into a lockout.
func (h *UserHandler) Update(c echo.Context) error {
	tid, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByIDAndTenant(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	wasActiveAdmin := u.Role == model.RoleAdmin && u.IsActive

	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(strings.TrimSpace(*req.Email)); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "validation failed", "fields": map[string]string{"email": "a valid email is required"}})
		}
		u.Email = *req.Email
	}
	if req.Password != nil {
		if err := utils.ValidatePassword(*req.Password); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "validation failed", "fields": map[string]string{"password": err.Error()}})
		}
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
		}
		u.PasswordHash = hash
	}
	if req.Role != nil {
		role := model.Role(strings.ToLower(strings.TrimSpace(*req.Role)))
		if !role.Valid() {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "validation failed", "fields": map[string]string{"role": "unknown role"}})
		}
		u.Role = role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if wasActiveAdmin && (u.Role != model.RoleAdmin || !u.IsActive) {
		if ok, err := h.ensureAnotherAdmin(c, tid, id); !ok {
			return err
		}
	}

	if err := h.Users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	updated, err := h.Users.GetByIDAndTenant(ctx, id, tid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Deactivate handles DELETE /v1/users/:id as a soft delete.
func (h *UserHandler) Deactivate(c echo.Context) error {
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

	target, err := h.Users.GetByIDAndTenant(ctx, id, tid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if target.Role == model.RoleAdmin && target.IsActive {
		if ok, err := h.ensureAnotherAdmin(c, tid, id); !ok {
			return err
		}
	}

	if err := h.Users.Deactivate(ctx, id, tid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deactivated"})
}

// ensureAnotherAdmin reports whether an active admin besides excludeID
// remains in the tenant.  On ok == false the response has already been
// written and the returned error must be passed straight back to echo.
func (h *UserHandler) ensureAnotherAdmin(c echo.Context, tenantID, excludeID uint64) (bool, error) {
	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Users.ListByTenant(ctx, tenantID)
	if err != nil {
		return false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	for _, u := range users {
		if u.ID != excludeID && u.Role == model.RoleAdmin && u.IsActive {
			return true, nil
		}
	}
	return false, c.JSON(http.StatusConflict, echo.Map{"error": "tenant must keep at least one active admin"})
}
