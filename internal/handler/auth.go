package handler

import (
	"errors"    // sentinel error comparisons
	"net/http"  // HTTP status codes and primitives
	"net/mail"  // RFC 5322 address validation for emails
	"strings"   // string normalization utilities

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/openpos/pos-admin/internal/config"     // app configuration
	"github.com/openpos/pos-admin/internal/repository" // DB repositories
	"github.com/openpos/pos-admin/internal/utils"      // hashing and token issuing helpers
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg     config.Config
	Users   *repository.UserRepo
	Tenants *repository.TenantRepo
	Tokens  *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TenantRepo, tok *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tenants: t, Tokens: tok}
}

// ----- DTOs -----

type registerReq struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RestaurantName string `json:"restaurantName"`
	Subdomain      string `json:"subdomain"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

// authResp is the shape the dashboard client consumes: the access token it
// stores as its bearer credential, the refresh token it may use for session
// extension, and the user snapshot it persists locally.
type authResp struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	User         interface{} `json:"user"`
}

// validateRegister returns per-field problems, empty when the request is
// acceptable.  Field names match the JSON keys so clients can attach the
// message to the right input.
func validateRegister(req registerReq) map[string]string {
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
	if strings.TrimSpace(req.RestaurantName) == "" {
		fields["restaurantName"] = "restaurant name is required"
	}
	sub := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if sub == "" {
		fields["subdomain"] = "subdomain is required"
	} else if !validSubdomain(sub) {
		fields["subdomain"] = "subdomain may contain lowercase letters, digits and hyphens only"
	}
	return fields
}

func validSubdomain(s string) bool {
	if len(s) > 63 || s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '-' {
			continue
		}
		return false
	}
	return true
}

// Register creates a new tenant with its first admin user and returns tokens
// immediately so the dashboard lands straight on the authenticated shell.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := validateRegister(req); len(fields) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	tenant, user, err := h.Tenants.Register(ctx, repository.RegisterParams{
		RestaurantName: req.RestaurantName,
		Subdomain:      req.Subdomain,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          req.Email,
		Password:       req.Password,
		BcryptCost:     h.Cfg.BcryptCost,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSubdomainExists):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "validation failed", "fields": map[string]string{"subdomain": "subdomain already exists"}})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "validation failed", "fields": map[string]string{"email": "email already exists"}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create tenant failed"})
	}
	_ = tenant // the tenant id travels inside the user and the JWT

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.TenantID, string(user.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, user.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw, // raw back to client
		User:         user,
	})
}

// Login verifies credentials and returns a new token pair.  Inactive
// accounts are rejected with the same message as bad credentials so the
// endpoint does not reveal which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.TenantID, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw,
		User:         u,
	})
}

// Profile returns the authoritative user record for the bearer token.  The
// dashboard calls this once at startup to verify its locally persisted
// session snapshot; any non-2xx answer makes the client log itself out.
func (h *AuthHandler) Profile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !u.IsActive {
		// Deactivated accounts must not keep a working session.
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, u)
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqContext(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil || !u.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.TenantID, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		AccessToken:  access.Token,
		RefreshToken: newRef.Raw,
		User:         u,
	})
}

// Logout revokes refresh tokens.  With a bearer token and no body it ends
// every session of the user; with a refresh token in the body it ends that
// single session.  The route carries no JWT middleware so a client whose
// access token already expired can still log out.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := reqContext(c)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}

	// No refresh token: fall back to the Authorization header and revoke all
	// of the user's sessions.
	if uid, ok := bearerSubject(c, h.Cfg.JWTSecret); ok {
		if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
}
