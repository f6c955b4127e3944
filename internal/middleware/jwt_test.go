package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpos/pos-admin/internal/model"
	"github.com/openpos/pos-admin/internal/utils"
)

const testSecret = "unit-test-secret"

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 42, 9, "manager", 15)
	require.NoError(t, err)

	rec, c := runJWT(t, "Bearer "+at.Token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), c.Get("user_id"))
	assert.Equal(t, uint64(9), c.Get("tenant_id"))
	assert.Equal(t, "manager", c.Get("role"))
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _ := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 42, 9, "manager", 15)
	require.NoError(t, err)

	rec, _ := runJWT(t, "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 42, 9, "manager", -1)
	require.NoError(t, err)

	rec, _ := runJWT(t, "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthGarbageToken(t *testing.T) {
	rec, _ := runJWT(t, "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func runRole(t *testing.T, role string, allowed ...model.Role) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	h := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireRole(t *testing.T) {
	cases := map[string]struct {
		role    string
		allowed []model.Role
		want    int
	}{
		"allowed":          {"manager", []model.Role{model.RoleAdmin, model.RoleManager}, http.StatusOK},
		"disallowed":       {"waiter", []model.Role{model.RoleAdmin}, http.StatusForbidden},
		"unknown role":     {"superuser", []model.Role{model.RoleAdmin}, http.StatusForbidden},
		"missing role":     {"", []model.Role{model.RoleAdmin}, http.StatusForbidden},
		"kitchen on admin": {"kitchen", []model.Role{model.RoleAdmin}, http.StatusForbidden},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := runRole(t, tc.role, tc.allowed...)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
