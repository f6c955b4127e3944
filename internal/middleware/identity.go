package middleware

// identity.go holds helpers shared across middleware files: claim value
// normalization for the JWT middleware and the identity strings the rate
// limiter keys on.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// claimUint64 converts a JWT claim value into a uint64.  Numeric claims come
// back from the JSON decoder as float64; some issuers encode ids as strings.
func claimUint64(v interface{}) (uint64, bool) {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case uint64:
		return t, true
	case int64:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// currentUserID returns the authenticated user id as a string for rate-limit
// key construction, or "anon" for unauthenticated requests.
func currentUserID(c echo.Context) string {
	if v, ok := c.Get("user_id").(uint64); ok && v != 0 {
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}

// currentTenantID returns the authenticated tenant id as a string for cache
// key construction, or "public" when the request carries no token.
func currentTenantID(c echo.Context) string {
	if v, ok := c.Get("tenant_id").(uint64); ok && v != 0 {
		return strconv.FormatUint(v, 10)
	}
	return "public"
}
