package handler // handler defines http handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/openpos/pos-admin/internal/queue"
	queue_publisher "github.com/openpos/pos-admin/internal/service"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// reqContext derives a bounded context from the request.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the authenticated user id placed in context by the
// JWTAuth middleware.
func getUserID(c echo.Context) (uint64, error) {
	if v, ok := c.Get("user_id").(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// getTenantID extracts the authenticated tenant id placed in context by the
// JWTAuth middleware.
func getTenantID(c echo.Context) (uint64, error) {
	if v, ok := c.Get("tenant_id").(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errors.New("invalid tenant_id in context")
}

// publishCatalog emits a catalog.changed event in the background. Broker
// failures must not affect the response, so errors are swallowed by the
// publisher after logging.
func publishCatalog(c echo.Context, entity string, entityID uint64, name, action string) {
	uid, _ := getUserID(c)
	tid, _ := getTenantID(c)
	ev := queue.CatalogChangedEvent{
		TenantID:   tid,
		ActorID:    uid,
		Entity:     entity,
		EntityID:   entityID,
		EntityName: name,
		Action:     action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()
		_ = queue_publisher.PublishCatalogChanged(ctx, ev)
	}()
}

// bearerSubject parses the Authorization header directly and returns the
// token's subject.  Used by routes that run without the JWT middleware, such
// as logout, where an expired-but-well-formed header should still identify
// the caller for revocation.
func bearerSubject(c echo.Context, secret string) (uint64, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, false
	}
	raw := strings.TrimPrefix(auth, "Bearer ")
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	switch sub := claims["sub"].(type) {
	case float64:
		return uint64(sub), true
	case string:
		if n, err := strconv.ParseUint(sub, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
