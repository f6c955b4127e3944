// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/openpos/pos-admin/internal/handler"
	"github.com/openpos/pos-admin/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and uptime probes.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.  Unauthenticated
// operations live under /v1/auth; the profile endpoint requires a valid
// access token because clients use it to verify restored sessions.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a refresh_token body or a bearer token, so it
	// stays outside the JWT middleware.
	g.POST("/logout", a.Logout)

	// The bootstrap verification call: returns the authoritative user for
	// the presented access token, 401 otherwise.
	g.GET("/profile", a.Profile, middleware.JWTAuth(jwtSecret))
}
