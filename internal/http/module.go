// Package http provides HTTP server infrastructure including the Module interface
// that all domain modules must implement for route registration.
package http

import (
	"appraisal_portal_backend/platform/config"

	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router groups.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
type RouterContext struct {
	// Engine is the root Gin engine.
	Engine *gin.Engine
	// V1 is the bare /api/v1 group.
	V1 *gin.RouterGroup
	// Public is /api/v1 behind the per-IP rate limiter. Intake routes live here.
	Public *gin.RouterGroup
	// Admin is /api/v1/admin behind JWT auth and the admin role.
	Admin *gin.RouterGroup
	// Config is the JWT configuration for modules needing extra auth checks.
	Config config.JWTConfig
}
