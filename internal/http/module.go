// Package http provides HTTP server infrastructure including the Module interface
// that all modules must implement for route registration.
package http

import (
	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
// Each module implements this interface to encapsulate its own route setup,
// keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router context.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
type RouterContext struct {
	// Engine is the root Gin engine for modules that serve pages outside /api.
	Engine *gin.Engine
	// V1 is the rate limited /api/v1 route group.
	V1 *gin.RouterGroup
	// Telemetry is /api/v1 behind its own limiter, for high frequency reports
	// such as scroll positions.
	Telemetry *gin.RouterGroup
}
