// Package landing is the HTTP surface of the landing page. The shell calls it
// on page load, scroll, navigation clicks, form edits and form submission.
package landing

import (
	apphttp "storytrain_landing/internal/http"
	"storytrain_landing/internal/page"
	"storytrain_landing/platform/logger"
	"storytrain_landing/platform/validator"
)

// Module is the landing module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the landing module over an existing session registry.
func NewModule(registry *page.Registry, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(registry, val, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "landing"
}

// RegisterRoutes mounts the page session routes under /api/v1/sessions.
// Scroll reports go through the telemetry limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	telemetry := ctx.Telemetry
	if telemetry == nil {
		telemetry = ctx.V1
	}
	telemetry.POST("/sessions/:sessionId/scroll", m.handler.HandleScroll)

	sessions := ctx.V1.Group("/sessions")
	sessions.POST("", m.handler.HandleCreateSession)
	sessions.DELETE("/:sessionId", m.handler.HandleCloseSession)
	sessions.POST("/:sessionId/clicks", m.handler.HandleClick)
	sessions.PATCH("/:sessionId/draft", m.handler.HandleUpdateDraft)
	sessions.POST("/:sessionId/lead", m.handler.HandleSubmitLead)
	sessions.GET("/:sessionId/notifications", m.handler.HandleNotifications)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
