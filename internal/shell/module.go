// Package shell serves the presentational page: the landing document and the
// script that forwards page load, scroll, click, draft and submit events to
// the landing API.
package shell

import (
	"embed"
	"io/fs"
	"net/http"

	apphttp "storytrain_landing/internal/http"
	"storytrain_landing/platform/logger"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFS embed.FS

// Module is the shell module implementing http.Module.
type Module struct {
	log    *logger.Logger
	static fs.FS
}

// NewModule creates the shell module.
func NewModule(log *logger.Logger) *Module {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("shell: embedded static assets missing: " + err.Error())
	}
	return &Module{log: log, static: sub}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "shell"
}

// RegisterRoutes mounts the page and its static assets on the engine root.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.GET("/", m.HandleLandingPage)
	ctx.Engine.StaticFS("/static", http.FS(m.static))
}

// HandleLandingPage renders the landing document.
// GET /
func (m *Module) HandleLandingPage(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	if err := LandingPage().Render(c.Writer); err != nil {
		m.log.Error("render landing page", "error", err)
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
