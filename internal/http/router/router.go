// Package router assembles the Gin engine from the registered modules.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "storytrain_landing/internal/http"
	"storytrain_landing/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const readyTimeout = 2 * time.Second

// New builds the engine: global middleware, health routes, then every
// module's routes.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/api/ready", func(c *gin.Context) {
		if app.Health == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if err := app.Health.Ping(ctx); err != nil {
			httpkit.Error(c, http.StatusServiceUnavailable, "row store not ready", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	limiter := httpkit.NewIPRateLimiter(rate.Limit(app.Config.GetRateLimitRPS()), app.Config.GetRateLimitBurst(), app.Logger)
	v1 := engine.Group("/api/v1")
	v1.Use(limiter.RateLimit())

	scrollLimiter := httpkit.NewIPRateLimiter(rate.Limit(app.Config.GetScrollRateLimitRPS()), app.Config.GetScrollRateLimitBurst(), app.Logger)
	telemetry := engine.Group("/api/v1")
	telemetry.Use(scrollLimiter.RateLimit())

	routerCtx := &apphttp.RouterContext{
		Engine:    engine,
		V1:        v1,
		Telemetry: telemetry,
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Debug("module routes registered", "module", module.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		c.AllowAllOrigins = true
		return c
	}
	origins := cfg.GetCORSOrigins()
	if len(origins) == 0 {
		// cors.New rejects a config without any origin policy.
		c.AllowOriginFunc = func(string) bool { return false }
		return c
	}
	c.AllowOrigins = origins
	return c
}
