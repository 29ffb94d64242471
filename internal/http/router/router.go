// Package router assembles the gin engine from the application modules.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "leadqualification_backend/internal/http"
	"leadqualification_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
	"golang.org/x/time/rate"
)

const (
	readinessTimeout   = 3 * time.Second
	goroutineThreshold = 1000
)

// New builds the HTTP engine: shared middleware, health and metrics endpoints,
// then every module's routes.
func New(app *apphttp.App) *gin.Engine {
	cfg := app.Config

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(httpkit.CORS(cfg))

	if cfg.IsMetricsEnabled() {
		engine.Use(httpkit.Metrics())
		engine.GET("/metrics", httpkit.MetricsHandler())
	}

	if rps := cfg.GetRateLimitRPS(); rps > 0 {
		limiter := httpkit.NewIPRateLimiter(rate.Limit(rps), cfg.GetRateLimitBurst(), app.Logger)
		engine.Use(limiter.RateLimit())
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	health := newHealthHandler(app.Health)
	engine.GET("/live", gin.WrapF(health.LiveEndpoint))
	engine.GET("/ready", gin.WrapF(health.ReadyEndpoint))

	routerCtx := &apphttp.RouterContext{
		Engine: engine,
		Root:   &engine.RouterGroup,
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Info("registered module", "module", module.Name())
	}

	return engine
}

func newHealthHandler(store apphttp.HealthChecker) healthcheck.Handler {
	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(goroutineThreshold))

	if store != nil {
		health.AddReadinessCheck("store", healthcheck.Timeout(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), readinessTimeout)
			defer cancel()
			return store.Ping(ctx)
		}, readinessTimeout))
	}
	return health
}
