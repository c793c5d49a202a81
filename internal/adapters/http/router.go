package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/samirrijal/skytag/internal/pkg/metrics"
)

// SetupRoutes registers the ops routes: probes, metrics and manual geotagging.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	if deps.Geotag == nil {
		return
	}

	// Manual geotagging, rate limited: 60 requests per minute per IP
	v1 := app.Group("/v1", limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: errRateLimited,
	}))
	v1.Post("/footprints", timeout.NewWithContext(FootprintHandler(deps), 10*time.Second))
	v1.Post("/geotags", timeout.NewWithContext(SightingHandler(deps), 10*time.Second))
	v1.Get("/bearing", BearingHandler(deps))
}
