package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Check is the state of one dependency of the geotagger.
type Check struct {
	Status   string `json:"status"` // ok, down, skipped
	Required bool   `json:"required"`
	Latency  string `json:"latency,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Readiness is the /v1/ready response.
type Readiness struct {
	Ready  bool             `json:"ready"`
	Checks map[string]Check `json:"checks"`
}

// HealthHandler reports liveness together with the projection settings the worker runs
// with, so a misconfigured resolution or lens is visible without reading its config.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	return func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
			"version": version,
		}
		if deps.Geotag != nil {
			cfg := deps.Geotag.EngineConfig()
			body["engine"] = fiber.Map{
				"resolution":    fmt.Sprintf("%vx%v", cfg.ImageWidth, cfg.ImageHeight),
				"lens":          cfg.Lens,
				"max_off_nadir": cfg.MaxOffNadir,
			}
		}
		return c.JSON(body)
	}
}

// ReadyHandler reports whether captures can flow. The bus is required; the footprint
// cache is not, since losing it only costs reprojection.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		r := Readiness{Ready: true, Checks: map[string]Check{}}

		bus := Check{Required: true, Status: "ok"}
		switch {
		case deps.NATS == nil:
			bus.Status, bus.Error = "down", "not configured"
		case !deps.NATS.IsConnected():
			bus.Status, bus.Error = "down", deps.NATS.Status().String()
		}
		r.Checks["nats"] = bus

		cache := Check{Status: "skipped"}
		if deps.Cache != nil {
			start := time.Now()
			err := deps.Cache.Ping(ctx)
			cache.Latency = time.Since(start).String()
			cache.Status = "ok"
			if err != nil {
				cache.Status, cache.Error = "down", err.Error()
			}
		}
		r.Checks["cache"] = cache

		for _, chk := range r.Checks {
			if chk.Required && chk.Status != "ok" {
				r.Ready = false
			}
		}

		code := fiber.StatusOK
		if !r.Ready {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(r)
	}
}
