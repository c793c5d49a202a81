package http

import (
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/skytag/internal/pkg/logging"
)

// RequestIDLogMiddleware scopes the logger for one ops request. The request ID goes into
// the logger carried by the user context, so the geotag service logs under it, and onto
// the active span so traces can be joined with access logs.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		if rid == "" {
			return c.Next()
		}

		ctx := c.UserContext()
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("http.request_id", rid))
		log := logging.FromContext(ctx).With("request_id", rid, "route", c.Method()+" "+c.Path())
		c.SetUserContext(logging.WithLogger(ctx, log))

		return c.Next()
	}
}
