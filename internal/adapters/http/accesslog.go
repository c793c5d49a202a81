package http

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/skytag/internal/pkg/logging"
)

// AccessLogMiddleware logs HTTP requests with structured slog output.
// Probe and scrape endpoints log at debug so they do not drown the worker's own logs.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		status := c.Response().StatusCode()
		attrs := []slog.Attr{
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.String("latency", time.Since(start).String()),
			slog.Int("bytes_out", len(c.Response().Body())),
		}

		level := slog.LevelInfo
		switch {
		case err != nil:
			attrs = append(attrs, slog.String("error", err.Error()))
			level = slog.LevelError
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		case isProbe(path):
			level = slog.LevelDebug
		}

		ctx := c.UserContext()
		logging.FromContext(ctx).LogAttrs(ctx, level, fmt.Sprintf("%s %s", method, path), attrs...)

		return err
	}
}

func isProbe(path string) bool {
	return path == "/metrics" || path == "/v1/health" || path == "/v1/ready"
}
