package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/skytag/internal/core/usecases"
)

// ErrorBody is the JSON envelope for failed ops requests.
type ErrorBody struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorDetail says what went wrong. Reason names the rejected input (altitude, fov,
// degenerate, ...) for geotagging failures, so callers can fix the telemetry they sent.
type ErrorDetail struct {
	Code    string `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

func writeError(c *fiber.Ctx, status int, detail ErrorDetail) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(ErrorBody{Error: detail, RequestID: reqID})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return writeError(c, fiber.StatusBadRequest, ErrorDetail{Code: "bad_request", Message: msg})
}

// errRejected answers a capture or sighting the engine refused to project.
func errRejected(c *fiber.Ctx, status int, err error) error {
	return writeError(c, status, ErrorDetail{
		Code:    "rejected",
		Reason:  usecases.FailureKind(err),
		Message: err.Error(),
	})
}

func errRateLimited(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusTooManyRequests, ErrorDetail{
		Code:    "rate_limited",
		Message: "manual geotagging is limited to 60 requests per minute",
	})
}

func errInternal(c *fiber.Ctx, msg string) error {
	return writeError(c, fiber.StatusInternalServerError, ErrorDetail{Code: "internal_error", Message: msg})
}
