package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/skytag/internal/core/domain"
	"github.com/samirrijal/skytag/internal/pkg/logging"
)

// FootprintHandler computes and publishes the footprint of a capture posted as JSON.
// Operators use it to re-inject a capture that was dead-lettered on the bus.
func FootprintHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var capture domain.Capture
		if err := c.BodyParser(&capture); err != nil {
			return errBadRequest(c, "invalid capture body: "+err.Error())
		}

		fp, err := deps.Geotag.ProcessCapture(c.UserContext(), &capture)
		if err != nil {
			return geotagError(c, err)
		}
		return c.JSON(fp)
	}
}

// SightingHandler geotags and publishes a sighting posted together with its capture.
func SightingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ev domain.SightingEvent
		if err := c.BodyParser(&ev); err != nil {
			return errBadRequest(c, "invalid sighting body: "+err.Error())
		}

		tag, err := deps.Geotag.LocateSighting(c.UserContext(), &ev)
		if err != nil {
			return geotagError(c, err)
		}
		return c.JSON(tag)
	}
}

// BearingHandler classifies ?radians= into its compass sector.
func BearingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := strconv.ParseFloat(c.Query("radians"), 64)
		if err != nil {
			return errBadRequest(c, "radians must be a number")
		}
		dir, err := deps.Geotag.ClassifyBearing(r)
		if err != nil {
			return geotagError(c, err)
		}
		return c.JSON(fiber.Map{
			"radians":   domain.NormalizeRadians(r),
			"degrees":   domain.RadiansToDegrees(domain.NormalizeRadians(r)),
			"direction": dir,
			"name":      dir.Name(),
		})
	}
}

func geotagError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrMissingID):
		return errRejected(c, fiber.StatusBadRequest, err)
	case domain.IsValidationError(err):
		return errRejected(c, fiber.StatusUnprocessableEntity, err)
	default:
		logging.FromContext(c.UserContext()).Error("geotag request failed", "error", err)
		return errInternal(c, "geotagging failed")
	}
}
