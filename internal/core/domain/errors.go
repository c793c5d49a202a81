package domain

import "errors"

// Validation failures raised by the geotagging core. Callers match them with errors.Is.
var (
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrInvalidAltitude      = errors.New("invalid altitude")
	ErrDegenerateProjection = errors.New("degenerate projection")
	ErrInvalidAngle         = errors.New("invalid angle")
	ErrInvalidFOV           = errors.New("invalid field of view")
	ErrPixelOutOfFrame      = errors.New("pixel outside image frame")
	ErrGeotagUnavailable    = errors.New("geotag unavailable")
	ErrMissingID            = errors.New("missing identifier")
)

// IsValidationError reports whether err stems from bad input rather than infrastructure.
// Retrying such an error with the same input can never succeed.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidCoordinate,
		ErrInvalidAltitude,
		ErrDegenerateProjection,
		ErrInvalidAngle,
		ErrInvalidFOV,
		ErrPixelOutOfFrame,
		ErrGeotagUnavailable,
		ErrMissingID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
