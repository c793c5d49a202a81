// Package geotag projects image pixels onto the ground beneath an aerial camera.
//
// The ground is treated as a flat plane at the vehicle's altitude below it, and the
// offset from the vehicle is converted to latitude/longitude with a local tangent-plane
// approximation. Both are only valid for footprint-scale distances.
package geotag

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/skytag/internal/core/domain"
	"github.com/samirrijal/skytag/internal/pkg/geospatial"
)

// DefaultMaxOffNadir is the steepest ray, measured from straight down, that is still
// projected. Beyond it the tangent blows up and a small attitude error moves the ground
// point by kilometres.
const DefaultMaxOffNadir = 85.0

// LensModel selects how pixel position maps to viewing angle.
type LensModel string

const (
	// LensLinearAngle spreads the field of view evenly across the pixels.
	LensLinearAngle LensModel = "linear"
	// LensPinhole is a rectilinear pinhole: the tangent of the angle is linear in pixels.
	LensPinhole LensModel = "pinhole"
)

// Config describes the reference image and projection constants.
type Config struct {
	ImageWidth      float64   // pixels
	ImageHeight     float64   // pixels
	MetersPerDegree float64   // length of one degree of latitude
	MaxOffNadir     float64   // degrees, in (0, 90)
	Lens            LensModel // defaults to LensLinearAngle
}

// DefaultConfig matches the survey camera at full resolution.
func DefaultConfig() Config {
	return Config{
		ImageWidth:      5456,
		ImageHeight:     3632,
		MetersPerDegree: geospatial.MetersPerDegree,
		MaxOffNadir:     DefaultMaxOffNadir,
		Lens:            LensLinearAngle,
	}
}

// Attitude is the camera orientation in radians: gimbal roll and pitch, vehicle yaw
// clockwise from north.
type Attitude struct {
	Roll  float64
	Pitch float64
	Yaw   float64
}

// AttitudeFromTelemetry converts the degree-valued telemetry angles to radians.
func AttitudeFromTelemetry(t domain.Telemetry) Attitude {
	return Attitude{
		Roll:  domain.DegreesToRadians(t.Gimbal.Roll),
		Pitch: domain.DegreesToRadians(t.Gimbal.Pitch),
		Yaw:   domain.DegreesToRadians(t.PlaneYaw),
	}
}

// Engine maps pixels to ground coordinates. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	cfg         Config
	maxOffNadir float64 // radians
}

// NewEngine validates cfg and builds an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Lens == "" {
		cfg.Lens = LensLinearAngle
	}
	switch {
	case !(cfg.ImageWidth > 0) || !(cfg.ImageHeight > 0):
		return nil, fmt.Errorf("image resolution must be positive, got %vx%v", cfg.ImageWidth, cfg.ImageHeight)
	case !(cfg.MetersPerDegree > 0):
		return nil, fmt.Errorf("meters per degree must be positive, got %v", cfg.MetersPerDegree)
	case !(cfg.MaxOffNadir > 0 && cfg.MaxOffNadir < 90):
		return nil, fmt.Errorf("max off-nadir must be within (0, 90) degrees, got %v", cfg.MaxOffNadir)
	case cfg.Lens != LensLinearAngle && cfg.Lens != LensPinhole:
		return nil, fmt.Errorf("unknown lens model %q", cfg.Lens)
	}
	return &Engine{cfg: cfg, maxOffNadir: domain.DegreesToRadians(cfg.MaxOffNadir)}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// PixelLocation returns the ground location seen at pixel (x, y). The pixel origin is
// the top-left of the image and the top edge faces the direction of travel.
func (e *Engine) PixelLocation(center domain.GpsLocation, altitude float64, fov domain.FOV, x, y float64, att Attitude) (domain.GpsLocation, error) {
	if err := center.Validate(); err != nil {
		return domain.GpsLocation{}, err
	}
	if math.IsNaN(altitude) || math.IsInf(altitude, 0) || altitude <= 0 {
		return domain.GpsLocation{}, fmt.Errorf("%w: altitude %v must be positive", domain.ErrInvalidAltitude, altitude)
	}
	if err := fov.Validate(); err != nil {
		return domain.GpsLocation{}, err
	}
	if !(x >= 0 && x <= e.cfg.ImageWidth && y >= 0 && y <= e.cfg.ImageHeight) {
		return domain.GpsLocation{}, fmt.Errorf("%w: (%v, %v) not within %vx%v",
			domain.ErrPixelOutOfFrame, x, y, e.cfg.ImageWidth, e.cfg.ImageHeight)
	}
	for _, a := range []float64{att.Roll, att.Pitch, att.Yaw} {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return domain.GpsLocation{}, fmt.Errorf("%w: attitude %+v is not finite", domain.ErrInvalidAngle, att)
		}
	}

	east, north, down := rotate(cameraToLocal(att), e.cameraRay(fov, x, y))

	offNadir := math.Atan2(math.Hypot(east, north), down)
	if down <= 0 || offNadir > e.maxOffNadir {
		return domain.GpsLocation{}, fmt.Errorf("%w: ray is %.2f° off nadir, limit %.2f°",
			domain.ErrDegenerateProjection, domain.RadiansToDegrees(offNadir), e.cfg.MaxOffNadir)
	}

	// Stretch the ray until it has descended the full altitude.
	scale := altitude / down
	return center.Translate(east*scale, north*scale, e.cfg.MetersPerDegree)
}

// cameraRay returns the viewing direction through (x, y) with a unit down component.
func (e *Engine) cameraRay(fov domain.FOV, x, y float64) [3]float64 {
	// Normalised offsets from the boresight in [-0.5, 0.5]; image rows grow downward.
	nx := x/e.cfg.ImageWidth - 0.5
	ny := 0.5 - y/e.cfg.ImageHeight

	hfov := domain.DegreesToRadians(fov.Horizontal)
	vfov := domain.DegreesToRadians(fov.Vertical)

	if e.cfg.Lens == LensPinhole {
		return [3]float64{
			2 * nx * math.Tan(hfov/2),
			2 * ny * math.Tan(vfov/2),
			1,
		}
	}
	return [3]float64{math.Tan(nx * hfov), math.Tan(ny * vfov), 1}
}

// cornerPixel returns the pixel coordinates of corner c.
func (e *Engine) cornerPixel(c domain.Corner) (x, y float64) {
	switch c {
	case domain.TopRight:
		return e.cfg.ImageWidth, 0
	case domain.BottomLeft:
		return 0, e.cfg.ImageHeight
	case domain.BottomRight:
		return e.cfg.ImageWidth, e.cfg.ImageHeight
	}
	return 0, 0
}

// Corners projects the four image corners of a capture. The corners are computed
// concurrently; if any of them fails the whole footprint fails.
func (e *Engine) Corners(t domain.Telemetry, fov domain.FOV) (domain.Footprint, error) {
	if err := t.Validate(); err != nil {
		return domain.Footprint{}, err
	}
	att := AttitudeFromTelemetry(t)

	var locs [len(domain.Corners)]domain.GpsLocation
	var g errgroup.Group
	for i, c := range domain.Corners {
		g.Go(func() error {
			x, y := e.cornerPixel(c)
			loc, err := e.PixelLocation(t.GPS, t.Altitude, fov, x, y, att)
			if err != nil {
				return fmt.Errorf("%s corner: %w", c, err)
			}
			locs[i] = loc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Footprint{}, err
	}

	return domain.Footprint{
		TopLeft:     locs[0],
		TopRight:    locs[1],
		BottomLeft:  locs[2],
		BottomRight: locs[3],
	}, nil
}

// Locate geotags a sighting on a capture: its ground location plus the heading it faces,
// which is the vehicle yaw plus the sighting's rotation from the image top.
func (e *Engine) Locate(c domain.Capture, s domain.TargetSighting) (domain.Geotag, error) {
	if c.ImgMode == domain.ImgModeOffAxis || s.OffAxis {
		return domain.Geotag{}, fmt.Errorf("%w: sighting %s is off-axis", domain.ErrGeotagUnavailable, s.ID)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return domain.Geotag{}, err
	}
	att := AttitudeFromTelemetry(c.Telemetry)
	loc, err := e.PixelLocation(c.Telemetry.GPS, c.Telemetry.Altitude, c.FOV, s.PixelX, s.PixelY, att)
	if err != nil {
		return domain.Geotag{}, err
	}
	if math.IsNaN(s.RadiansFromTop) || math.IsInf(s.RadiansFromTop, 0) {
		return domain.Geotag{}, fmt.Errorf("%w: sighting rotation is not finite", domain.ErrInvalidAngle)
	}
	heading := domain.AddRadians(att.Yaw, s.RadiansFromTop)
	dir, err := domain.CardinalFromRadians(heading)
	if err != nil {
		return domain.Geotag{}, err
	}
	return domain.Geotag{
		SightingID:                s.ID,
		Location:                  &loc,
		ClockwiseRadiansFromNorth: &heading,
		Direction:                 dir,
	}, nil
}
