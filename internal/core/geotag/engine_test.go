package geotag

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/skytag/internal/core/domain"
)

const tol = 1e-9

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Config{
		ImageWidth:      4000,
		ImageHeight:     3000,
		MetersPerDegree: 111320,
		MaxOffNadir:     DefaultMaxOffNadir,
	})
	require.NoError(t, err)
	return e
}

func testTelemetry() domain.Telemetry {
	return domain.Telemetry{
		GPS:      domain.GpsLocation{Latitude: 42.0, Longitude: -76.0},
		Altitude: 100,
	}
}

func deg(d float64) float64 { return d * math.Pi / 180 }

func TestPixelLocation_CenterIsIdentity(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	center := domain.GpsLocation{Latitude: 42.0, Longitude: -76.0}
	fov := domain.FOV{Horizontal: 40, Vertical: 30}

	for _, yaw := range []float64{0, 0.7, math.Pi, -2.1, 5 * math.Pi} {
		got, err := e.PixelLocation(center, 100, fov, 2000, 1500, Attitude{Yaw: yaw})
		require.NoError(t, err)
		assert.InDelta(t, center.Latitude, got.Latitude, 1e-12, "yaw %v", yaw)
		assert.InDelta(t, center.Longitude, got.Longitude, 1e-12, "yaw %v", yaw)
	}
}

func TestCorners_EndToEnd(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	fp, err := e.Corners(testTelemetry(), domain.FOV{Horizontal: 40, Vertical: 30})
	require.NoError(t, err)

	cross := 100 * math.Tan(deg(20))
	along := 100 * math.Tan(deg(15))
	lonScale := 111320 * math.Cos(deg(42))

	want := map[domain.Corner][2]float64{
		domain.TopLeft:     {42 + along/111320, -76 - cross/lonScale},
		domain.TopRight:    {42 + along/111320, -76 + cross/lonScale},
		domain.BottomLeft:  {42 - along/111320, -76 - cross/lonScale},
		domain.BottomRight: {42 - along/111320, -76 + cross/lonScale},
	}
	for corner, w := range want {
		got, err := fp.At(corner)
		require.NoError(t, err)
		assert.InDelta(t, w[0], got.Latitude, tol, "%s latitude", corner)
		assert.InDelta(t, w[1], got.Longitude, tol, "%s longitude", corner)
	}
}

func TestCorners_YawFullTurnIsPeriodic(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	fov := domain.FOV{Horizontal: 40, Vertical: 30}

	tel := testTelemetry()
	tel.PlaneYaw = 37
	tel.Gimbal = domain.GimbalOrientation{Pitch: 4, Roll: -6}
	a, err := e.Corners(tel, fov)
	require.NoError(t, err)

	tel.PlaneYaw = 37 + 360
	b, err := e.Corners(tel, fov)
	require.NoError(t, err)

	for _, c := range domain.Corners {
		la, _ := a.At(c)
		lb, _ := b.At(c)
		assert.InDelta(t, la.Latitude, lb.Latitude, tol, "%s", c)
		assert.InDelta(t, la.Longitude, lb.Longitude, tol, "%s", c)
	}
}

func TestCorners_StableUnderConcurrency(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	fov := domain.FOV{Horizontal: 40, Vertical: 30}
	tel := testTelemetry()
	tel.PlaneYaw = 123

	want, err := e.Corners(tel, fov)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]domain.Footprint, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = e.Corners(tel, fov)
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
	keys := make([]domain.Corner, 0, 4)
	for k := range want.Map() {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, domain.Corners[:], keys)
}

func TestPixelLocation_AltitudeScalesLinearly(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	center := domain.GpsLocation{Latitude: 42.0, Longitude: -76.0}
	fov := domain.FOV{Horizontal: 40, Vertical: 30}
	att := Attitude{Roll: deg(5), Pitch: deg(-3), Yaw: deg(30)}

	low, err := e.PixelLocation(center, 100, fov, 1000, 500, att)
	require.NoError(t, err)
	high, err := e.PixelLocation(center, 200, fov, 1000, 500, att)
	require.NoError(t, err)

	assert.InDelta(t, 2*(low.Latitude-center.Latitude), high.Latitude-center.Latitude, 1e-10)
	assert.InDelta(t, 2*(low.Longitude-center.Longitude), high.Longitude-center.Longitude, 1e-10)
	assert.InDelta(t, 2*center.DistanceTo(low), center.DistanceTo(high), 1e-3)
}

func TestPixelLocation_TiltDirections(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	center := domain.GpsLocation{Latitude: 42.0, Longitude: -76.0}
	fov := domain.FOV{Horizontal: 40, Vertical: 30}

	tests := []struct {
		name             string
		att              Attitude
		dLatSign, dLonSign int
	}{
		{"roll right heading north", Attitude{Roll: deg(10)}, 0, 1},
		{"pitch forward heading north", Attitude{Pitch: deg(10)}, 1, 0},
		{"pitch forward heading east", Attitude{Pitch: deg(10), Yaw: deg(90)}, 0, 1},
		{"pitch forward heading south", Attitude{Pitch: deg(10), Yaw: deg(180)}, -1, 0},
		{"roll right heading east", Attitude{Roll: deg(10), Yaw: deg(90)}, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.PixelLocation(center, 100, fov, 2000, 1500, tt.att)
			require.NoError(t, err)
			assert.Equal(t, tt.dLatSign, sign(got.Latitude-center.Latitude), "latitude")
			assert.Equal(t, tt.dLonSign, sign(got.Longitude-center.Longitude), "longitude")
		})
	}

	// Pure roll displaces by altitude * tan(roll).
	got, err := e.PixelLocation(center, 100, fov, 2000, 1500, Attitude{Roll: deg(10)})
	require.NoError(t, err)
	wantLon := -76 + 100*math.Tan(deg(10))/(111320*math.Cos(deg(42)))
	assert.InDelta(t, wantLon, got.Longitude, tol)
}

func sign(v float64) int {
	switch {
	case v > 1e-12:
		return 1
	case v < -1e-12:
		return -1
	}
	return 0
}

func TestPixelLocation_InvalidInput(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	center := domain.GpsLocation{Latitude: 42.0, Longitude: -76.0}
	fov := domain.FOV{Horizontal: 40, Vertical: 30}

	tests := []struct {
		name    string
		center  domain.GpsLocation
		alt     float64
		fov     domain.FOV
		x, y    float64
		att     Attitude
		wantErr error
	}{
		{"zero altitude", center, 0, fov, 2000, 1500, Attitude{}, domain.ErrInvalidAltitude},
		{"negative altitude", center, -5, fov, 2000, 1500, Attitude{}, domain.ErrInvalidAltitude},
		{"NaN altitude", center, math.NaN(), fov, 2000, 1500, Attitude{}, domain.ErrInvalidAltitude},
		{"latitude 95", domain.GpsLocation{Latitude: 95, Longitude: 0}, 100, fov, 2000, 1500, Attitude{}, domain.ErrInvalidCoordinate},
		{"zero fov", center, 100, domain.FOV{Horizontal: 0, Vertical: 30}, 2000, 1500, Attitude{}, domain.ErrInvalidFOV},
		{"fov 180", center, 100, domain.FOV{Horizontal: 40, Vertical: 180}, 2000, 1500, Attitude{}, domain.ErrInvalidFOV},
		{"pixel left of frame", center, 100, fov, -1, 1500, Attitude{}, domain.ErrPixelOutOfFrame},
		{"pixel below frame", center, 100, fov, 2000, 3001, Attitude{}, domain.ErrPixelOutOfFrame},
		{"NaN yaw", center, 100, fov, 2000, 1500, Attitude{Yaw: math.NaN()}, domain.ErrInvalidAngle},
		{"roll 89.9", center, 100, fov, 2000, 1500, Attitude{Roll: deg(89.9)}, domain.ErrDegenerateProjection},
		{"camera above horizon", center, 100, fov, 2000, 1500, Attitude{Pitch: deg(120)}, domain.ErrDegenerateProjection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.PixelLocation(tt.center, tt.alt, tt.fov, tt.x, tt.y, tt.att)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPixelLocation_OffNadirThreshold(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	center := domain.GpsLocation{Latitude: 42.0, Longitude: -76.0}
	fov := domain.FOV{Horizontal: 40, Vertical: 30}

	_, err := e.PixelLocation(center, 100, fov, 2000, 1500, Attitude{Roll: deg(DefaultMaxOffNadir - 0.1)})
	assert.NoError(t, err)

	_, err = e.PixelLocation(center, 100, fov, 2000, 1500, Attitude{Roll: deg(DefaultMaxOffNadir + 0.1)})
	assert.ErrorIs(t, err, domain.ErrDegenerateProjection)

	_, err = e.PixelLocation(center, 100, fov, 2000, 1500, Attitude{Pitch: deg(-(DefaultMaxOffNadir + 0.1))})
	assert.ErrorIs(t, err, domain.ErrDegenerateProjection)
}

func TestCorners_FailsWhole(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	tel := testTelemetry()
	// The boresight is fine at 70° but the right-hand corners exceed the limit.
	tel.Gimbal.Roll = 70
	fp, err := e.Corners(tel, domain.FOV{Horizontal: 40, Vertical: 30})
	assert.ErrorIs(t, err, domain.ErrDegenerateProjection)
	assert.Equal(t, domain.Footprint{}, fp)

	tel = testTelemetry()
	tel.Altitude = 0
	_, err = e.Corners(tel, domain.FOV{Horizontal: 40, Vertical: 30})
	assert.ErrorIs(t, err, domain.ErrInvalidAltitude)
}

func TestLensModels_AgreeAtCorners(t *testing.T) {
	t.Parallel()
	linear := testEngine(t)
	cfg := linear.Config()
	cfg.Lens = LensPinhole
	pinhole, err := NewEngine(cfg)
	require.NoError(t, err)

	tel := testTelemetry()
	tel.PlaneYaw = 15
	fov := domain.FOV{Horizontal: 60, Vertical: 45}

	a, err := linear.Corners(tel, fov)
	require.NoError(t, err)
	b, err := pinhole.Corners(tel, fov)
	require.NoError(t, err)
	for _, c := range domain.Corners {
		la, _ := a.At(c)
		lb, _ := b.At(c)
		assert.InDelta(t, la.Latitude, lb.Latitude, tol, "%s", c)
		assert.InDelta(t, la.Longitude, lb.Longitude, tol, "%s", c)
	}

	// Between centre and edge the pinhole ray leans further from the boresight.
	center := tel.GPS
	la, err := linear.PixelLocation(center, 100, fov, 3000, 1500, Attitude{})
	require.NoError(t, err)
	lb, err := pinhole.PixelLocation(center, 100, fov, 3000, 1500, Attitude{})
	require.NoError(t, err)
	assert.Greater(t, lb.Longitude, la.Longitude)
}

func TestNewEngine_RejectsBadConfig(t *testing.T) {
	t.Parallel()
	base := DefaultConfig()

	tests := map[string]func(c *Config){
		"zero width":        func(c *Config) { c.ImageWidth = 0 },
		"negative height":   func(c *Config) { c.ImageHeight = -1 },
		"zero scale":        func(c *Config) { c.MetersPerDegree = 0 },
		"off nadir 90":      func(c *Config) { c.MaxOffNadir = 90 },
		"off nadir zero":    func(c *Config) { c.MaxOffNadir = 0 },
		"unknown lens":      func(c *Config) { c.Lens = "fisheye" },
		"NaN meters/degree": func(c *Config) { c.MetersPerDegree = math.NaN() },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			_, err := NewEngine(cfg)
			assert.Error(t, err)
		})
	}

	e, err := NewEngine(Config{ImageWidth: 10, ImageHeight: 10, MetersPerDegree: 1, MaxOffNadir: 45})
	require.NoError(t, err)
	assert.Equal(t, LensLinearAngle, e.Config().Lens)
}

func TestLocate(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	capture := domain.Capture{
		ID:        "cap-1",
		ImgMode:   domain.ImgModeFixed,
		Telemetry: testTelemetry(),
		FOV:       domain.FOV{Horizontal: 40, Vertical: 30},
	}
	capture.Telemetry.PlaneYaw = 90

	tag, err := e.Locate(capture, domain.TargetSighting{
		ID: "s-1", PixelX: 2000, PixelY: 1500, RadiansFromTop: math.Pi / 2,
	})
	require.NoError(t, err)
	require.NotNil(t, tag.Location)
	require.NotNil(t, tag.ClockwiseRadiansFromNorth)
	assert.Equal(t, "s-1", tag.SightingID)
	assert.InDelta(t, 42.0, tag.Location.Latitude, 1e-12)
	assert.InDelta(t, math.Pi, *tag.ClockwiseRadiansFromNorth, tol)
	assert.Equal(t, domain.South, tag.Direction)

	// The image top faces east, so a mark near the top lies east of the vehicle.
	tag, err = e.Locate(capture, domain.TargetSighting{ID: "s-2", PixelX: 2000, PixelY: 0})
	require.NoError(t, err)
	assert.Greater(t, tag.Location.Longitude, -76.0)
	assert.InDelta(t, 42.0, tag.Location.Latitude, 1e-12)
}

func TestLocate_OffAxis(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	capture := domain.Capture{Telemetry: testTelemetry(), FOV: domain.FOV{Horizontal: 40, Vertical: 30}}

	_, err := e.Locate(capture, domain.TargetSighting{ID: "s", PixelX: 1, PixelY: 1, OffAxis: true})
	assert.ErrorIs(t, err, domain.ErrGeotagUnavailable)

	capture.ImgMode = domain.ImgModeOffAxis
	_, err = e.Locate(capture, domain.TargetSighting{ID: "s", PixelX: 1, PixelY: 1})
	assert.ErrorIs(t, err, domain.ErrGeotagUnavailable)
}

func TestInputDigest(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	fov := domain.FOV{Horizontal: 40, Vertical: 30}
	base := e.InputDigest(testTelemetry(), fov)

	assert.Equal(t, base, e.InputDigest(testTelemetry(), fov), "digest must be deterministic")
	assert.Len(t, base, 16)

	moved := testTelemetry()
	moved.GPS.Latitude += 1e-6
	assert.NotEqual(t, base, e.InputDigest(moved, fov))

	tilted := testTelemetry()
	tilted.Gimbal.Pitch = 5
	assert.NotEqual(t, base, e.InputDigest(tilted, fov))

	assert.NotEqual(t, base, e.InputDigest(testTelemetry(), domain.FOV{Horizontal: 41, Vertical: 30}))

	other, err := NewEngine(Config{ImageWidth: 4000, ImageHeight: 3000, MetersPerDegree: 111320, MaxOffNadir: 80})
	require.NoError(t, err)
	assert.NotEqual(t, base, other.InputDigest(testTelemetry(), fov), "engine config is part of the digest")
}
