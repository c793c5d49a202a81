package domain

import (
	"cmp"
	"fmt"
	"time"
)

// Capture is a single image taken by the vehicle together with the state needed to
// place it on the ground.
type Capture struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ImageURL  string    `json:"image_url"`
	ImgMode   ImgMode   `json:"img_mode"`
	Telemetry Telemetry `json:"telemetry"`
	FOV       FOV       `json:"fov"`
}

// TargetSighting is an operator or classifier mark on a capture.
type TargetSighting struct {
	ID                string     `json:"id"`
	CaptureID         string     `json:"capture_id"`
	Timestamp         time.Time  `json:"timestamp"`
	PixelX            float64    `json:"pixel_x"`
	PixelY            float64    `json:"pixel_y"`
	RadiansFromTop    float64    `json:"radians_from_top"`
	OffAxis           bool       `json:"off_axis"`
	Shape             Shape      `json:"shape,omitempty"`
	ShapeColor        Color      `json:"shape_color,omitempty"`
	Alphanumeric      string     `json:"alphanumeric,omitempty"`
	AlphanumericColor Color      `json:"alphanumeric_color,omitempty"`
	Confidence        Confidence `json:"confidence"`
}

// SightingEvent carries a sighting together with the capture it was marked on.
type SightingEvent struct {
	Capture  Capture        `json:"capture"`
	Sighting TargetSighting `json:"sighting"`
}

// Corner names one of the four image corners.
type Corner string

const (
	TopLeft     Corner = "topLeft"
	TopRight    Corner = "topRight"
	BottomLeft  Corner = "bottomLeft"
	BottomRight Corner = "bottomRight"
)

// Corners lists the corners in a fixed order.
var Corners = [4]Corner{TopLeft, TopRight, BottomLeft, BottomRight}

// Footprint is the ground quadrilateral seen by one capture.
type Footprint struct {
	TopLeft     GpsLocation `json:"topLeft"`
	TopRight    GpsLocation `json:"topRight"`
	BottomLeft  GpsLocation `json:"bottomLeft"`
	BottomRight GpsLocation `json:"bottomRight"`
}

// At returns the location of corner c.
func (f Footprint) At(c Corner) (GpsLocation, error) {
	switch c {
	case TopLeft:
		return f.TopLeft, nil
	case TopRight:
		return f.TopRight, nil
	case BottomLeft:
		return f.BottomLeft, nil
	case BottomRight:
		return f.BottomRight, nil
	}
	return GpsLocation{}, fmt.Errorf("unknown corner %q", c)
}

// Map returns the footprint keyed by corner name.
func (f Footprint) Map() map[Corner]GpsLocation {
	return map[Corner]GpsLocation{
		TopLeft:     f.TopLeft,
		TopRight:    f.TopRight,
		BottomLeft:  f.BottomLeft,
		BottomRight: f.BottomRight,
	}
}

// Bounds returns the axis-aligned box enclosing the four corners.
func (f Footprint) Bounds() Bounds {
	b := Bounds{
		MinLat: f.TopLeft.Latitude, MaxLat: f.TopLeft.Latitude,
		MinLon: f.TopLeft.Longitude, MaxLon: f.TopLeft.Longitude,
	}
	for _, g := range []GpsLocation{f.TopRight, f.BottomLeft, f.BottomRight} {
		b.MinLat = min(b.MinLat, g.Latitude)
		b.MaxLat = max(b.MaxLat, g.Latitude)
		b.MinLon = min(b.MinLon, g.Longitude)
		b.MaxLon = max(b.MaxLon, g.Longitude)
	}
	return b
}

// CaptureFootprint is the published result for one capture.
type CaptureFootprint struct {
	CaptureID   string    `json:"capture_id"`
	Footprint   Footprint `json:"footprint"`
	Bounds      Bounds    `json:"bounds"`
	InputDigest string    `json:"input_digest"` // fingerprint of the telemetry, FOV and engine config used
	ComputedAt  time.Time `json:"computed_at"`
}

// Geotag is where a sighting sits on the ground and which way it faces.
type Geotag struct {
	SightingID                string            `json:"sighting_id,omitempty"`
	Location                  *GpsLocation      `json:"location"`
	ClockwiseRadiansFromNorth *float64          `json:"clockwise_radians_from_north"`
	Direction                 CardinalDirection `json:"direction"`
}

// MedianGeotag merges several geotags of the same target. Tags missing a location or
// heading are ignored; nil is returned when nothing usable remains.
func MedianGeotag(tags ...*Geotag) *Geotag {
	var locs []GpsLocation
	var rads []float64
	for _, t := range tags {
		if t == nil || t.Location == nil || t.ClockwiseRadiansFromNorth == nil {
			continue
		}
		locs = append(locs, *t.Location)
		rads = append(rads, *t.ClockwiseRadiansFromNorth)
	}
	if len(locs) == 0 {
		return nil
	}
	loc := MedianLocation(locs...)
	heading := MedianRadians(rads...)
	if loc == nil || heading == nil {
		return nil
	}
	dir, err := CardinalFromRadians(*heading)
	if err != nil {
		return nil
	}
	return &Geotag{Location: loc, ClockwiseRadiansFromNorth: heading, Direction: dir}
}

// CompareByID orders captures by identity.
func CompareByID(a, b Capture) int {
	return cmp.Compare(a.ID, b.ID)
}

// CompareByTimestamp orders captures by capture time, falling back to identity.
func CompareByTimestamp(a, b Capture) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	return CompareByID(a, b)
}

// CompareSightingsByTimestamp orders sightings by mark time, falling back to identity.
func CompareSightingsByTimestamp(a, b TargetSighting) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
