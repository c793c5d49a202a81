package domain

import (
	"fmt"
	"math"
	"sort"

	"github.com/samirrijal/skytag/internal/pkg/geospatial"
)

const (
	// MaxAbsLatitude is the largest valid absolute latitude in degrees.
	MaxAbsLatitude = 90.0
	// MaxAbsLongitude is the largest valid absolute longitude in degrees.
	MaxAbsLongitude = 180.0
)

// GpsLocation is a validated geographic coordinate (WGS 84, degrees).
// Construct it with NewGpsLocation; values are never mutated in place.
type GpsLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewGpsLocation validates latitude and longitude and returns the location.
func NewGpsLocation(lat, lon float64) (GpsLocation, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.Abs(lat) > MaxAbsLatitude {
		return GpsLocation{}, fmt.Errorf("%w: latitude %v should be within -%v and %v",
			ErrInvalidCoordinate, lat, MaxAbsLatitude, MaxAbsLatitude)
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) || math.Abs(lon) > MaxAbsLongitude {
		return GpsLocation{}, fmt.Errorf("%w: longitude %v should be within -%v and %v",
			ErrInvalidCoordinate, lon, MaxAbsLongitude, MaxAbsLongitude)
	}
	return GpsLocation{Latitude: lat, Longitude: lon}, nil
}

// Validate re-checks a location that was decoded rather than constructed.
func (g GpsLocation) Validate() error {
	_, err := NewGpsLocation(g.Latitude, g.Longitude)
	return err
}

// Translate returns the location offset by east/north meters on the local tangent plane.
// metersPerDegree is the length of one degree of latitude; longitude degrees shrink with
// cos(latitude). Only valid for footprint-scale offsets (hundreds of meters).
func (g GpsLocation) Translate(eastMeters, northMeters, metersPerDegree float64) (GpsLocation, error) {
	lat, lon := geospatial.Offset(g.Latitude, g.Longitude, eastMeters, northMeters, metersPerDegree)
	return NewGpsLocation(lat, wrapLongitude(lon))
}

// EuclideanDistance is the straight-line distance in degree space. Only meaningful for
// nearby points.
func (g GpsLocation) EuclideanDistance(other GpsLocation) float64 {
	return math.Hypot(g.Latitude-other.Latitude, g.Longitude-other.Longitude)
}

// DistanceTo returns the great-circle distance to other in meters.
func (g GpsLocation) DistanceTo(other GpsLocation) float64 {
	return geospatial.Haversine(g.Latitude, g.Longitude, other.Latitude, other.Longitude)
}

// MedianLocation returns the per-axis median of the given locations, skipping NaN
// components. It returns nil when no usable location remains.
func MedianLocation(locations ...GpsLocation) *GpsLocation {
	lats := make([]float64, 0, len(locations))
	lons := make([]float64, 0, len(locations))
	for _, l := range locations {
		if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
			continue
		}
		lats = append(lats, l.Latitude)
		lons = append(lons, l.Longitude)
	}
	if len(lats) == 0 {
		return nil
	}
	loc, err := NewGpsLocation(median(lats), median(lons))
	if err != nil {
		return nil
	}
	return &loc
}

func median(values []float64) float64 {
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}

func wrapLongitude(lon float64) float64 {
	if math.IsNaN(lon) || math.IsInf(lon, 0) || math.Abs(lon) <= MaxAbsLongitude {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the location lies inside the box, edges included.
func (b Bounds) Contains(g GpsLocation) bool {
	return g.Latitude >= b.MinLat && g.Latitude <= b.MaxLat &&
		g.Longitude >= b.MinLon && g.Longitude <= b.MaxLon
}
