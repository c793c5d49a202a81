package geospatial

import "math"

const earthRadiusKm = 6371.0

// MetersPerDegree is the flat-earth length of one degree of latitude.
const MetersPerDegree = 111320.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// Offset moves a point by east/north meters using the local tangent-plane approximation.
// One degree of longitude spans metersPerDegree*cos(lat). The result is not range-checked.
func Offset(lat, lon, eastMeters, northMeters, metersPerDegree float64) (float64, float64) {
	latDelta := northMeters / metersPerDegree
	lonDelta := eastMeters / (metersPerDegree * math.Cos(toRad(lat)))
	return lat + latDelta, lon + lonDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
