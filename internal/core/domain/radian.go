package domain

import (
	"math"
	"sort"
)

const twoPi = 2 * math.Pi

// NormalizeRadians reduces r into [0, 2π).
func NormalizeRadians(r float64) float64 {
	r = math.Mod(r, twoPi)
	if r < 0 {
		r += twoPi
	}
	if r >= twoPi {
		// -tiny + 2π rounds up to exactly 2π
		r = 0
	}
	return r
}

// AddRadians adds two angles and normalizes the sum.
func AddRadians(a, b float64) float64 {
	return NormalizeRadians(a + b)
}

// RadiansEqual compares two optional angles after normalization.
func RadiansEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return NormalizeRadians(*a) == NormalizeRadians(*b)
}

// MedianRadians returns the normalized median of the non-NaN inputs, or nil if none.
func MedianRadians(radians ...float64) *float64 {
	vals := make([]float64, 0, len(radians))
	for _, r := range radians {
		if !math.IsNaN(r) {
			vals = append(vals, r)
		}
	}
	if len(vals) == 0 {
		return nil
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	m := vals[mid]
	if len(vals)%2 == 0 {
		m = (vals[mid-1] + vals[mid]) / 2
	}
	m = NormalizeRadians(m)
	return &m
}

// DegreesToRadians converts degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadiansToDegrees converts radians to degrees.
func RadiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
