package domain

import (
	"fmt"
	"math"
)

// CardinalDirection is one of the eight 45° compass sectors.
type CardinalDirection int

const (
	North CardinalDirection = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

const sectorWidth = math.Pi / 4

var cardinalNames = [...]struct{ abbrev, name string }{
	North:     {"N", "north"},
	NorthEast: {"NE", "northeast"},
	East:      {"E", "east"},
	SouthEast: {"SE", "southeast"},
	South:     {"S", "south"},
	SouthWest: {"SW", "southwest"},
	West:      {"W", "west"},
	NorthWest: {"NW", "northwest"},
}

// CardinalFromRadians buckets a heading into its compass sector. Sectors are half-open
// and centred on the compass points: North covers [-π/8, π/8), NorthEast [π/8, 3π/8),
// and so on. The input need not be normalized.
func CardinalFromRadians(r float64) (CardinalDirection, error) {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("%w: heading %v is not finite", ErrInvalidAngle, r)
	}
	// Shift before normalizing so -π/8 lands on exactly 0.
	idx := int(math.Floor(NormalizeRadians(r+sectorWidth/2) / sectorWidth))
	return CardinalDirection(idx % len(cardinalNames)), nil
}

// Abbrev returns the short label, e.g. "NE".
func (d CardinalDirection) Abbrev() string {
	if d < North || d > NorthWest {
		return "?"
	}
	return cardinalNames[d].abbrev
}

// Name returns the lower-case long name, e.g. "northeast".
func (d CardinalDirection) Name() string {
	if d < North || d > NorthWest {
		return "unknown"
	}
	return cardinalNames[d].name
}

func (d CardinalDirection) String() string { return d.Abbrev() }

// MarshalText encodes the direction as its abbreviation.
func (d CardinalDirection) MarshalText() ([]byte, error) {
	if d < North || d > NorthWest {
		return nil, fmt.Errorf("cardinal direction %d out of range", int(d))
	}
	return []byte(d.Abbrev()), nil
}

// UnmarshalText accepts an abbreviation such as "SW".
func (d *CardinalDirection) UnmarshalText(b []byte) error {
	for i, n := range cardinalNames {
		if n.abbrev == string(b) {
			*d = CardinalDirection(i)
			return nil
		}
	}
	return fmt.Errorf("unknown cardinal direction %q", string(b))
}
