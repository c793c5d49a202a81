package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardinalFromRadians_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float64
		want CardinalDirection
	}{
		{"zero", 0, North},
		{"just before NE boundary", math.Pi/8 - 1e-9, North},
		{"NE boundary", math.Pi / 8, NorthEast},
		{"negative boundary", -math.Pi / 8, North},
		{"just before N from below", -math.Pi/8 - 1e-9, NorthWest},
		{"full turn", 2 * math.Pi, North},
		{"east", math.Pi / 2, East},
		{"south", math.Pi, South},
		{"southwest", 5 * math.Pi / 4, SouthWest},
		{"west", 3 * math.Pi / 2, West},
		{"northwest", 7 * math.Pi / 4, NorthWest},
		{"several turns", 6*math.Pi + math.Pi/4, NorthEast},
		{"negative quarter", -math.Pi / 2, West},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CardinalFromRadians(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "got %s", got)
		})
	}
}

func TestCardinalFromRadians_EverySectorStart(t *testing.T) {
	t.Parallel()
	// Sectors are half-open: the exact start of each belongs to it, over several turns.
	for k := -15; k <= 31; k += 2 {
		start := float64(k) * math.Pi / 8
		want := CardinalDirection(((k+1)/2%8 + 8) % 8)
		got, err := CardinalFromRadians(start)
		require.NoError(t, err)
		assert.Equal(t, want, got, "k=%d", k)
	}
	for i := 0; i < 8; i++ {
		got, err := CardinalFromRadians(float64(2*i-1) * math.Pi / 8)
		require.NoError(t, err)
		assert.Equal(t, CardinalDirection(i), got)
	}
}

func TestCardinalFromRadians_RejectsNonFinite(t *testing.T) {
	t.Parallel()
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := CardinalFromRadians(v)
		assert.ErrorIs(t, err, ErrInvalidAngle)
	}
}

func TestCardinalDirection_Text(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "NE", NorthEast.Abbrev())
	assert.Equal(t, "southwest", SouthWest.Name())
	assert.Equal(t, "?", CardinalDirection(12).Abbrev())

	b, err := json.Marshal(map[string]CardinalDirection{"dir": SouthEast})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dir":"SE"}`, string(b))

	var out map[string]CardinalDirection
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, SouthEast, out["dir"])

	var d CardinalDirection
	assert.Error(t, d.UnmarshalText([]byte("NNE")))
}

func TestNormalizeRadians(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 0, NormalizeRadians(2*math.Pi), 1e-12)
	assert.InDelta(t, 3*math.Pi/2, NormalizeRadians(-math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi, NormalizeRadians(5*math.Pi), 1e-12)
	assert.Less(t, NormalizeRadians(-1e-300), 2*math.Pi)
	assert.InDelta(t, math.Pi/2, AddRadians(7*math.Pi/4, 3*math.Pi/4), 1e-12)
}

func TestRadiansEqual(t *testing.T) {
	t.Parallel()
	a, b := math.Pi/2, math.Pi/2+4*math.Pi
	assert.True(t, RadiansEqual(nil, nil))
	assert.False(t, RadiansEqual(&a, nil))
	c := 1.0
	assert.False(t, RadiansEqual(&a, &c))
	// 4π offsets survive normalization only up to rounding.
	assert.InDelta(t, NormalizeRadians(a), NormalizeRadians(b), 1e-12)
}

func TestMedianRadians(t *testing.T) {
	t.Parallel()
	assert.Nil(t, MedianRadians())
	assert.Nil(t, MedianRadians(math.NaN()))

	got := MedianRadians(3, 1, math.NaN(), 2)
	require.NotNil(t, got)
	assert.Equal(t, 2.0, *got)

	got = MedianRadians(1, 2, 3, 9)
	require.NotNil(t, got)
	assert.Equal(t, 2.5, *got)

	got = MedianRadians(-1)
	require.NotNil(t, got)
	assert.InDelta(t, 2*math.Pi-1, *got, 1e-12)
}
