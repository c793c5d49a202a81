package domain

import "fmt"

// ImgMode describes how the gimbal was pointed when an image was taken.
type ImgMode string

const (
	ImgModeFixed    ImgMode = "fixed"
	ImgModeTracking ImgMode = "tracking"
	ImgModeOffAxis  ImgMode = "off-axis"
)

// ParseImgMode validates a wire value.
func ParseImgMode(s string) (ImgMode, error) {
	switch m := ImgMode(s); m {
	case ImgModeFixed, ImgModeTracking, ImgModeOffAxis:
		return m, nil
	}
	return "", fmt.Errorf("unknown image mode %q", s)
}

// Confidence is the operator's confidence in a sighting. The ordinal is what gets stored.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	}
	return fmt.Sprintf("confidence(%d)", int(c))
}

// ParseConfidence maps "low", "medium" or "high" to its ordinal.
func ParseConfidence(s string) (Confidence, error) {
	for c := ConfidenceLow; c <= ConfidenceHigh; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown confidence %q", s)
}

// Color of a target shape or its alphanumeric.
type Color string

const (
	ColorWhite  Color = "white"
	ColorBlack  Color = "black"
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorBrown  Color = "brown"
	ColorOrange Color = "orange"
)

var colors = []Color{
	ColorWhite, ColorBlack, ColorGray, ColorRed, ColorBlue,
	ColorGreen, ColorYellow, ColorPurple, ColorBrown, ColorOrange,
}

// ParseColor validates a wire value.
func ParseColor(s string) (Color, error) {
	for _, c := range colors {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown color %q", s)
}

// Shape of a ground target.
type Shape string

const (
	ShapeCircle        Shape = "circle"
	ShapeSemicircle    Shape = "semicircle"
	ShapeQuarterCircle Shape = "quarter_circle"
	ShapeTriangle      Shape = "triangle"
	ShapeSquare        Shape = "square"
	ShapeRectangle     Shape = "rectangle"
	ShapeTrapezoid     Shape = "trapezoid"
	ShapePentagon      Shape = "pentagon"
	ShapeHexagon       Shape = "hexagon"
	ShapeHeptagon      Shape = "heptagon"
	ShapeOctagon       Shape = "octagon"
	ShapeStar          Shape = "star"
	ShapeCross         Shape = "cross"
)

var shapes = []Shape{
	ShapeCircle, ShapeSemicircle, ShapeQuarterCircle, ShapeTriangle, ShapeSquare,
	ShapeRectangle, ShapeTrapezoid, ShapePentagon, ShapeHexagon, ShapeHeptagon,
	ShapeOctagon, ShapeStar, ShapeCross,
}

// ParseShape validates a wire value.
func ParseShape(s string) (Shape, error) {
	for _, sh := range shapes {
		if string(sh) == s {
			return sh, nil
		}
	}
	return "", fmt.Errorf("unknown shape %q", s)
}
