package domain

import (
	"fmt"
	"math"
)

// GimbalOrientation is the camera mount tilt relative to the airframe, in degrees.
// Zero pitch and roll point the camera straight down; positive pitch tilts it forward
// and positive roll tilts it to the right.
type GimbalOrientation struct {
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// Telemetry is the vehicle state sampled when an image was captured.
type Telemetry struct {
	GPS      GpsLocation       `json:"gps"`
	Altitude float64           `json:"altitude"`  // meters above ground
	PlaneYaw float64           `json:"plane_yaw"` // degrees clockwise from true north
	Gimbal   GimbalOrientation `json:"gimbal"`
}

// Validate checks the fields a projection depends on.
func (t Telemetry) Validate() error {
	if err := t.GPS.Validate(); err != nil {
		return err
	}
	if math.IsNaN(t.Altitude) || math.IsInf(t.Altitude, 0) || t.Altitude <= 0 {
		return fmt.Errorf("%w: altitude %v must be positive", ErrInvalidAltitude, t.Altitude)
	}
	for name, v := range map[string]float64{
		"plane yaw":    t.PlaneYaw,
		"gimbal pitch": t.Gimbal.Pitch,
		"gimbal roll":  t.Gimbal.Roll,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidAngle, name)
		}
	}
	return nil
}

// FOV is the angular extent of the camera sensor, in degrees.
type FOV struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
}

// NewFOV validates both extents. A rectilinear camera cannot see 180° or more.
func NewFOV(horizontal, vertical float64) (FOV, error) {
	f := FOV{Horizontal: horizontal, Vertical: vertical}
	return f, f.Validate()
}

// Validate checks that both extents lie in (0, 180).
func (f FOV) Validate() error {
	if !validExtent(f.Horizontal) {
		return fmt.Errorf("%w: horizontal extent %v must be within (0, 180)", ErrInvalidFOV, f.Horizontal)
	}
	if !validExtent(f.Vertical) {
		return fmt.Errorf("%w: vertical extent %v must be within (0, 180)", ErrInvalidFOV, f.Vertical)
	}
	return nil
}

func validExtent(deg float64) bool {
	return !math.IsNaN(deg) && deg > 0 && deg < 180
}

// FOVFromFocalLength derives the field of view from sensor size and focal length (mm).
// Formula: FOV = 2 × arctan(sensor / (2 × focal_length))
func FOVFromFocalLength(sensorWidthMM, sensorHeightMM, focalLengthMM float64) (FOV, error) {
	if focalLengthMM <= 0 || sensorWidthMM <= 0 || sensorHeightMM <= 0 {
		return FOV{}, fmt.Errorf("%w: sensor %vx%v mm, focal length %v mm",
			ErrInvalidFOV, sensorWidthMM, sensorHeightMM, focalLengthMM)
	}
	return NewFOV(
		RadiansToDegrees(2*math.Atan(sensorWidthMM/(2*focalLengthMM))),
		RadiansToDegrees(2*math.Atan(sensorHeightMM/(2*focalLengthMM))),
	)
}
