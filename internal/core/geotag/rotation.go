package geotag

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Frames used here:
//   camera: x right, y forward (image top), z down along the boresight
//   local:  x east, y north, z down

// rollMatrix rotates about the forward axis; positive roll swings the boresight right.
func rollMatrix(roll float64) *mat.Dense {
	s, c := math.Sincos(roll)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

// pitchMatrix rotates about the right axis; positive pitch swings the boresight forward.
func pitchMatrix(pitch float64) *mat.Dense {
	s, c := math.Sincos(pitch)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, s,
		0, -s, c,
	})
}

// yawMatrix maps body (right, forward) onto (east, north) for a heading measured
// clockwise from north.
func yawMatrix(yaw float64) *mat.Dense {
	s, c := math.Sincos(yaw)
	return mat.NewDense(3, 3, []float64{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	})
}

// cameraToLocal composes yaw · pitch · roll. Roll is the inner gimbal axis.
func cameraToLocal(a Attitude) *mat.Dense {
	var gimbal, full mat.Dense
	gimbal.Mul(pitchMatrix(a.Pitch), rollMatrix(a.Roll))
	full.Mul(yawMatrix(a.Yaw), &gimbal)
	return &full
}

// rotate applies r to the camera-frame ray and returns the local-frame components.
func rotate(r mat.Matrix, ray [3]float64) (east, north, down float64) {
	var out mat.VecDense
	out.MulVec(r, mat.NewVecDense(3, ray[:]))
	return out.AtVec(0), out.AtVec(1), out.AtVec(2)
}
