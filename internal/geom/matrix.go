package geom

import "math"

// Matrix2D is the affine transform [a b c d e f]:
//
//	| a  c  e |
//	| b  d  f |
//
// The draw-command recorder composes canvas rotations and scales with it
// and ships the result with each command.
type Matrix2D [6]float64

func Identity() Matrix2D { return Matrix2D{1, 0, 0, 1, 0, 0} }

func translate(tx, ty float64) Matrix2D { return Matrix2D{1, 0, 0, 1, tx, ty} }

// RotateAbout rotates by degrees, clockwise in screen coordinates, around
// (px, py).
func RotateAbout(degrees, px, py float64) Matrix2D {
	sin, cos := math.Sincos(AngleToRadian(degrees))
	return translate(px, py).Multiply(Matrix2D{cos, sin, -sin, cos, 0, 0}).Multiply(translate(-px, -py))
}

// ScaleAbout scales by (sx, sy) around (px, py).
func ScaleAbout(sx, sy, px, py float64) Matrix2D {
	return translate(px, py).Multiply(Matrix2D{sx, 0, 0, sy, 0, 0}).Multiply(translate(-px, -py))
}

// Multiply returns m * o, which applies o first.
func (m Matrix2D) Multiply(o Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

func (m Matrix2D) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ToSlice is the JSON form.
func (m Matrix2D) ToSlice() []float64 { return m[:] }

func (m Matrix2D) IsIdentity() bool {
	const eps = 1e-10
	id := Identity()
	for i := range m {
		if math.Abs(m[i]-id[i]) >= eps {
			return false
		}
	}
	return true
}
