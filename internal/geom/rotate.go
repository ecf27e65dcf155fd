package geom

import "math"

// AngleToRadian converts degrees to radians.
func AngleToRadian(angle float64) float64 {
	return angle * math.Pi / 180
}

// RadianToAngle converts radians to degrees.
func RadianToAngle(radian float64) float64 {
	return radian * 180 / math.Pi
}

// Radian returns the direction of (x, y) seen from the pivot (px, py).
func Radian(x, y, px, py float64) float64 {
	return math.Atan2(y-py, x-px)
}

// Angle returns the direction of (x, y) seen from the pivot, in degrees.
func Angle(x, y, px, py float64) float64 {
	return RadianToAngle(Radian(x, y, px, py))
}

// Rotate rotates (x, y) by angle degrees around (px, py). Whole turns
// return the input unchanged so repeated 0/360 rotations do not drift.
func Rotate(angle, x, y, px, py float64) (float64, float64) {
	if math.Mod(angle, 360) == 0 {
		return x, y
	}
	return RotateByRadian(AngleToRadian(angle), x, y, px, py)
}

// RotateByRadian rotates (x, y) by radian around (px, py).
func RotateByRadian(radian, x, y, px, py float64) (float64, float64) {
	if math.Mod(radian, 2*math.Pi) == 0 {
		return x, y
	}
	sin, cos := math.Sincos(radian)
	return (x-px)*cos - (y-py)*sin + px,
		(x-px)*sin + (y-py)*cos + py
}

// RotatePoint is Rotate for a Point.
func RotatePoint(angle float64, p, pivot Point) Point {
	x, y := Rotate(angle, p.X, p.Y, pivot.X, pivot.Y)
	return Point{X: x, Y: y}
}

// RestoreRotatedPoint undoes Rotate: it maps a point from rotated space
// back into the unrotated local space around the same pivot.
func RestoreRotatedPoint(angle, x, y, px, py float64) (float64, float64) {
	return Rotate(360-angle, x, y, px, py)
}

// RotatedBounds rotates the rect's corners around its center and returns
// their axis-aligned bounding box.
func RotatedBounds(r Rect, angle float64) Rect {
	if math.Mod(angle, 360) == 0 {
		return r
	}
	return cornerBounds(r, func(x, y float64) (float64, float64) {
		return Rotate(angle, x, y, r.CenterX(), r.CenterY())
	})
}

// RotatedCorners returns the rect's corners rotated around its center.
func RotatedCorners(r Rect, angle float64) [4]Point {
	corners := r.Corners()
	cx, cy := r.CenterX(), r.CenterY()
	for i, c := range corners {
		corners[i].X, corners[i].Y = Rotate(angle, c.X, c.Y, cx, cy)
	}
	return corners
}

func cornerBounds(r Rect, fn func(x, y float64) (float64, float64)) Rect {
	x0, y0 := fn(r.Left, r.Top)
	x1, y1 := fn(r.Right, r.Top)
	x2, y2 := fn(r.Left, r.Bottom)
	x3, y3 := fn(r.Right, r.Bottom)
	return Rect{
		Left:   min(x0, x1, x2, x3),
		Top:    min(y0, y1, y2, y3),
		Right:  max(x0, x1, x2, x3),
		Bottom: max(y0, y1, y2, y3),
	}
}
