package geom

import "math"

// Point is a position in board space.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle described by its edges.
// During a live drag the edges may be inverted (Left > Right); use
// Normalized to get the ordered form.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// RectXYWH builds a rect from origin and size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{X: r.CenterX(), Y: r.CenterY()}
}

// IsEmpty reports whether the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Contains checks if a point is inside the rect. Empty rects contain nothing.
func (r Rect) Contains(x, y float64) bool {
	return r.Left < r.Right && r.Top < r.Bottom &&
		x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Normalized swaps edges so that Left <= Right and Top <= Bottom.
func (r Rect) Normalized() Rect {
	return Rect{
		Left:   math.Min(r.Left, r.Right),
		Top:    math.Min(r.Top, r.Bottom),
		Right:  math.Max(r.Left, r.Right),
		Bottom: math.Max(r.Top, r.Bottom),
	}
}

// Offset returns the rect moved by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Inset returns the rect shrunk by (dx, dy) on every side.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right - dx, Bottom: r.Bottom - dy}
}

// Union returns the smallest rect containing both rects. Empty rects are ignored.
func (r Rect) Union(other Rect) Rect {
	if other.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return other
	}
	return Rect{
		Left:   math.Min(r.Left, other.Left),
		Top:    math.Min(r.Top, other.Top),
		Right:  math.Max(r.Right, other.Right),
		Bottom: math.Max(r.Bottom, other.Bottom),
	}
}

// Intersects reports whether two non-empty rects overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.Left < other.Right && other.Left < r.Right &&
		r.Top < other.Bottom && other.Top < r.Bottom
}

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.Left, Y: r.Top},
		{X: r.Right, Y: r.Top},
		{X: r.Right, Y: r.Bottom},
		{X: r.Left, Y: r.Bottom},
	}
}

// SamePosition reports whether the top-left corners differ by at most diff pixels.
func SamePosition(a, b Rect, diff int) bool {
	d := float64(diff)
	return math.Abs(a.Left-b.Left) <= d && math.Abs(a.Top-b.Top) <= d
}

// SameSize reports whether the sizes differ by at most diff pixels.
func SameSize(a, b Rect, diff int) bool {
	d := float64(diff)
	return math.Abs(a.Width()-b.Width()) <= d && math.Abs(a.Height()-b.Height()) <= d
}

// SameRect reports whether every edge differs by at most diff pixels.
func SameRect(a, b Rect, diff int) bool {
	d := float64(diff)
	return math.Abs(a.Left-b.Left) <= d &&
		math.Abs(a.Top-b.Top) <= d &&
		math.Abs(a.Right-b.Right) <= d &&
		math.Abs(a.Bottom-b.Bottom) <= d
}

// FitSize scales an image size to fit inside a frame while keeping its
// aspect ratio. A non-positive frame dimension leaves that axis free.
func FitSize(imgW, imgH, frameW, frameH int) (int, int) {
	if frameW <= 0 && frameH <= 0 {
		return imgW, imgH
	}
	if imgW <= 0 || imgH <= 0 {
		return frameW, frameH
	}
	tarW, tarH := frameW, frameH
	if frameW <= 0 {
		tarW = imgW
	}
	if frameH <= 0 {
		tarH = imgH
	}
	tarScale := float64(tarW) / float64(tarH)
	imgScale := float64(imgW) / float64(imgH)
	switch {
	case tarScale > imgScale:
		return int(imgScale * float64(tarH)), tarH
	case tarScale < imgScale:
		return tarW, int(float64(tarW) / imgScale)
	default:
		return tarW, tarH
	}
}

// SuggestedInitialRect is the largest area a new widget should occupy:
// the board inset by a tenth on every side.
func SuggestedInitialRect(boardW, boardH float64) Rect {
	l := boardW / 10
	t := boardH / 10
	return Rect{Left: l, Top: t, Right: l + boardW/10*8, Bottom: t + boardH/10*8}
}
