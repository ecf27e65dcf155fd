package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestNormalized(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Right: 0, Bottom: 5}.Normalized()
	want := Rect{Left: 0, Top: 5, Right: 10, Bottom: 20}
	if r != want {
		t.Errorf("Normalized = %+v, want %+v", r, want)
	}
}

func TestRotatedBoundsContainsCorners(t *testing.T) {
	r := RectXYWH(10, 20, 200, 80)
	for _, angle := range []float64{0, 15, 45, 90, 133, 180, 270, 359, -30} {
		b := RotatedBounds(r, angle)
		for _, c := range RotatedCorners(r, angle) {
			if c.X < b.Left-eps || c.X > b.Right+eps || c.Y < b.Top-eps || c.Y > b.Bottom+eps {
				t.Errorf("angle %v: corner %+v outside bounds %+v", angle, c, b)
			}
		}
	}
	if got := RotatedBounds(r, 0); got != r {
		t.Errorf("RotatedBounds(r, 0) = %+v, want r", got)
	}
	if got := RotatedBounds(r, 720); got != r {
		t.Errorf("RotatedBounds(r, 720) = %+v, want r", got)
	}
}

func TestRestoreRotatedPointRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
	}{
		{"zero", 0},
		{"full turn", 360},
		{"quarter", 90},
		{"odd", 37.5},
		{"negative", -120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Rotate(tt.angle, 30, 40, 100, 100)
			bx, by := RestoreRotatedPoint(tt.angle, x, y, 100, 100)
			if !near(bx, 30) || !near(by, 40) {
				t.Errorf("round trip = (%v, %v), want (30, 40)", bx, by)
			}
		})
	}
}

func TestSameRectTolerance(t *testing.T) {
	a := RectXYWH(0, 0, 100, 100)
	b := RectXYWH(1, -1, 101, 99)
	if !SamePosition(a, b, 1) {
		t.Error("SamePosition with diff 1 should match")
	}
	if SamePosition(a, b, 0) {
		t.Error("SamePosition with diff 0 should not match")
	}
	if !SameSize(a, b, 1) || SameSize(a, b, 0) {
		t.Error("SameSize tolerance mismatch")
	}
	if !SameRect(a, b, 2) || SameRect(a, b, 1) {
		t.Error("SameRect tolerance mismatch")
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		name                 string
		imgW, imgH, frW, frH int
		wantW, wantH         int
	}{
		{"wide image", 400, 100, 200, 200, 200, 50},
		{"tall image", 100, 400, 200, 200, 50, 200},
		{"same ratio", 100, 100, 200, 200, 200, 200},
		{"free height", 400, 100, 200, 0, 200, 50},
		{"no frame", 30, 40, 0, 0, 30, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitSize(tt.imgW, tt.imgH, tt.frW, tt.frH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPolygonIntersectsRect(t *testing.T) {
	tri := Polygon{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}}
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"vertex inside rect", RectXYWH(-10, -10, 20, 20), true},
		{"rect inside polygon", RectXYWH(10, 10, 5, 5), true},
		{"edges cross", RectXYWH(40, -20, 5, 200), true},
		{"beyond hypotenuse", RectXYWH(80, 80, 10, 10), false},
		{"far away", RectXYWH(500, 500, 10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tri.IntersectsRect(tt.r); got != tt.want {
				t.Errorf("IntersectsRect(%+v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestMatrixMatchesRotate(t *testing.T) {
	m := RotateAbout(30, 50, 60)
	x, y := m.TransformPoint(70, 60)
	p := RotatePoint(30, Point{X: 70, Y: 60}, Point{X: 50, Y: 60})
	if !near(x, p.X) || !near(y, p.Y) {
		t.Errorf("matrix maps to (%v, %v), rotate gives %+v", x, y, p)
	}
	if !RotateAbout(360, 5, 5).IsIdentity() || ScaleAbout(2, 1, 0, 0).IsIdentity() {
		t.Error("IsIdentity")
	}
}
