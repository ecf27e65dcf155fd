package geom

// Polygon is a closed lasso path. The last point connects back to the first.
type Polygon []Point

// Bounds returns the axis-aligned bounding box of the polygon.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{Left: p[0].X, Top: p[0].Y, Right: p[0].X, Bottom: p[0].Y}
	for _, pt := range p[1:] {
		r.Left = min(r.Left, pt.X)
		r.Top = min(r.Top, pt.Y)
		r.Right = max(r.Right, pt.X)
		r.Bottom = max(r.Bottom, pt.Y)
	}
	return r
}

// Rotated returns the polygon rotated by angle degrees around the pivot.
func (p Polygon) Rotated(angle float64, pivot Point) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = RotatePoint(angle, pt, pivot)
	}
	return out
}

// Contains tests a point with the even-odd rule.
func (p Polygon) Contains(x, y float64) bool {
	if len(p) < 3 {
		return false
	}
	inside := false
	j := len(p) - 1
	for i := range p {
		pi, pj := p[i], p[j]
		if (pi.Y > y) != (pj.Y > y) &&
			x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// IntersectsRect reports whether the filled polygon and the rect share any area.
func (p Polygon) IntersectsRect(r Rect) bool {
	if len(p) < 3 || r.IsEmpty() {
		return false
	}
	if !p.Bounds().Intersects(r) {
		return false
	}
	for _, pt := range p {
		if r.Contains(pt.X, pt.Y) {
			return true
		}
	}
	corners := r.Corners()
	for _, c := range corners {
		if p.Contains(c.X, c.Y) {
			return true
		}
	}
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		for k := range corners {
			if segmentsIntersect(a, b, corners[k], corners[(k+1)%4]) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, p3, p4 Point) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
