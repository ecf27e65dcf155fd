package render

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/inamate/inamate/board-go/internal/geom"
)

// Raster is a Canvas that paints into an RGBA image.
type Raster struct {
	dc    *gg.Context
	faces faceCache
}

// NewRaster creates a transparent w x h raster.
func NewRaster(w, h int) *Raster {
	return &Raster{dc: gg.NewContext(w, h), faces: faceCache{}}
}

// Fill paints the whole raster with a color, ignoring clip and transform.
func (r *Raster) Fill(hex string) {
	r.dc.Push()
	r.dc.Identity()
	r.dc.ResetClip()
	r.dc.SetColor(ParseColor(hex))
	r.dc.Clear()
	r.dc.Pop()
}

// Clear makes every pixel transparent.
func (r *Raster) Clear() {
	r.dc.Push()
	r.dc.Identity()
	r.dc.ResetClip()
	r.dc.SetColor(color.Transparent)
	r.dc.Clear()
	r.dc.Pop()
}

// ErasePolyline clears the pixels under a round-capped stroke.
func (r *Raster) ErasePolyline(pts []geom.Point, width float64) {
	if len(pts) == 0 {
		return
	}
	b := geom.Polygon(pts).Bounds().Inset(-width, -width)
	r.erase(b, func(m *gg.Context) {
		m.SetLineWidth(width)
		m.SetLineCapRound()
		m.SetLineJoinRound()
		m.MoveTo(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			m.LineTo(p.X, p.Y)
		}
		if len(pts) == 1 {
			m.LineTo(pts[0].X, pts[0].Y)
		}
		m.Stroke()
	})
}

// ErasePolygon clears the pixels inside a closed path.
func (r *Raster) ErasePolygon(pts []geom.Point) {
	if len(pts) < 3 {
		return
	}
	r.erase(geom.Polygon(pts).Bounds().Inset(-1, -1), func(m *gg.Context) {
		closedPath(m, pts)
		m.Fill()
	})
}

// erase paints a mask covering area and clears the raster through it.
func (r *Raster) erase(area geom.Rect, paint func(m *gg.Context)) {
	dst, ok := r.dc.Image().(*image.RGBA)
	if !ok {
		return
	}
	rect := image.Rect(
		int(math.Floor(area.Left)), int(math.Floor(area.Top)),
		int(math.Ceil(area.Right)), int(math.Ceil(area.Bottom)),
	).Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	m := gg.NewContext(rect.Dx(), rect.Dy())
	m.Translate(float64(-rect.Min.X), float64(-rect.Min.Y))
	m.SetColor(color.White)
	paint(m)
	draw.DrawMask(dst, rect, image.Transparent, image.Point{}, m.AsMask(), image.Point{}, draw.Src)
}

func closedPath(m *gg.Context, pts []geom.Point) {
	m.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		m.LineTo(p.X, p.Y)
	}
	m.ClosePath()
}

// Image returns the backing image.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the raster as PNG.
func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

func (r *Raster) Save()    { r.dc.Push() }
func (r *Raster) Restore() { r.dc.Pop() }

func (r *Raster) Rotate(degrees, px, py float64) {
	r.dc.RotateAbout(gg.Radians(degrees), px, py)
}

func (r *Raster) Scale(sx, sy, px, py float64) {
	r.dc.ScaleAbout(sx, sy, px, py)
}

func (r *Raster) ClipRect(rect geom.Rect) {
	n := rect.Normalized()
	r.dc.DrawRectangle(n.Left, n.Top, n.Width(), n.Height())
	r.dc.Clip()
}

func (r *Raster) apply(s Style) {
	r.dc.SetColor(ParseColor(s.Color))
	w := s.Width
	if w <= 0 {
		w = 1
	}
	r.dc.SetLineWidth(w)
	r.dc.SetDash(s.Dash...)
	if s.Round {
		r.dc.SetLineCapRound()
		r.dc.SetLineJoinRound()
	} else {
		r.dc.SetLineCapButt()
		r.dc.SetLineJoinBevel()
	}
}

func (r *Raster) StrokeRect(rect geom.Rect, s Style) {
	r.apply(s)
	r.dc.DrawRectangle(rect.Left, rect.Top, rect.Width(), rect.Height())
	r.dc.Stroke()
}

func (r *Raster) FillRect(rect geom.Rect, s Style) {
	r.apply(s)
	r.dc.DrawRectangle(rect.Left, rect.Top, rect.Width(), rect.Height())
	r.dc.Fill()
}

func (r *Raster) StrokeEllipse(rect geom.Rect, s Style) {
	r.apply(s)
	r.dc.DrawEllipse(rect.CenterX(), rect.CenterY(), rect.Width()/2, rect.Height()/2)
	r.dc.Stroke()
}

func (r *Raster) polyline(pts []geom.Point, closed bool) bool {
	if len(pts) < 2 {
		return false
	}
	r.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		r.dc.LineTo(p.X, p.Y)
	}
	if closed {
		r.dc.ClosePath()
	}
	return true
}

func (r *Raster) StrokePolyline(pts []geom.Point, s Style) {
	r.apply(s)
	if r.polyline(pts, s.Closed) {
		r.dc.Stroke()
	}
}

func (r *Raster) FillPolygon(pts []geom.Point, s Style) {
	r.apply(s)
	if r.polyline(pts, true) {
		r.dc.Fill()
	}
}

func (r *Raster) StrokeLine(x0, y0, x1, y1 float64, s Style) {
	r.apply(s)
	r.dc.DrawLine(x0, y0, x1, y1)
	r.dc.Stroke()
}

func (r *Raster) DrawImage(_ string, img image.Image, src, dst geom.Rect) {
	if img == nil || dst.IsEmpty() {
		return
	}
	if !src.IsEmpty() {
		if sub, ok := img.(interface {
			SubImage(image.Rectangle) image.Image
		}); ok {
			img = sub.SubImage(image.Rect(int(src.Left), int(src.Top), int(src.Right), int(src.Bottom)))
		}
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	r.dc.Push()
	r.dc.Translate(dst.Left, dst.Top)
	r.dc.Scale(dst.Width()/float64(b.Dx()), dst.Height()/float64(b.Dy()))
	r.dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	r.dc.Pop()
}

func (r *Raster) DrawText(text string, x, y float64, s Style) {
	size := s.FontSize
	if size <= 0 {
		size = 28
	}
	if f := r.faces.get(size); f != nil {
		r.dc.SetFontFace(f)
	}
	r.dc.SetColor(ParseColor(s.Color))
	r.dc.DrawString(text, x, y)
}
