package widget

import (
	"math"

	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/frame"
	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/input"
	"github.com/inamate/inamate/board-go/internal/render"
)

const (
	shapeStrokeWidth = 5.0
	arrowSize        = 15.0
	arrowHeadRadian  = 0.75
)

// Shape is a stroked rectangle, circle or arrow. A new shape is sized by
// dragging; until that drag ends the widget is "shaping" and every touch
// goes to it.
type Shape struct {
	base
	shape   document.ShapeKind
	color   string
	from    frame.Anchor
	shaping bool
	downX   float64
	downY   float64
}

// NewShape creates a shape waiting for its sizing drag.
func NewShape(env *Env, kind document.ShapeKind, color string) *Shape {
	w := &Shape{shape: kind, color: render.NormalizeColor(color), from: frame.LeftTop, shaping: true}
	w.init(env, w, document.KindShape, "")
	return w
}

func newShapeFromRecord(env *Env, rec document.Record) *Shape {
	w := &Shape{
		shape: rec.Shape.Kind,
		color: render.NormalizeColor(rec.Shape.Color),
		from:  frame.ParseAnchor(rec.Shape.From),
	}
	w.init(env, w, document.KindShape, rec.ID)
	w.apply(rec)
	return w
}

func (w *Shape) ShapeKind() document.ShapeKind { return w.shape }
func (w *Shape) Color() string                 { return w.color }
func (w *Shape) From() frame.Anchor            { return w.from }

// Shaping reports whether the sizing drag is still pending.
func (w *Shape) Shaping() bool { return w.shaping }

// SetSelected defers the frame until the shape has a size.
func (w *Shape) SetSelected(selected bool) {
	if w.shaping {
		w.selected = selected
		return
	}
	w.base.SetSelected(selected)
}

func (w *Shape) OnTouch(ev input.Event) bool {
	if w.shaping {
		return w.sizeByDrag(ev)
	}
	return w.base.OnTouch(ev)
}

// sizeByDrag handles one event of the sizing drag.
func (w *Shape) sizeByDrag(ev input.Event) bool {
	switch ev.Action {
	case input.Down:
		w.downX, w.downY = ev.X, ev.Y
		w.Transform(geom.Rect{Left: ev.X, Top: ev.Y, Right: ev.X, Bottom: ev.Y}, w.rotation, frame.Start, false)
	case input.Move:
		w.Transform(geom.Rect{Left: w.downX, Top: w.downY, Right: ev.X, Bottom: ev.Y}, w.rotation, frame.Operating, false)
	default:
		w.shaping = false
		w.from = arrowFrom(w.rect)
		if w.rect.Width() == 0 || w.rect.Height() == 0 {
			w.notify(EventAbort)
			return true
		}
		w.Transform(w.rect, w.rotation, frame.End, false)
		if w.selected {
			w.base.SetSelected(true)
		}
		w.notify(EventCreated)
	}
	return true
}

// arrowFrom picks the tail corner from the drag direction of an
// unnormalized rect.
func arrowFrom(r geom.Rect) frame.Anchor {
	switch {
	case r.Right > r.Left && r.Bottom < r.Top:
		return frame.LeftBottom
	case r.Right < r.Left && r.Bottom > r.Top:
		return frame.RightTop
	case r.Right < r.Left && r.Bottom < r.Top:
		return frame.RightBottom
	}
	return frame.LeftTop
}

func (w *Shape) drawContent(c render.Canvas) {
	st := render.Style{Color: w.color, Width: shapeStrokeWidth}
	r := w.rect.Normalized()
	switch w.shape {
	case document.ShapeCircle:
		radius := (min(r.Width(), r.Height()) - shapeStrokeWidth) / 2
		if radius <= 0 {
			return
		}
		cx, cy := r.CenterX(), r.CenterY()
		c.StrokeEllipse(geom.Rect{Left: cx - radius, Top: cy - radius, Right: cx + radius, Bottom: cy + radius}, st)
	case document.ShapeArrow:
		st.Round = true
		shaft, head := arrowPath(r.Inset(shapeStrokeWidth, shapeStrokeWidth), w.from)
		c.StrokePolyline(shaft, st)
		c.StrokePolyline(head, st)
	default:
		pd := shapeStrokeWidth / 2
		c.StrokeRect(r.Inset(pd, pd), st)
	}
}

// arrowPath returns the shaft with one barb and the other barb.
func arrowPath(r geom.Rect, from frame.Anchor) (shaft, head []geom.Point) {
	var s, e geom.Point
	switch from {
	case frame.LeftBottom:
		s, e = geom.Point{X: r.Left, Y: r.Bottom}, geom.Point{X: r.Right, Y: r.Top}
	case frame.RightTop:
		s, e = geom.Point{X: r.Right, Y: r.Top}, geom.Point{X: r.Left, Y: r.Bottom}
	case frame.RightBottom:
		s, e = geom.Point{X: r.Right, Y: r.Bottom}, geom.Point{X: r.Left, Y: r.Top}
	default:
		s, e = geom.Point{X: r.Left, Y: r.Top}, geom.Point{X: r.Right, Y: r.Bottom}
	}
	rad := geom.Radian(e.X, e.Y, s.X, s.Y)
	bx := e.X - arrowSize*math.Cos(rad)
	by := e.Y - arrowSize*math.Sin(rad)
	x0, y0 := geom.RotateByRadian(-arrowHeadRadian, bx, by, e.X, e.Y)
	x1, y1 := geom.RotateByRadian(arrowHeadRadian, bx, by, e.X, e.Y)
	return []geom.Point{s, e, {X: x0, Y: y0}}, []geom.Point{e, {X: x1, Y: y1}}
}

func (w *Shape) ToRecord() document.Record {
	rec := w.record()
	rec.Shape = &document.ShapePayload{Kind: w.shape, From: w.from.String(), Color: w.color}
	return rec
}

func (w *Shape) Copy() Widget {
	c := &Shape{shape: w.shape, color: w.color, from: w.from}
	c.init(w.env, c, document.KindShape, "")
	c.rotation = w.rotation
	c.rect = w.copyRect()
	return c
}
