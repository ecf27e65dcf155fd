package widget

import (
	"math"

	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/frame"
	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/history"
	"github.com/inamate/inamate/board-go/internal/input"
	"github.com/inamate/inamate/board-go/internal/render"
	"github.com/inamate/inamate/board-go/internal/typeid"
)

// hooks are the per-variant extension points. base implements defaults;
// variants override by defining the same method on their own type.
type hooks interface {
	drawContent(c render.Canvas)
	touchContent(ev input.Event, local geom.Point) bool
	inSelectArea(ev input.Event, local geom.Point) bool
	buttons() []frame.Button
	transformed(d history.Transform, status frame.Status, record bool)
	selectChanged()
}

// copyOffset is how far a copy is placed from its source.
const copyOffset = 20.0

type base struct {
	env   *Env
	self  Widget
	hooks hooks
	id    string
	kind  document.Kind
	sink  Sink

	rect     geom.Rect
	rotation float64
	selected bool
	frame    *frame.Frame

	// pending accumulates a recorded transform between Start and End.
	pending *history.Transform
	// composite widgets build their own steps instead of the base one.
	composite bool
}

func (b *base) init(env *Env, self Widget, kind document.Kind, id string) {
	if id == "" {
		id = typeid.NewWidgetID()
	}
	b.env = env
	b.self = self
	b.hooks = self.(hooks)
	b.kind = kind
	b.id = id
}

func (b *base) ID() string { return b.id }
func (b *base) Kind() document.Kind { return b.kind }
func (b *base) Bounds() geom.Rect { return b.rect }
func (b *base) Rotation() float64 { return b.rotation }
func (b *base) Selected() bool { return b.selected }
func (b *base) SetSink(s Sink) { b.sink = s }

func (b *base) TransformedBounds() geom.Rect {
	return geom.RotatedBounds(b.rect, b.rotation)
}

func (b *base) notify(kind EventKind) {
	if b.sink != nil {
		b.sink.Notify(Event{Kind: kind, Widget: b.self})
	}
}

func (b *base) emitStep(s *history.Step) {
	if b.sink != nil {
		b.sink.Notify(Event{Kind: EventStep, Widget: b.self, Step: s})
	}
}

// SetSelected shows or hides the selection frame.
func (b *base) SetSelected(selected bool) {
	b.selected = selected
	if b.frame != nil {
		b.frame.Dispose()
		b.frame = nil
	}
	if selected {
		b.frame = frame.New(b.env.frameOptions(), b.rect, b.hooks.buttons(), frame.Callbacks{
			Rotation: func() float64 { return b.rotation },
			ChangeSize: func(r geom.Rect, s frame.Status) {
				b.Transform(r, b.rotation, s, true)
			},
			Rotate: func(rotation float64, s frame.Status) {
				b.Transform(b.rect, rotation, s, true)
			},
			OffsetBy: func(dx, dy float64, s frame.Status) {
				b.Transform(b.rect.Offset(dx, dy), b.rotation, s, true)
			},
		})
	}
	b.hooks.selectChanged()
}

func (b *base) Transform(r geom.Rect, rotation float64, status frame.Status, record bool) {
	if status == frame.End {
		r = b.settle(r, rotation)
	}
	d := history.Transform{
		DX: r.Left - b.rect.Left,
		DY: r.Top - b.rect.Top,
		DW: r.Width() - b.rect.Width(),
		DH: r.Height() - b.rect.Height(),
		DR: rotation - b.rotation,
	}
	b.rect = r
	b.rotation = rotation
	b.onTransformed(d, status, record)
}

// settle normalizes r, floors it to the minimum size and then translates
// it so its rotated bounds lie inside the safe rect. The order matters:
// clamping before normalizing would move the wrong corner.
func (b *base) settle(r geom.Rect, rotation float64) geom.Rect {
	r = r.Normalized()
	if m := b.env.MinSize; m > 0 {
		if r.Width() < m {
			r.Right = r.Left + m
		}
		if r.Height() < m {
			r.Bottom = r.Top + m
		}
	}
	safe := b.env.SafeRect()
	rb := geom.RotatedBounds(r, rotation)
	var dx, dy float64
	switch {
	case rb.Left < safe.Left:
		dx = safe.Left - rb.Left
	case rb.Right > safe.Right:
		dx = safe.Right - rb.Right
	}
	switch {
	case rb.Top < safe.Top:
		dy = safe.Top - rb.Top
	case rb.Bottom > safe.Bottom:
		dy = safe.Bottom - rb.Bottom
	}
	return r.Offset(dx, dy)
}

func (b *base) onTransformed(d history.Transform, status frame.Status, record bool) {
	if d.Moved() && b.frame != nil {
		b.frame.UpdateWidgetRect(b.rect)
	}
	if !d.IsZero() {
		b.notify(EventUpdate)
	}
	if !b.composite {
		b.track(d, status, record)
	}
	b.hooks.transformed(d, status, record)
}

// track folds one phase of a gesture into the pending step and emits it
// at End.
func (b *base) track(d history.Transform, status frame.Status, record bool) {
	switch status {
	case frame.Start:
		if record {
			p := d
			b.pending = &p
		} else {
			b.pending = nil
		}
	case frame.Operating:
		if b.pending != nil {
			b.pending.Accumulate(d)
		}
	case frame.End:
		p := b.pending
		b.pending = nil
		if p == nil || !record {
			return
		}
		p.Accumulate(d)
		if p.IsZero() {
			return
		}
		b.emitStep(history.Single(b.self, p))
	}
}

func (b *base) Undo(op history.Operation) {
	t, ok := op.(*history.Transform)
	if !ok {
		return
	}
	r := geom.Rect{
		Left:   b.rect.Left - t.DX,
		Top:    b.rect.Top - t.DY,
		Right:  b.rect.Right - t.DX - t.DW,
		Bottom: b.rect.Bottom - t.DY - t.DH,
	}
	b.Transform(r, b.rotation-t.DR, frame.End, false)
	b.notify(EventUpdate)
}

func (b *base) Redo(op history.Operation) {
	t, ok := op.(*history.Transform)
	if !ok {
		return
	}
	r := geom.Rect{
		Left:   b.rect.Left + t.DX,
		Top:    b.rect.Top + t.DY,
		Right:  b.rect.Right + t.DX + t.DW,
		Bottom: b.rect.Bottom + t.DY + t.DH,
	}
	b.Transform(r, b.rotation+t.DR, frame.End, false)
	b.notify(EventUpdate)
}

// OnTouch routes an event through the frame and the content. The point is
// first mapped into the widget's unrotated space.
func (b *base) OnTouch(ev input.Event) bool {
	lx, ly := geom.RestoreRotatedPoint(b.rotation, ev.X, ev.Y, b.rect.CenterX(), b.rect.CenterY())
	return b.touch(ev, geom.Point{X: lx, Y: ly})
}

func (b *base) touch(ev input.Event, local geom.Point) bool {
	if b.frame != nil && b.frame.TouchUpper(ev, local) {
		return true
	}
	if b.hooks.touchContent(ev, local) {
		return true
	}
	if b.frame != nil && b.frame.TouchLower(ev, local) {
		return true
	}
	if ev.Action == input.Down {
		return b.hooks.inSelectArea(ev, local)
	}
	return b.selected
}

func (b *base) Draw(c render.Canvas) {
	if b.rect.Width() == 0 || b.rect.Height() == 0 {
		return
	}
	c.Save()
	if b.rotation != 0 {
		c.Rotate(b.rotation, b.rect.CenterX(), b.rect.CenterY())
	}
	framed := b.frame != nil && !b.env.Plain
	clip := b.rect
	if framed {
		clip = b.frame.Bounds()
	}
	c.ClipRect(clip.Normalized().Inset(-1, -1))
	b.hooks.drawContent(c)
	if framed {
		b.frame.Draw(c)
	}
	c.Restore()
}

func (b *base) HitByLasso(p geom.Polygon) bool {
	if b.rect.IsEmpty() {
		return false
	}
	if math.Mod(b.rotation, 360) != 0 {
		p = p.Rotated(-b.rotation, b.rect.Center())
	}
	return p.IntersectsRect(b.rect)
}

func (b *base) Dispose() {
	if b.frame != nil {
		b.frame.Dispose()
		b.frame = nil
	}
	b.pending = nil
}

func (b *base) record() document.Record {
	return document.Record{ID: b.id, Kind: b.kind, Rect: b.rect, Rotation: b.rotation}
}

// apply sets geometry from a record without recording anything.
func (b *base) apply(rec document.Record) {
	b.Transform(rec.Rect, rec.Rotation, frame.End, false)
}

// copyRect offsets a copy down-right, or up-left when that would leave
// the safe rect.
func (b *base) copyRect() geom.Rect {
	r := b.rect.Offset(copyOffset, copyOffset)
	safe := b.env.SafeRect()
	if r.Right > safe.Right || r.Bottom > safe.Bottom {
		r = r.Offset(-2*copyOffset, -2*copyOffset)
	}
	return r
}

// zoom grows or shrinks the widget around its center by f per axis and
// records the change as one step.
func (b *base) zoom(f float64) {
	w, h := b.rect.Width(), b.rect.Height()
	if f < 0 && (w < b.env.Width/10 || h < b.env.Height/10 || w <= 0 || h <= 0) {
		return
	}
	if f > 0 && (w > b.env.Width*2 || h > b.env.Height*2) {
		return
	}
	dw, dh := w*f/2, h*f/2
	r := geom.Rect{
		Left:   b.rect.Left - dw,
		Top:    b.rect.Top - dh,
		Right:  b.rect.Right + dw,
		Bottom: b.rect.Bottom + dh,
	}
	b.Transform(b.rect, b.rotation, frame.Start, true)
	b.Transform(r, b.rotation, frame.End, true)
}

func (b *base) defaultButtons() []frame.Button {
	return []frame.Button{
		{Icon: IconMove, OnDrag: func(s frame.Status, lastX, lastY, x, y float64) {
			b.Transform(b.rect.Offset(x-lastX, y-lastY), b.rotation, s, true)
		}},
		{Icon: IconZoomOut, OnClick: func() { b.zoom(-0.25) }},
		{Icon: IconZoomIn, OnClick: func() { b.zoom(0.25) }},
		{Icon: IconCopy, OnClick: func() { b.notify(EventCopy) }},
		{Icon: IconDelete, OnClick: func() { b.notify(EventDelete) }},
	}
}

// Default hook implementations.

func (b *base) drawContent(render.Canvas) {}

func (b *base) touchContent(input.Event, geom.Point) bool { return false }

func (b *base) inSelectArea(_ input.Event, local geom.Point) bool {
	return b.rect.Contains(local.X, local.Y)
}

func (b *base) buttons() []frame.Button { return b.defaultButtons() }

func (b *base) transformed(history.Transform, frame.Status, bool) {}

func (b *base) selectChanged() {}
