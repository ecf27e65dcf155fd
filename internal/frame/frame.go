// Package frame implements the selection overlay drawn around the active
// widget: eight resize handles, a rotate handle and a row of action buttons.
// It converts raw pointer deltas into transform calls on its owner and never
// records history itself.
package frame

import (
	"image"
	"math"

	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/input"
	"github.com/inamate/inamate/board-go/internal/render"
)

// Status is the phase of an incremental operation.
type Status int

const (
	Start Status = iota
	Operating
	End
)

func (s Status) String() string {
	switch s {
	case Start:
		return "start"
	case Operating:
		return "operating"
	case End:
		return "end"
	}
	return "unknown"
}

// Anchor names a resize handle, or the corner an arrow starts from.
type Anchor int

const (
	Top Anchor = iota
	Bottom
	Left
	Right
	LeftTop
	RightTop
	LeftBottom
	RightBottom
)

var anchorNames = [...]string{"TOP", "BOTTOM", "LEFT", "RIGHT", "LEFT_TOP", "RIGHT_TOP", "LEFT_BOTTOM", "RIGHT_BOTTOM"}

func (a Anchor) String() string {
	if a < 0 || int(a) >= len(anchorNames) {
		return "LEFT_TOP"
	}
	return anchorNames[a]
}

// ParseAnchor maps a persisted name back to an Anchor, LeftTop if unknown.
func ParseAnchor(s string) Anchor {
	for i, n := range anchorNames {
		if n == s {
			return Anchor(i)
		}
	}
	return LeftTop
}

// Thresholds coalesce pointer jitter. Zero disables a threshold.
type Thresholds struct {
	MoveMinSpace    float64
	SizeMinDiff     int
	RotateMinDegree float64
}

// Button is an action button under the widget. OnDrag receives the previous
// and current raw pointer positions.
type Button struct {
	Icon    string
	OnClick func()
	OnDrag  func(status Status, lastX, lastY, x, y float64)
}

// Callbacks connect the frame to the widget it decorates.
type Callbacks struct {
	Rotation   func() float64
	ChangeSize func(r geom.Rect, status Status)
	Rotate     func(rotation float64, status Status)
	OffsetBy   func(dx, dy float64, status Status)
}

// Options are fixed per board.
type Options struct {
	BoardWidth float64
	Thresholds Thresholds
	Icon       func(name string) image.Image
}

const (
	rootLineHeight   = 25.0
	btnSpace         = 15.0
	btnSize          = 40.0
	btnPadding       = btnSize / 10
	handleHalfSize   = 12.0
	strokeWidth      = 2.0
	originalBtnAngle = -90.0
	IconRotate       = "rotate"
)

type button struct {
	local geom.Rect // relative to the widget's top-left
	icon  geom.Rect
	touch geom.Rect
	def   Button
	drag  bool
}

type handle struct {
	local  geom.Rect
	touch  geom.Rect
	anchor Anchor
}

type segment struct{ a, b geom.Point }

// Frame is the overlay for one selected widget.
type Frame struct {
	opts    Options
	cb      Callbacks
	rect    geom.Rect
	buttons []*button
	rotate  *button
	handles [8]*handle

	rotating bool

	maxPerLine int
	areaWidth  float64

	outline []segment // local coordinates
	boxes   []geom.Rect
	bounds  geom.Rect // absolute

	pressedBtn    *button
	pressedHandle *handle
	sizeChanged   bool

	lastBtn  *geom.Point
	lastMove *geom.Point
}

// New builds a frame around rect.
func New(opts Options, rect geom.Rect, buttons []Button, cb Callbacks) *Frame {
	f := &Frame{opts: opts, cb: cb, rect: rect}
	for _, b := range buttons {
		f.buttons = append(f.buttons, &button{def: b})
	}
	for i := range f.handles {
		f.handles[i] = &handle{anchor: Anchor(i)}
	}
	f.maxPerLine = int(math.Ceil((opts.BoardWidth + btnSpace) / (btnSize + btnSpace)))
	if f.maxPerLine < 1 {
		f.maxPerLine = 1
	}
	lines := int(math.Ceil(float64(len(buttons)) / float64(f.maxPerLine)))
	if lines <= 1 {
		n := float64(len(buttons))
		f.areaWidth = n*btnSize + (n-1)*btnSpace
	} else {
		f.areaWidth = opts.BoardWidth
	}
	f.rotate = &button{def: Button{Icon: IconRotate, OnDrag: f.dragRotate}}
	f.layout()
	return f
}

// Bounds is the area covered by the outline, handles and buttons.
func (f *Frame) Bounds() geom.Rect { return f.bounds }

// HandleRect returns the absolute touch rect of a resize handle.
func (f *Frame) HandleRect(a Anchor) geom.Rect { return f.handles[a].touch }

// ButtonRect returns the absolute touch rect of the i-th action button.
func (f *Frame) ButtonRect(i int) geom.Rect { return f.buttons[i].touch }

// RotateRect returns the absolute touch rect of the rotate handle.
func (f *Frame) RotateRect() geom.Rect { return f.rotate.touch }

// UpdateWidgetRect follows the widget. A pure move only shifts the cached
// geometry; a resize lays everything out again.
func (f *Frame) UpdateWidgetRect(r geom.Rect) {
	old := f.rect
	f.rect = r
	if geom.SameSize(old, r, f.opts.Thresholds.SizeMinDiff) {
		f.bounds = f.bounds.Offset(r.Left-old.Left, r.Top-old.Top)
		f.offset()
		return
	}
	f.layout()
}

func (f *Frame) layout() {
	ww, wh := f.rect.Width(), f.rect.Height()
	cx, cy := ww/2, wh/2

	startX := cx - f.areaWidth/2
	startY := wh + rootLineHeight + btnSpace
	for i, b := range f.buttons {
		left := startX + (btnSize+btnSpace)*float64(i%f.maxPerLine)
		top := startY + (btnSize+btnSpace)*float64(i/f.maxPerLine)
		b.local = geom.RectXYWH(left, top, btnSize, btnSize)
	}
	f.rotate.local = geom.Rect{
		Left: cx - btnSize/2, Top: -rootLineHeight - btnSize,
		Right: cx + btnSize/2, Bottom: -rootLineHeight,
	}

	centers := [8]geom.Point{
		Top: {X: cx, Y: 0}, Bottom: {X: cx, Y: wh},
		Left: {X: 0, Y: cy}, Right: {X: ww, Y: cy},
		LeftTop: {X: 0, Y: 0}, RightTop: {X: ww, Y: 0},
		LeftBottom: {X: 0, Y: wh}, RightBottom: {X: ww, Y: wh},
	}
	for i, h := range f.handles {
		c := centers[i]
		h.local = geom.Rect{
			Left: c.X - handleHalfSize, Top: c.Y - handleHalfSize,
			Right: c.X + handleHalfSize, Bottom: c.Y + handleHalfSize,
		}
	}

	f.outline = f.outline[:0]
	f.boxes = f.boxes[:0]
	f.boxes = append(f.boxes, geom.Rect{Right: ww, Bottom: wh})
	if len(f.buttons) > 0 {
		stopY := wh + rootLineHeight
		f.line(cx, wh, cx, stopY)
		first, last := f.buttons[0].local, f.buttons[len(f.buttons)-1].local
		f.line(first.CenterX(), stopY, last.CenterX(), stopY)
	}
	for _, b := range f.buttons {
		f.boxes = append(f.boxes, b.local)
		f.line(b.local.CenterX(), b.local.Top, b.local.CenterX(), b.local.Top-btnSpace)
	}
	f.boxes = append(f.boxes, f.rotate.local)
	f.line(f.rotate.local.CenterX(), f.rotate.local.Bottom, f.rotate.local.CenterX(), f.rotate.local.Bottom+rootLineHeight)
	for _, h := range f.handles {
		f.boxes = append(f.boxes, h.local)
	}

	var local geom.Rect
	grow := func(r geom.Rect) {
		r = r.Inset(-strokeWidth/2, -strokeWidth/2)
		if local == (geom.Rect{}) {
			local = r
			return
		}
		local = geom.Rect{
			Left: min(local.Left, r.Left), Top: min(local.Top, r.Top),
			Right: max(local.Right, r.Right), Bottom: max(local.Bottom, r.Bottom),
		}
	}
	for _, b := range f.boxes {
		grow(b)
	}
	for _, s := range f.outline {
		grow(geom.Rect{Left: min(s.a.X, s.b.X), Top: min(s.a.Y, s.b.Y), Right: max(s.a.X, s.b.X), Bottom: max(s.a.Y, s.b.Y)})
	}
	f.bounds = local.Offset(f.rect.Left, f.rect.Top)
	f.offset()
}

func (f *Frame) line(x0, y0, x1, y1 float64) {
	f.outline = append(f.outline, segment{geom.Point{X: x0, Y: y0}, geom.Point{X: x1, Y: y1}})
}

func (f *Frame) offset() {
	dx, dy := f.rect.Left, f.rect.Top
	place := func(b *button) {
		b.touch = b.local.Offset(dx, dy)
		b.icon = b.touch.Inset(btnPadding, btnPadding)
	}
	for _, b := range f.buttons {
		place(b)
	}
	place(f.rotate)
	for _, h := range f.handles {
		h.touch = h.local.Offset(dx, dy)
	}
}

// Draw paints the outline, boxes and icons in the widget's unrotated space.
func (f *Frame) Draw(c render.Canvas) {
	style := render.Style{Color: render.DefaultColor, Width: strokeWidth}
	dx, dy := f.rect.Left, f.rect.Top
	for _, b := range f.boxes {
		c.StrokeRect(b.Offset(dx, dy), style)
	}
	for _, s := range f.outline {
		c.StrokeLine(s.a.X+dx, s.a.Y+dy, s.b.X+dx, s.b.Y+dy, style)
	}
	if f.opts.Icon == nil {
		return
	}
	for _, b := range f.buttons {
		f.drawIcon(c, b)
	}
	f.drawIcon(c, f.rotate)
}

func (f *Frame) drawIcon(c render.Canvas, b *button) {
	if b.icon.IsEmpty() {
		return
	}
	if img := f.opts.Icon(b.def.Icon); img != nil {
		c.DrawImage("icon/"+b.def.Icon, img, geom.Rect{}, b.icon)
	}
}

// TouchUpper handles buttons and resize handles. local is the touch point
// mapped into the widget's unrotated space.
func (f *Frame) TouchUpper(ev input.Event, local geom.Point) bool {
	if f.touchDownButton(ev, local) {
		return true
	}
	if f.touchHandle(ev, local) {
		return true
	}
	return f.touchButtons(ev, local)
}

// TouchLower handles dragging the widget body. It runs only when the
// widget's own content did not consume the event.
func (f *Frame) TouchLower(ev input.Event, local geom.Point) bool {
	switch ev.Action {
	case input.Down:
		if !f.rect.Contains(local.X, local.Y) {
			f.lastMove = nil
			return false
		}
		f.lastMove = &geom.Point{X: ev.X, Y: ev.Y}
		f.cb.OffsetBy(0, 0, Start)
		return true
	case input.Move:
		if f.lastMove == nil {
			f.lastMove = &geom.Point{X: ev.X, Y: ev.Y}
			f.cb.OffsetBy(0, 0, Start)
			return true
		}
		dx, dy := ev.X-f.lastMove.X, ev.Y-f.lastMove.Y
		if math.Abs(dx) < f.opts.Thresholds.MoveMinSpace && math.Abs(dy) < f.opts.Thresholds.MoveMinSpace {
			return true
		}
		f.lastMove = &geom.Point{X: ev.X, Y: ev.Y}
		f.cb.OffsetBy(dx, dy, Operating)
	default:
		f.lastMove = nil
		f.cb.OffsetBy(0, 0, End)
	}
	return true
}

// Dispose drops pointer state.
func (f *Frame) Dispose() {
	f.pressedBtn = nil
	f.pressedHandle = nil
	f.lastBtn = nil
	f.lastMove = nil
}

func (f *Frame) touchHandle(ev input.Event, local geom.Point) bool {
	x, y := local.X, local.Y
	if f.pressedHandle == nil {
		if ev.Action == input.Down {
			for _, h := range f.handles {
				if h.touch.Contains(x, y) {
					f.pressedHandle = h
					f.lastBtn = &geom.Point{X: x, Y: y}
					return true
				}
			}
		}
		return false
	}
	if f.lastBtn == nil {
		return false
	}
	if ev.Action == input.Move {
		dx, dy := x-f.lastBtn.X, y-f.lastBtn.Y
		minDiff := float64(f.opts.Thresholds.SizeMinDiff)
		if math.Abs(dx) < minDiff && math.Abs(dy) < minDiff {
			return true
		}
		r, ox, oy := resize(f.rect, f.pressedHandle.anchor, dx, dy, geom.AngleToRadian(f.cb.Rotation()))
		f.lastBtn = &geom.Point{X: x, Y: y}
		status := Operating
		if !f.sizeChanged {
			status = Start
		}
		f.sizeChanged = true
		f.cb.ChangeSize(r.Offset(ox, oy), status)
		return true
	}
	if f.sizeChanged {
		f.sizeChanged = false
		f.cb.ChangeSize(f.rect, End)
	}
	f.pressedHandle = nil
	return true
}

// resize applies half of the pointer delta to both edges along the handle's
// axes and returns the shift of the unrotated center that keeps the dragged
// edge under the pointer when the widget is rotated.
func resize(r geom.Rect, a Anchor, dx, dy, radian float64) (geom.Rect, float64, float64) {
	hdx, hdy := dx/2, dy/2
	sin, cos := math.Sincos(radian)
	var ox, oy float64
	switch a {
	case Top:
		r.Top += hdy
		r.Bottom -= hdy
		ox, oy = -sin*hdy, cos*hdy
	case Bottom:
		r.Top -= hdy
		r.Bottom += hdy
		ox, oy = -sin*hdy, cos*hdy
	case Left:
		r.Left += hdx
		r.Right -= hdx
		ox, oy = cos*hdx, sin*hdx
	case Right:
		r.Left -= hdx
		r.Right += hdx
		ox, oy = cos*hdx, sin*hdx
	default:
		if a == LeftTop || a == LeftBottom {
			r.Left += hdx
			r.Right -= hdx
		} else {
			r.Left -= hdx
			r.Right += hdx
		}
		if a == LeftTop || a == RightTop {
			r.Top += hdy
			r.Bottom -= hdy
		} else {
			r.Top -= hdy
			r.Bottom += hdy
		}
		ox = cos*hdx - sin*hdy
		oy = sin*hdx + cos*hdy
	}
	return r, ox, oy
}

func (f *Frame) touchDownButton(ev input.Event, local geom.Point) bool {
	if ev.Action != input.Down {
		return false
	}
	hit := func(b *button) bool {
		if !b.touch.Contains(local.X, local.Y) {
			return false
		}
		f.pressedBtn = b
		f.lastBtn = &geom.Point{X: ev.X, Y: ev.Y}
		return true
	}
	if hit(f.rotate) {
		return true
	}
	for _, b := range f.buttons {
		if hit(b) {
			return true
		}
	}
	f.lastBtn = nil
	return false
}

func (f *Frame) touchButtons(ev input.Event, local geom.Point) bool {
	if f.lastBtn == nil {
		return false
	}
	last := *f.lastBtn
	pb := f.pressedBtn
	switch ev.Action {
	case input.Move:
		if pb != nil && pb.def.OnDrag != nil {
			status := Operating
			if !pb.drag {
				pb.drag = true
				status = Start
			}
			pb.def.OnDrag(status, last.X, last.Y, ev.X, ev.Y)
		}
		f.lastBtn = &geom.Point{X: ev.X, Y: ev.Y}
		return pb != nil
	case input.Up:
		if pb != nil && pb.touch.Contains(local.X, local.Y) && pb.def.OnClick != nil {
			pb.def.OnClick()
		}
		f.endDrag(pb, last, ev)
		f.pressedBtn = nil
		f.lastBtn = nil
		return pb != nil
	case input.Cancel:
		f.lastBtn = nil
		f.endDrag(pb, last, ev)
		f.pressedBtn = nil
		return pb != nil
	}
	return false
}

func (f *Frame) endDrag(b *button, last geom.Point, ev input.Event) {
	if b == nil || !b.drag {
		return
	}
	b.drag = false
	if b.def.OnDrag != nil {
		b.def.OnDrag(End, last.X, last.Y, ev.X, ev.Y)
	}
}

// dragRotate starts the rotation on the first move past the threshold, so
// the Start a widget sees always carries an applied rotation.
func (f *Frame) dragRotate(status Status, _, _, x, y float64) {
	angle := geom.Angle(x, y, f.rect.CenterX(), f.rect.CenterY())
	rotation := angle - originalBtnAngle
	if status == End {
		if f.rotating {
			f.rotating = false
			f.cb.Rotate(rotation, End)
		}
		return
	}
	if math.Abs(rotation-f.cb.Rotation()) < f.opts.Thresholds.RotateMinDegree {
		return
	}
	if !f.rotating {
		f.rotating = true
		f.cb.Rotate(rotation, Start)
		return
	}
	f.cb.Rotate(rotation, Operating)
}
