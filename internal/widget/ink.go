package widget

import (
	"context"
	"fmt"
	"image"
	"slices"

	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/frame"
	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/history"
	"github.com/inamate/inamate/board-go/internal/input"
	"github.com/inamate/inamate/board-go/internal/render"
	"github.com/inamate/inamate/board-go/internal/task"
)

// DefaultPenWidth is the pen width of a new ink widget.
const DefaultPenWidth = 10.0

// KindStrokeAdd tags a committed stroke.
const KindStrokeAdd history.Kind = "strokeAdd"

// StrokeAdd records one committed stroke.
type StrokeAdd struct{ Stroke *Stroke }

func (*StrokeAdd) Kind() history.Kind { return KindStrokeAdd }

// InkPoint is a sampled pen position.
type InkPoint struct {
	X, Y     float64
	Pressure float64
}

// Stroke is one pen-down to pen-up gesture. Points are in live board
// coordinates, that is at the current board scale.
type Stroke struct {
	Pen    document.Pen
	Width  float64
	Color  string
	Points []InkPoint
}

func (s *Stroke) clone() *Stroke {
	c := *s
	c.Points = slices.Clone(s.Points)
	return &c
}

// bounds is the area the stroke paints. Erasers paint nothing.
func (s *Stroke) bounds() geom.Rect {
	var r geom.Rect
	if s.Pen != document.PenPencil {
		return r
	}
	for _, p := range s.Points {
		w := s.Width * p.Pressure
		r = r.Union(geom.Rect{Left: p.X - w, Top: p.Y - w, Right: p.X + w, Bottom: p.Y + w})
	}
	return r
}

func (s *Stroke) geomPoints() []geom.Point {
	pts := make([]geom.Point, len(s.Points))
	for i, p := range s.Points {
		pts[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return pts
}

func drawStroke(layer *render.Raster, s *Stroke) {
	switch s.Pen {
	case document.PenEraser:
		layer.ErasePolyline(s.geomPoints(), s.Width)
	case document.PenEnclosedEraser:
		layer.ErasePolygon(s.geomPoints())
	default:
		for i := 1; i < len(s.Points); i++ {
			a, b := s.Points[i-1], s.Points[i]
			layer.StrokeLine(a.X, a.Y, b.X, b.Y, render.Style{Color: s.Color, Width: s.Width * b.Pressure, Round: true})
		}
	}
}

// Ink is the handwriting layer. Strokes are rasterized into a board-sized
// layer; a committed transform is first shown as a stretched preview of
// that layer and folded into the points when the widget is deselected.
type Ink struct {
	base
	strokes []*Stroke

	editing  bool
	pen      document.Pen
	penWidth float64
	penColor string

	// scale is the board scale the points are stored at.
	scale float64

	current []InkPoint
	drawing bool
	lasso   []geom.Point

	layer *render.Raster
	rev   uint64
	slot  *task.Slot

	// oldRect is the layer area a pending transform started from.
	oldRect *geom.Rect

	// edits keeps the geometry around each recorded transform so undo and
	// redo do not depend on where the points were folded afterwards.
	edits     map[*history.Transform]*inkEdit
	editOrder []*history.Transform
	gesture   *history.Transform
	from      inkState
}

// inkState is the full geometry of an ink widget at one moment.
type inkState struct {
	strokes []*Stroke
	widths  []float64
	points  [][]InkPoint
	rect    geom.Rect
	rot     float64
	oldRect *geom.Rect
	scale   float64
}

type inkEdit struct{ before, after inkState }

func (w *Ink) capture(r geom.Rect, rot float64, old *geom.Rect) inkState {
	st := inkState{
		strokes: slices.Clone(w.strokes),
		widths:  make([]float64, len(w.strokes)),
		points:  make([][]InkPoint, len(w.strokes)),
		rect:    r,
		rot:     rot,
		scale:   w.scale,
	}
	for i, s := range w.strokes {
		st.widths[i] = s.Width
		st.points[i] = slices.Clone(s.Points)
	}
	if old != nil {
		o := *old
		st.oldRect = &o
	}
	return st
}

// restore puts back a captured state, then brings it to the current
// board scale and folds it in unless the widget is selected.
func (w *Ink) restore(st inkState) {
	cur := w.scale
	w.strokes = slices.Clone(st.strokes)
	for i, s := range w.strokes {
		s.Width = st.widths[i]
		s.Points = slices.Clone(st.points[i])
	}
	w.rect, w.rotation, w.scale = st.rect, st.rot, st.scale
	w.oldRect = nil
	if st.oldRect != nil {
		o := *st.oldRect
		w.oldRect = &o
	}
	w.redraw()
	w.SetBoardScale(cur)
	if !w.selected {
		w.rebucket()
	}
	if w.frame != nil {
		w.frame.UpdateWidgetRect(w.rect)
	}
	w.notify(EventUpdate)
}

func (w *Ink) remember(t *history.Transform, e *inkEdit) {
	if w.edits == nil {
		w.edits = make(map[*history.Transform]*inkEdit)
	}
	w.edits[t] = e
	w.editOrder = append(w.editOrder, t)
	if over := len(w.editOrder) - history.DefaultCapacity; over > 0 {
		for _, old := range w.editOrder[:over] {
			delete(w.edits, old)
		}
		w.editOrder = slices.Delete(w.editOrder, 0, over)
	}
}

// NewInk creates an empty ink widget.
func NewInk(env *Env) *Ink {
	return newInk(env, "")
}

func newInk(env *Env, id string) *Ink {
	w := &Ink{
		pen:      document.PenPencil,
		penWidth: DefaultPenWidth,
		penColor: render.DefaultColor,
		scale:    env.scale(),
		layer:    render.NewRaster(int(env.Width), int(env.Height)),
		slot:     task.NewSlot(env.Exec, env.Post),
	}
	w.init(env, w, document.KindHandwrite, id)
	return w
}

func newInkFromRecord(env *Env, rec document.Record) *Ink {
	w := newInk(env, rec.ID)
	for _, sr := range rec.Ink.Strokes {
		s := &Stroke{Pen: sr.Pen, Width: sr.Width, Color: render.NormalizeColor(sr.Color)}
		for _, p := range sr.Points {
			s.Points = append(s.Points, InkPoint{X: p.X, Y: p.Y, Pressure: pressure(p.Pressure)})
		}
		w.strokes = append(w.strokes, s)
	}
	w.scaleStrokes(w.scale)
	w.rect = w.strokeBounds()
	if w.rect.IsEmpty() {
		w.rect = rec.Rect
	}
	w.redraw()
	return w
}

func pressure(p float64) float64 {
	if p <= 0 {
		return 1
	}
	return p
}

func (w *Ink) center() (float64, float64) { return w.env.Width / 2, w.env.Height / 2 }

// Editing reports whether touches draw strokes.
func (w *Ink) Editing() bool { return w.editing }

// SetEditing turns handwriting on or off. Any gesture in progress is dropped.
func (w *Ink) SetEditing(editing bool) {
	if w.drawing {
		w.drawing = false
		w.current = nil
		w.redraw()
	}
	w.lasso = nil
	w.editing = editing
	w.notify(EventUpdate)
}

func (w *Ink) Pen() document.Pen { return w.pen }
func (w *Ink) PenWidth() float64 { return w.penWidth }
func (w *Ink) PenColor() string  { return w.penColor }

// SetPen selects the pen for new strokes. A non-positive width keeps the
// current one.
func (w *Ink) SetPen(pen document.Pen, width float64, color string) {
	w.pen = pen
	if width > 0 {
		w.penWidth = width
	}
	if color != "" {
		w.penColor = render.NormalizeColor(color)
	}
}

// StrokeCount is the number of committed strokes.
func (w *Ink) StrokeCount() int { return len(w.strokes) }

// Strokes returns copies of the committed strokes.
func (w *Ink) Strokes() []Stroke {
	out := make([]Stroke, len(w.strokes))
	for i, s := range w.strokes {
		out[i] = *s.clone()
	}
	return out
}

// Layer returns the rasterized strokes and the revision they reflect.
func (w *Ink) Layer() (image.Image, uint64) { return w.layer.Image(), w.rev }

// LayerRef names the current layer raster for remote canvases.
func (w *Ink) LayerRef() string { return fmt.Sprintf("layer/%s/%d", w.id, w.rev) }

func (w *Ink) strokeBounds() geom.Rect {
	var r geom.Rect
	for _, s := range w.strokes {
		r = r.Union(s.bounds())
	}
	return r
}

func (w *Ink) scaleStrokes(f float64) {
	if f == 1 {
		return
	}
	cx, cy := w.center()
	for _, s := range w.strokes {
		s.Width *= f
		for i := range s.Points {
			p := &s.Points[i]
			p.X = (p.X-cx)*f + cx
			p.Y = (p.Y-cy)*f + cy
		}
	}
}

// SetBoardScale moves the points to a new board scale. While a transform
// preview is pending only the rect follows; the points catch up when the
// preview is folded in.
func (w *Ink) SetBoardScale(s float64) {
	if s <= 0 || s == w.scale {
		return
	}
	f := s / w.scale
	w.scale = s
	cx, cy := w.center()
	if w.oldRect != nil {
		w.rect = geom.Rect{
			Left:   (w.rect.Left-cx)*f + cx,
			Top:    (w.rect.Top-cy)*f + cy,
			Right:  (w.rect.Right-cx)*f + cx,
			Bottom: (w.rect.Bottom-cy)*f + cy,
		}
	} else {
		w.scaleStrokes(f)
		w.rect = w.strokeBounds()
		w.redraw()
	}
	if w.frame != nil {
		w.frame.UpdateWidgetRect(w.rect)
	}
	w.notify(EventUpdate)
}

// Flush folds a pending transform preview into the points.
func (w *Ink) Flush() { w.rebucket() }

func (w *Ink) rebucket() {
	old := w.oldRect
	if old == nil {
		return
	}
	w.oldRect = nil
	rot := w.rotation
	ox, oy := w.rect.Left-old.Left, w.rect.Top-old.Top
	sx, sy := 1.0, 1.0
	if old.Width() != 0 {
		sx = w.rect.Width() / old.Width()
	}
	if old.Height() != 0 {
		sy = w.rect.Height() / old.Height()
	}
	if rot == 0 && ox == 0 && oy == 0 && sx == 1 && sy == 1 {
		return
	}
	cx, cy := w.rect.CenterX(), w.rect.CenterY()
	for _, s := range w.strokes {
		for i := range s.Points {
			p := &s.Points[i]
			x := (p.X+ox-w.rect.Left)*sx + w.rect.Left
			y := (p.Y+oy-w.rect.Top)*sy + w.rect.Top
			p.X, p.Y = geom.Rotate(rot, x, y, cx, cy)
		}
	}
	w.rotation = 0
	if r := w.strokeBounds(); !r.IsEmpty() {
		w.rect = r
	}
	if w.frame != nil {
		w.frame.UpdateWidgetRect(w.rect)
	}
	w.redraw()
	w.notify(EventUpdate)
}

// redraw rebuilds the layer from the strokes off the owner stream. A
// result is dropped and the job restarted if the layer changed meanwhile.
func (w *Ink) redraw() {
	w.rev++
	rev := w.rev
	snap := make([]*Stroke, 0, len(w.strokes)+1)
	for _, s := range w.strokes {
		snap = append(snap, s.clone())
	}
	if w.drawing && len(w.current) > 0 {
		snap = append(snap, &Stroke{Pen: w.pen, Width: w.penWidth, Color: w.penColor, Points: slices.Clone(w.current)})
	}
	wd, ht := int(w.env.Width), int(w.env.Height)
	w.slot.Run(func(ctx context.Context) func() {
		layer := render.NewRaster(wd, ht)
		for _, s := range snap {
			if ctx.Err() != nil {
				return nil
			}
			drawStroke(layer, s)
		}
		return func() {
			if w.rev != rev {
				w.redraw()
				return
			}
			w.layer = layer
			w.notify(EventUpdate)
		}
	})
}

// OnTouch maps the event from board space to the live space the points
// live in before routing it.
func (w *Ink) OnTouch(ev input.Event) bool {
	if w.scale != 1 {
		cx, cy := w.center()
		ev.X = (ev.X-cx)*w.scale + cx
		ev.Y = (ev.Y-cy)*w.scale + cy
	}
	lx, ly := geom.RestoreRotatedPoint(w.rotation, ev.X, ev.Y, w.rect.CenterX(), w.rect.CenterY())
	return w.touch(ev, geom.Point{X: lx, Y: ly})
}

func (w *Ink) touchContent(ev input.Event, _ geom.Point) bool {
	if !w.editing {
		return false
	}
	if ev.Tool != input.ToolStylus && ev.Tool != input.ToolEraser {
		return false
	}
	if w.pen == document.PenEnclosedEraser && ev.Tool != input.ToolEraser {
		w.enclosedErase(ev)
		return true
	}
	if w.inDeadArea(ev) {
		ev.Action = input.Cancel
	}
	w.handwrite(ev)
	return true
}

func (w *Ink) inDeadArea(ev input.Event) bool {
	if w.env.DeadAreas == nil {
		return false
	}
	x, y := ev.X, ev.Y
	if w.scale != 1 {
		cx, cy := w.center()
		x = (x-cx)/w.scale + cx
		y = (y-cy)/w.scale + cy
	}
	for _, r := range w.env.DeadAreas() {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

func (w *Ink) enclosedErase(ev input.Event) {
	p := InkPoint{X: ev.X, Y: ev.Y, Pressure: pressure(ev.Pressure)}
	switch ev.Action {
	case input.Down:
		w.lasso = []geom.Point{{X: ev.X, Y: ev.Y}}
		w.current = []InkPoint{p}
	case input.Move:
		if w.lasso != nil {
			w.lasso = append(w.lasso, geom.Point{X: ev.X, Y: ev.Y})
			w.current = append(w.current, p)
		}
	case input.Up:
		pts := w.current
		w.lasso, w.current = nil, nil
		if len(pts) >= 3 {
			s := &Stroke{Pen: document.PenEnclosedEraser, Width: w.penWidth, Points: pts}
			w.layer.ErasePolygon(s.geomPoints())
			w.commit(s)
		}
	default:
		w.lasso, w.current = nil, nil
	}
	w.notify(EventUpdate)
}

func (w *Ink) handwrite(ev input.Event) {
	pen := w.pen
	if ev.Tool == input.ToolEraser {
		pen = document.PenEraser
	}
	p := InkPoint{X: ev.X, Y: ev.Y, Pressure: pressure(ev.Pressure)}
	switch ev.Action {
	case input.Down:
		w.drawing = true
		w.current = []InkPoint{p}
	case input.Move:
		if !w.drawing {
			w.drawing = true
			w.current = []InkPoint{p}
			return
		}
		last := w.current[len(w.current)-1]
		w.current = append(w.current, p)
		w.rev++
		if pen == document.PenEraser {
			w.layer.ErasePolyline([]geom.Point{{X: last.X, Y: last.Y}, {X: p.X, Y: p.Y}}, w.penWidth)
		} else {
			lw := w.penWidth * p.Pressure
			w.layer.StrokeLine(last.X, last.Y, p.X, p.Y, render.Style{Color: w.penColor, Width: lw, Round: true})
			seg := geom.Rect{
				Left:   max(0, min(last.X, p.X)-lw),
				Top:    max(0, min(last.Y, p.Y)-lw),
				Right:  min(w.env.Width, max(last.X, p.X)+lw),
				Bottom: min(w.env.Height, max(last.Y, p.Y)+lw),
			}
			w.rect = w.rect.Union(seg)
		}
		w.notify(EventUpdate)
	case input.Up:
		if !w.drawing {
			return
		}
		w.drawing = false
		s := &Stroke{Pen: pen, Width: w.penWidth, Color: w.penColor, Points: w.current}
		w.current = nil
		w.commit(s)
	default:
		if !w.drawing {
			return
		}
		w.drawing = false
		w.current = nil
		w.redraw()
		w.notify(EventUpdate)
	}
}

func (w *Ink) commit(s *Stroke) {
	w.strokes = append(w.strokes, s)
	w.rev++
	w.rect = w.rect.Union(s.bounds())
	w.emitStep(history.Single(w, &StrokeAdd{Stroke: s}))
	w.notify(EventUpdate)
}

func (w *Ink) inSelectArea(ev input.Event, _ geom.Point) bool {
	for _, s := range w.strokes {
		if s.bounds().Contains(ev.X, ev.Y) {
			return true
		}
	}
	return false
}

func (w *Ink) transformed(d history.Transform, status frame.Status, record bool) {
	prev := geom.Rect{
		Left:   w.rect.Left - d.DX,
		Top:    w.rect.Top - d.DY,
		Right:  w.rect.Right - d.DX - d.DW,
		Bottom: w.rect.Bottom - d.DY - d.DH,
	}
	if status == frame.Start {
		w.gesture = nil
		if record && w.pending != nil {
			w.gesture = w.pending
			w.from = w.capture(prev, w.rotation-d.DR, w.oldRect)
		}
	}
	if w.oldRect == nil && !d.IsZero() {
		w.oldRect = &prev
	}
	if status != frame.End {
		return
	}
	if g := w.gesture; g != nil && record && !g.IsZero() {
		w.remember(g, &inkEdit{before: w.from, after: w.capture(w.rect, w.rotation, w.oldRect)})
	}
	w.gesture = nil
	w.from = inkState{}
	if !w.selected {
		w.rebucket()
	}
}

func (w *Ink) selectChanged() {
	if !w.selected {
		w.rebucket()
	}
}

func (w *Ink) Draw(c render.Canvas) {
	if w.rect.IsEmpty() && len(w.lasso) == 0 && !w.drawing {
		return
	}
	c.Save()
	if w.scale != 1 {
		cx, cy := w.center()
		c.Scale(1/w.scale, 1/w.scale, cx, cy)
	}
	img := w.layer.Image()
	if w.oldRect == nil {
		c.DrawImage(w.LayerRef(), img, geom.Rect{}, geom.Rect{Right: w.env.Width, Bottom: w.env.Height})
		if len(w.lasso) > 1 && !w.env.Plain {
			c.StrokePolyline(w.lasso, render.Style{Width: 2, Dash: []float64{5, 10}, Closed: true})
		}
	} else {
		if w.rotation != 0 {
			c.Rotate(w.rotation, w.rect.CenterX(), w.rect.CenterY())
		}
		c.DrawImage(w.LayerRef(), img, *w.oldRect, w.rect)
	}
	if w.frame != nil && !w.env.Plain {
		w.frame.Draw(c)
	}
	c.Restore()
}

// HitByLasso tests stroke bounds against a lasso drawn in board space.
func (w *Ink) HitByLasso(p geom.Polygon) bool {
	w.rebucket()
	cx, cy := w.center()
	for _, s := range w.strokes {
		b := s.bounds()
		if b.IsEmpty() {
			continue
		}
		b = geom.Rect{
			Left:   (b.Left-cx)/w.scale + cx,
			Top:    (b.Top-cy)/w.scale + cy,
			Right:  (b.Right-cx)/w.scale + cx,
			Bottom: (b.Bottom-cy)/w.scale + cy,
		}
		if p.IntersectsRect(b) {
			return true
		}
	}
	return false
}

func (w *Ink) Undo(op history.Operation) {
	if t, ok := op.(*history.Transform); ok {
		if e := w.edits[t]; e != nil {
			w.restore(e.before)
			return
		}
	}
	sa, ok := op.(*StrokeAdd)
	if !ok {
		w.base.Undo(op)
		return
	}
	w.rebucket()
	if i := slices.Index(w.strokes, sa.Stroke); i >= 0 {
		w.strokes = slices.Delete(w.strokes, i, i+1)
	} else if n := len(w.strokes); n > 0 {
		w.strokes = w.strokes[:n-1]
	}
	w.rect = w.strokeBounds()
	w.redraw()
	w.notify(EventUpdate)
}

func (w *Ink) Redo(op history.Operation) {
	if t, ok := op.(*history.Transform); ok {
		if e := w.edits[t]; e != nil {
			w.restore(e.after)
			return
		}
	}
	sa, ok := op.(*StrokeAdd)
	if !ok {
		w.base.Redo(op)
		return
	}
	w.rebucket()
	w.strokes = append(w.strokes, sa.Stroke)
	w.rect = w.rect.Union(sa.Stroke.bounds())
	w.redraw()
	w.notify(EventUpdate)
}

// ToRecord stores the points at board scale 1.
func (w *Ink) ToRecord() document.Record {
	w.rebucket()
	cx, cy := w.center()
	payload := &document.InkPayload{}
	var bounds geom.Rect
	for _, s := range w.strokes {
		c := s.clone()
		sr := document.StrokeRecord{Pen: s.Pen, Width: s.Width / w.scale, Color: s.Color}
		for i, p := range s.Points {
			x, y := (p.X-cx)/w.scale+cx, (p.Y-cy)/w.scale+cy
			sr.Points = append(sr.Points, document.PointRecord{X: x, Y: y, Pressure: p.Pressure})
			c.Points[i].X, c.Points[i].Y = x, y
		}
		c.Width = sr.Width
		bounds = bounds.Union(c.bounds())
		payload.Strokes = append(payload.Strokes, sr)
	}
	rec := w.record()
	if !bounds.IsEmpty() {
		rec.Rect = bounds
	}
	rec.Ink = payload
	return rec
}

// Copy duplicates the strokes and shows them offset as a pending
// transform, which moves the points on deselect.
func (w *Ink) Copy() Widget {
	rec := w.ToRecord()
	rec.ID = ""
	c := newInkFromRecord(w.env, rec)
	old := c.rect
	c.oldRect = &old
	c.rect = c.copyRect()
	return c
}

func (w *Ink) Dispose() {
	w.base.Dispose()
	w.slot.Cancel()
}
