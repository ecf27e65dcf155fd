// Package board owns the ordered widget list of one whiteboard and routes
// touches and commands to it. A Board is not safe for concurrent use: every
// call must come from the single stream that owns it.
package board

import (
	"image"
	"log/slog"
	"math"
	"slices"

	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/frame"
	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/history"
	"github.com/inamate/inamate/board-go/internal/input"
	"github.com/inamate/inamate/board-go/internal/task"
	"github.com/inamate/inamate/board-go/internal/widget"
)

// Options are fixed for the lifetime of a board.
type Options struct {
	Width, Height float64
	MinScale      float64
	MaxScale      float64
	// MinSize floors widget width and height at the end of a transform.
	MinSize         float64
	HistoryCapacity int
	Thresholds      frame.Thresholds

	Icon   func(name string) image.Image
	Images widget.ImageLoader

	// Exec runs background widget work and Post hands results back to the
	// owner stream. Both default to running inline.
	Exec task.Executor
	Post task.Poster
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions(width, height float64) Options {
	return Options{
		Width:           width,
		Height:          height,
		MinScale:        0.5,
		MaxScale:        2,
		MinSize:         50,
		HistoryCapacity: history.DefaultCapacity,
	}
}

// Layer is one of the three draw passes.
type Layer int

const (
	LayerLower Layer = iota
	LayerActive
	LayerUpper
)

func (l Layer) String() string {
	switch l {
	case LayerLower:
		return "lower"
	case LayerActive:
		return "active"
	case LayerUpper:
		return "upper"
	}
	return "unknown"
}

type armedShape struct {
	kind  document.ShapeKind
	color string
}

// Board is the whiteboard orchestrator.
type Board struct {
	opts    Options
	env     *widget.Env
	history *history.History

	widgets []widget.Widget
	active  widget.Widget
	group   *widget.Group

	armed   *armedShape
	shaping *widget.Shape

	inkMode  bool
	pen      document.Pen
	penWidth float64
	penColor string

	scale      float64
	invalidate func(Layer)
}

// New creates an empty board.
func New(opts Options) *Board {
	if opts.MinScale <= 0 {
		opts.MinScale = 1
	}
	if opts.MaxScale < opts.MinScale {
		opts.MaxScale = opts.MinScale
	}
	b := &Board{
		opts:     opts,
		history:  history.New(opts.HistoryCapacity),
		pen:      document.PenPencil,
		penWidth: widget.DefaultPenWidth,
		scale:    1,
	}
	b.env = &widget.Env{
		Width:      opts.Width,
		Height:     opts.Height,
		MaxScale:   opts.MaxScale,
		MinSize:    opts.MinSize,
		Thresholds: opts.Thresholds,
		Icon:       opts.Icon,
		Images:     opts.Images,
		Exec:       opts.Exec,
		Post:       opts.Post,
		Scale:      func() float64 { return b.scale },
		DeadAreas:  b.deadAreas,
	}
	return b
}

// OnInvalidate sets the redraw callback. Calls may be coalesced by the
// receiver; redrawing an unchanged pass is harmless.
func (b *Board) OnInvalidate(fn func(Layer)) { b.invalidate = fn }

func (b *Board) Width() float64           { return b.opts.Width }
func (b *Board) Height() float64          { return b.opts.Height }
func (b *Board) Scale() float64           { return b.scale }
func (b *Board) InkMode() bool            { return b.inkMode }
func (b *Board) Active() widget.Widget    { return b.active }
func (b *Board) Group() *widget.Group     { return b.group }
func (b *Board) UndoLen() int             { return b.history.UndoLen() }
func (b *Board) RedoLen() int             { return b.history.RedoLen() }
func (b *Board) Steps() []*history.Step   { return b.history.Steps() }
func (b *Board) Env() *widget.Env         { return b.env }
func (b *Board) Widgets() []widget.Widget { return slices.Clone(b.widgets) }

// Pen returns the current ink pen settings.
func (b *Board) Pen() (document.Pen, float64, string) { return b.pen, b.penWidth, b.penColor }

func (b *Board) indexOf(w widget.Widget) int {
	return slices.IndexFunc(b.widgets, func(x widget.Widget) bool { return x == w })
}

func (b *Board) notify(l Layer) {
	if b.invalidate != nil {
		b.invalidate(l)
	}
}

func (b *Board) notifyAll() {
	b.notify(LayerLower)
	b.notify(LayerActive)
	b.notify(LayerUpper)
}

func (b *Board) layerOf(w widget.Widget) Layer {
	if w == widget.Widget(b.group) {
		return LayerUpper
	}
	if b.active == nil {
		return LayerLower
	}
	i, a := b.indexOf(w), b.indexOf(b.active)
	switch {
	case i == a:
		return LayerActive
	case i < a:
		return LayerLower
	}
	return LayerUpper
}

func (b *Board) setActive(w widget.Widget) {
	if b.active == w {
		return
	}
	if old := b.active; old != nil {
		b.active = nil
		old.SetSelected(false)
	}
	b.active = w
	if w != nil {
		w.SetSelected(true)
	}
	b.notifyAll()
}

// Deselect clears the active widget.
func (b *Board) Deselect() { b.setActive(nil) }

// Select makes w the active widget.
func (b *Board) Select(w widget.Widget) bool {
	if b.indexOf(w) < 0 {
		return false
	}
	b.cancelBatchSelect()
	b.setActive(w)
	return true
}

func (b *Board) record(s *history.Step) {
	if b.history.Record(s, true) {
		slog.Debug("step recorded", "step", s.ID, "targets", len(s.Targets))
	}
}

// attach appends w and returns its index.
func (b *Board) attach(w widget.Widget) int {
	w.SetSink(b)
	b.widgets = append(b.widgets, w)
	return len(b.widgets) - 1
}

func (b *Board) insert(w widget.Widget, idx int) {
	idx = max(0, min(idx, len(b.widgets)))
	w.SetSink(b)
	b.widgets = slices.Insert(b.widgets, idx, w)
	b.notifyAll()
}

// detach removes w from the list and returns its former index.
func (b *Board) detach(w widget.Widget) int {
	i := b.indexOf(w)
	if i < 0 {
		return -1
	}
	if b.active == w {
		b.active = nil
		w.SetSelected(false)
	}
	if b.shaping == w {
		b.shaping = nil
	}
	b.widgets = slices.Delete(b.widgets, i, i+1)
	b.notifyAll()
	return i
}

// Add inserts w on top, selects it and records an Add step.
func (b *Board) Add(w widget.Widget) {
	b.cancelBatchSelect()
	idx := b.attach(w)
	b.setActive(w)
	b.record(history.Single(w, history.Add{Index: idx}))
}

// AddImage decodes the file at path and adds it fitted into the suggested
// initial rect.
func (b *Board) AddImage(path string) bool {
	if b.opts.Images == nil {
		slog.Error("no image loader configured", "path", path)
		return false
	}
	img, err := b.opts.Images.Load(path, int(b.opts.Width), int(b.opts.Height))
	if err != nil {
		slog.Error("failed to load image", "path", path, "error", err)
		return false
	}
	s := geom.SuggestedInitialRect(b.opts.Width, b.opts.Height)
	fw, fh := geom.FitSize(img.Bounds().Dx(), img.Bounds().Dy(), int(s.Width()), int(s.Height()))
	if fw <= 0 || fh <= 0 {
		slog.Error("image has no pixels", "path", path)
		return false
	}
	b.Add(widget.NewImage(b.env, path, img, geom.RectXYWH(s.Left, s.Top, float64(fw), float64(fh))))
	return true
}

// AddText adds a text widget shrunk to fit its first page.
func (b *Board) AddText(text string) *widget.Text {
	w := widget.NewText(b.env, text)
	b.Add(w)
	return w
}

// AddShape adds a shape with a known rect, skipping the sizing drag.
func (b *Board) AddShape(kind document.ShapeKind, color string, r geom.Rect) (widget.Widget, error) {
	w, err := widget.FromRecord(b.env, document.Record{
		Kind:  document.KindShape,
		Rect:  r,
		Shape: &document.ShapePayload{Kind: kind, Color: color, From: frame.LeftTop.String()},
	})
	if err != nil {
		return nil, err
	}
	b.Add(w)
	return w, nil
}

// ArmShape makes the next press start sizing a new shape.
func (b *Board) ArmShape(kind document.ShapeKind, color string) {
	b.SetInkMode(false)
	b.cancelBatchSelect()
	b.setActive(nil)
	b.armed = &armedShape{kind: kind, color: color}
}

// Armed reports whether a shape is waiting for its sizing drag.
func (b *Board) Armed() bool { return b.armed != nil || b.shaping != nil }

// Remove deletes w and records a Delete step.
func (b *Board) Remove(w widget.Widget) bool {
	if g, ok := w.(*widget.Group); ok {
		return b.removeMembers(g)
	}
	i := b.detach(w)
	if i < 0 {
		return false
	}
	b.record(history.Single(w, history.Delete{Index: i}))
	return true
}

// RemoveActive deletes the active widget.
func (b *Board) RemoveActive() bool {
	if b.group != nil {
		return b.removeMembers(b.group)
	}
	if b.active == nil {
		return false
	}
	return b.Remove(b.active)
}

func (b *Board) removeMembers(g *widget.Group) bool {
	members := g.Members()
	b.cancelBatchSelect()
	slices.SortFunc(members, func(x, y widget.Widget) int { return b.indexOf(y) - b.indexOf(x) })
	var targets []history.Target
	for _, m := range members {
		// Highest index first so the indices stay valid for reinsertion.
		if i := b.detach(m); i >= 0 {
			targets = append(targets, history.Target{Widget: m, Op: history.Delete{Index: i}})
		}
	}
	if len(targets) == 0 {
		return false
	}
	b.record(history.NewStep(targets...))
	return true
}

func (b *Board) copyMembers(g *widget.Group) {
	var targets []history.Target
	for _, c := range g.CopyMembers() {
		idx := b.attach(c)
		targets = append(targets, history.Target{Widget: c, Op: history.Add{Index: idx}})
	}
	if len(targets) > 0 {
		b.record(history.NewStep(targets...))
		b.notifyAll()
	}
}

// ChangeLayer moves the active widget up (positive) or down the stack by
// up to step positions. math.MaxInt and math.MinInt move it to the very
// top or bottom. It returns the new index, or -1 when nothing moved.
func (b *Board) ChangeLayer(step int) int {
	if b.active == nil || step == 0 {
		return -1
	}
	i := b.indexOf(b.active)
	if i < 0 {
		return -1
	}
	n := b.moveLayer(i, step)
	if n == i {
		return -1
	}
	b.record(history.Single(b.active, history.ChangeLayer{Diff: n - i}))
	return n
}

func (b *Board) moveLayer(i, step int) int {
	last := len(b.widgets) - 1
	var n int
	switch {
	case step == math.MaxInt || step > last:
		n = last
	case step == math.MinInt || step < -last:
		n = 0
	default:
		n = max(0, min(i+step, last))
	}
	if n == i {
		return i
	}
	w := b.widgets[i]
	b.widgets = slices.Delete(b.widgets, i, i+1)
	b.widgets = slices.Insert(b.widgets, n, w)
	b.notifyAll()
	return n
}

// replay applies history targets to the board.
type replay struct{ b *Board }

func (r replay) UndoTarget(t history.Target) {
	w := t.Widget.(widget.Widget)
	switch op := t.Op.(type) {
	case history.Add:
		r.b.detach(w)
	case history.Delete:
		r.b.insert(w, op.Index)
	case history.ChangeLayer:
		if i := r.b.indexOf(w); i >= 0 {
			r.b.moveLayer(i, -op.Diff)
		}
	default:
		w.Undo(t.Op)
	}
}

func (r replay) RedoTarget(t history.Target) {
	w := t.Widget.(widget.Widget)
	switch op := t.Op.(type) {
	case history.Add:
		r.b.insert(w, op.Index)
	case history.Delete:
		r.b.detach(w)
	case history.ChangeLayer:
		if i := r.b.indexOf(w); i >= 0 {
			r.b.moveLayer(i, op.Diff)
		}
	default:
		w.Redo(t.Op)
	}
}

func (b *Board) endGestures() {
	b.cancelBatchSelect()
	if t, ok := b.active.(*widget.Text); ok {
		t.EndEdit()
	}
}

// Undo reverts the latest step.
func (b *Board) Undo() bool {
	b.endGestures()
	ok := b.history.Undo(replay{b})
	if ok {
		b.notifyAll()
	}
	return ok
}

// Redo reapplies the latest undone step.
func (b *Board) Redo() bool {
	b.endGestures()
	ok := b.history.Redo(replay{b})
	if ok {
		b.notifyAll()
	}
	return ok
}

// BatchSelect starts collecting a lasso.
func (b *Board) BatchSelect() {
	if b.group != nil {
		return
	}
	b.SetInkMode(false)
	b.setActive(nil)
	g := widget.NewGroup(b.env, b.pick)
	g.SetSink(b)
	b.group = g
	b.notify(LayerUpper)
}

// CancelBatchSelect closes the group, if any.
func (b *Board) CancelBatchSelect() { b.cancelBatchSelect() }

func (b *Board) cancelBatchSelect() {
	g := b.group
	if g == nil {
		return
	}
	b.group = nil
	g.Dispose()
	b.notifyAll()
}

func (b *Board) pick(p geom.Polygon) []widget.Widget {
	var out []widget.Widget
	for _, w := range b.widgets {
		if w.HitByLasso(p) {
			out = append(out, w)
		}
	}
	return out
}

// Ink returns the topmost ink widget, or nil.
func (b *Board) Ink() *widget.Ink {
	for i := len(b.widgets) - 1; i >= 0; i-- {
		if k, ok := b.widgets[i].(*widget.Ink); ok {
			return k
		}
	}
	return nil
}

func (b *Board) ensureInk() *widget.Ink {
	if k := b.Ink(); k != nil {
		return k
	}
	k := widget.NewInk(b.env)
	b.attach(k)
	return k
}

// SetInkMode turns handwriting on or off. Turning it on creates the ink
// widget if the board has none.
func (b *Board) SetInkMode(on bool) {
	if on == b.inkMode {
		return
	}
	b.inkMode = on
	if on {
		b.armed = nil
		b.cancelBatchSelect()
		b.setActive(nil)
		k := b.ensureInk()
		k.SetPen(b.pen, b.penWidth, b.penColor)
		k.SetEditing(true)
	} else if k := b.Ink(); k != nil {
		k.SetEditing(false)
	}
	b.notifyAll()
}

// SetPen sets the pen used for new strokes.
func (b *Board) SetPen(pen document.Pen, width float64, color string) {
	b.pen = pen
	if width > 0 {
		b.penWidth = width
	}
	if color != "" {
		b.penColor = color
	}
	if k := b.Ink(); k != nil {
		k.SetPen(b.pen, b.penWidth, b.penColor)
	}
}

// deadAreas are the transformed bounds of widgets stacked above the ink.
func (b *Board) deadAreas() []geom.Rect {
	k := b.Ink()
	if k == nil {
		return nil
	}
	var out []geom.Rect
	for _, w := range b.widgets[b.indexOf(k)+1:] {
		out = append(out, w.TransformedBounds())
	}
	return out
}

// SetScale sets the canvas scale, clamped to the configured range. Changes
// smaller than a tenth are ignored.
func (b *Board) SetScale(s float64) bool {
	s = max(b.opts.MinScale, min(s, b.opts.MaxScale))
	if math.Round(s*10) == math.Round(b.scale*10) {
		return false
	}
	b.scale = s
	for _, w := range b.widgets {
		if k, ok := w.(*widget.Ink); ok {
			k.SetBoardScale(s)
		}
	}
	b.notifyAll()
	return true
}

// toBoard maps a point from the scaled view into board coordinates.
func (b *Board) toBoard(ev input.Event) input.Event {
	if b.scale == 1 {
		return ev
	}
	cx, cy := b.opts.Width/2, b.opts.Height/2
	ev.X = (ev.X-cx)/b.scale + cx
	ev.Y = (ev.Y-cy)/b.scale + cy
	return ev
}

// Touch routes one pointer event. It reports whether anything consumed it.
func (b *Board) Touch(ev input.Event) bool {
	ev = b.toBoard(ev)

	if b.shaping != nil {
		return b.shaping.OnTouch(ev)
	}
	if b.armed != nil && ev.Action == input.Down {
		s := widget.NewShape(b.env, b.armed.kind, b.armed.color)
		b.armed = nil
		b.attach(s)
		b.shaping = s
		b.setActive(s)
		return s.OnTouch(ev)
	}
	if b.inkMode {
		return b.ensureInk().OnTouch(ev)
	}
	if g := b.group; g != nil {
		if g.OnTouch(ev) {
			return true
		}
		b.cancelBatchSelect()
	}
	if a := b.active; a != nil && a.OnTouch(ev) {
		return true
	}
	if ev.Action == input.Down {
		for i := len(b.widgets) - 1; i >= 0; i-- {
			w := b.widgets[i]
			if w == b.active {
				continue
			}
			if w.OnTouch(ev) {
				b.setActive(w)
				return true
			}
		}
	}
	b.setActive(nil)
	return false
}

// Notify receives widget events.
func (b *Board) Notify(ev widget.Event) {
	w := ev.Widget
	switch ev.Kind {
	case widget.EventUpdate:
		b.notify(b.layerOf(w))
	case widget.EventStep:
		b.record(ev.Step)
	case widget.EventDelete:
		b.Remove(w)
	case widget.EventCopy:
		if g, ok := w.(*widget.Group); ok {
			b.copyMembers(g)
			return
		}
		b.Add(w.Copy())
	case widget.EventCreated:
		if b.shaping == w {
			b.shaping = nil
		}
		if i := b.indexOf(w); i >= 0 {
			b.record(history.Single(w, history.Add{Index: i}))
		}
		b.notifyAll()
	case widget.EventAbort:
		b.detach(w)
		w.Dispose()
	case widget.EventDismiss:
		if w == widget.Widget(b.group) {
			b.cancelBatchSelect()
		}
	}
}
