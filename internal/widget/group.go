package widget

import (
	"math"

	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/frame"
	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/history"
	"github.com/inamate/inamate/board-go/internal/input"
	"github.com/inamate/inamate/board-go/internal/render"
)

// member remembers where a widget sits inside the group, as fractions of
// the group rect, so the group can be resized and rotated as one.
type member struct {
	w       Widget
	initRot float64
	cxP     float64
	cyP     float64
	wP      float64
	hP      float64
}

// Group is the ephemeral batch-select widget. It first collects a lasso,
// then wraps the widgets the lasso hit and moves them together. Its steps
// carry one target per member.
type Group struct {
	base
	lasso   []geom.Point
	members []*member
	targets []history.Target
	pick    func(geom.Polygon) []Widget
}

// NewGroup creates a group covering the safe rect. pick returns the
// widgets a closed lasso selects.
func NewGroup(env *Env, pick func(geom.Polygon) []Widget) *Group {
	g := &Group{pick: pick}
	g.init(env, g, document.KindGroup, "")
	g.composite = true
	g.rect = env.SafeRect()
	return g
}

// Members returns the selected widgets.
func (g *Group) Members() []Widget {
	out := make([]Widget, len(g.members))
	for i, m := range g.members {
		out[i] = m.w
	}
	return out
}

// Lasso returns the points collected so far.
func (g *Group) Lasso() []geom.Point { return g.lasso }

func (g *Group) touchContent(ev input.Event, _ geom.Point) bool {
	if len(g.members) > 0 {
		return false
	}
	p := geom.Point{X: ev.X, Y: ev.Y}
	switch ev.Action {
	case input.Down:
		g.lasso = []geom.Point{p}
	case input.Move:
		g.lasso = append(g.lasso, p)
	case input.Up:
		g.lasso = append(g.lasso, p)
		g.selectLasso()
		g.lasso = nil
	default:
		g.lasso = nil
	}
	g.notify(EventUpdate)
	return true
}

func (g *Group) selectLasso() {
	if len(g.lasso) < 3 || g.pick == nil {
		return
	}
	g.Select(g.pick(geom.Polygon(g.lasso)))
}

// Select wraps ws and shows the frame around them. An empty list leaves
// the group collecting a lasso.
func (g *Group) Select(ws []Widget) {
	if len(ws) == 0 {
		return
	}
	var r geom.Rect
	for _, w := range ws {
		r = r.Union(w.TransformedBounds())
	}
	g.rect = r
	g.rotation = 0
	g.members = make([]*member, len(ws))
	for i, w := range ws {
		g.members[i] = &member{w: w, initRot: w.Rotation()}
		g.measure(g.members[i])
	}
	g.SetSelected(true)
}

func (g *Group) measure(m *member) {
	w, h := g.rect.Width(), g.rect.Height()
	if w == 0 || h == 0 {
		return
	}
	b := m.w.Bounds()
	tr := geom.RotatedBounds(b, m.initRot)
	m.cxP = (b.CenterX() - g.rect.Left) / w
	m.cyP = (b.CenterY() - g.rect.Top) / h
	m.wP = tr.Width() / w
	m.hP = tr.Height() / h
}

func (g *Group) inSelectArea(_ input.Event, local geom.Point) bool {
	return len(g.members) > 0 && g.rect.Contains(local.X, local.Y)
}

func (g *Group) transformed(d history.Transform, status frame.Status, record bool) {
	if status == frame.Start {
		g.targets = nil
		if record {
			g.targets = make([]history.Target, len(g.members))
			for i, m := range g.members {
				g.targets[i] = history.Target{Widget: m.w, Op: &history.Transform{}}
			}
		}
	}
	changed := false
	if !d.IsZero() {
		for i, m := range g.members {
			if g.propagate(i, m, d, status) {
				changed = true
			}
		}
	} else if status == frame.End {
		for _, m := range g.members {
			m.w.Transform(m.w.Bounds(), m.w.Rotation(), frame.End, false)
		}
	}
	if changed {
		var r geom.Rect
		for _, m := range g.members {
			r = r.Union(geom.RotatedBounds(m.w.Bounds(), m.initRot))
		}
		g.rect = r
		if g.frame != nil {
			g.frame.UpdateWidgetRect(g.rect)
		}
		for _, m := range g.members {
			if math.Mod(m.initRot, 360) != 0 {
				g.measure(m)
			}
		}
	}
	if status == frame.End {
		targets := g.targets
		g.targets = nil
		if ts := nonZero(targets); record && len(ts) > 0 {
			g.emitStep(history.NewStep(ts...))
		}
	}
}

// propagate moves one member to follow the group and accumulates the
// change it actually took into the pending step. It reports whether the
// group rect must be recomputed.
func (g *Group) propagate(i int, m *member, d history.Transform, status frame.Status) bool {
	cx := m.cxP*g.rect.Width() + g.rect.Left
	cy := m.cyP*g.rect.Height() + g.rect.Top
	cx, cy = geom.Rotate(g.rotation, cx, cy, g.rect.CenterX(), g.rect.CenterY())

	before := m.w.Bounds()
	beforeRot := m.w.Rotation()
	wdx := cx - before.CenterX()
	wdy := cy - before.CenterY()
	wdr := m.initRot + g.rotation - beforeRot

	var wdw, wdh float64
	changed := false
	switch {
	case d.DW == 0 && d.DH == 0:
	case math.Mod(m.initRot, 360) == 0:
		wdw, wdh = d.DW*m.wP, d.DH*m.hP
	default:
		// Members rotated inside the group are stretched along a projected
		// axis; this is only exact for multiples of 90 degrees.
		tw, th := d.DW*m.wP, d.DH*m.hP
		sin, cos := math.Sincos(geom.AngleToRadian(m.initRot))
		wdw = tw*cos + th*sin
		wdh = th*cos + tw*sin
		changed = true
	}

	r := geom.Rect{
		Left:   before.Left + wdx - wdw/2,
		Top:    before.Top + wdy - wdh/2,
		Right:  before.Right + wdx + wdw/2,
		Bottom: before.Bottom + wdy + wdh/2,
	}
	m.w.Transform(r, beforeRot+wdr, status, false)

	if g.targets != nil {
		after := m.w.Bounds()
		g.targets[i].Op.(*history.Transform).Accumulate(history.Transform{
			DX: after.Left - before.Left,
			DY: after.Top - before.Top,
			DW: after.Width() - before.Width(),
			DH: after.Height() - before.Height(),
			DR: m.w.Rotation() - beforeRot,
		})
	}
	return changed
}

func nonZero(targets []history.Target) []history.Target {
	var out []history.Target
	for _, t := range targets {
		if tr, ok := t.Op.(*history.Transform); ok && tr.IsZero() {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (g *Group) selectChanged() {
	if !g.selected {
		g.notify(EventDismiss)
	}
}

func (g *Group) drawContent(c render.Canvas) {
	if len(g.lasso) > 1 {
		c.StrokePolyline(g.lasso, render.Style{Width: 2, Dash: []float64{5, 10}})
	}
}

// Draw skips the clip so the lasso shows anywhere on the board.
func (g *Group) Draw(c render.Canvas) {
	if g.env.Plain {
		return
	}
	if len(g.members) == 0 {
		g.drawContent(c)
		return
	}
	g.base.Draw(c)
}

// CopyMembers returns a copy of every member.
func (g *Group) CopyMembers() []Widget {
	out := make([]Widget, len(g.members))
	for i, m := range g.members {
		out[i] = m.w.Copy()
	}
	return out
}

// Copy returns an empty group; members are copied with CopyMembers.
func (g *Group) Copy() Widget { return NewGroup(g.env, g.pick) }

func (g *Group) HitByLasso(geom.Polygon) bool { return false }

func (g *Group) ToRecord() document.Record { return g.record() }

func (g *Group) Dispose() {
	g.base.Dispose()
	g.members = nil
	g.lasso = nil
	g.targets = nil
}
