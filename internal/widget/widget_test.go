package widget

import (
	"image"
	"math"
	"testing"

	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/frame"
	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/history"
	"github.com/inamate/inamate/board-go/internal/input"
	"github.com/inamate/inamate/board-go/internal/task"
)

type sink struct{ events []Event }

func (s *sink) Notify(ev Event) { s.events = append(s.events, ev) }

func (s *sink) steps() []*history.Step {
	var out []*history.Step
	for _, ev := range s.events {
		if ev.Kind == EventStep {
			out = append(out, ev.Step)
		}
	}
	return out
}

func (s *sink) has(k EventKind) bool {
	for _, ev := range s.events {
		if ev.Kind == k {
			return true
		}
	}
	return false
}

func testEnv() *Env {
	return &Env{Width: 1000, Height: 800, MinSize: 50, Exec: task.Inline, Post: task.Direct}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func sameRect(a, b geom.Rect) bool {
	return near(a.Left, b.Left) && near(a.Top, b.Top) && near(a.Right, b.Right) && near(a.Bottom, b.Bottom)
}

func newTestImage(env *Env, r geom.Rect) (*Image, *sink) {
	w := NewImage(env, "pic.png", image.NewRGBA(image.Rect(0, 0, 4, 4)), r)
	s := &sink{}
	w.SetSink(s)
	return w, s
}

func TestDragRecordsOneStep(t *testing.T) {
	w, s := newTestImage(testEnv(), geom.Rect{Left: 100, Top: 100, Right: 300, Bottom: 250})
	w.SetSelected(true)

	for _, ev := range []input.Event{
		input.At(input.Down, 200, 175),
		input.At(input.Move, 215, 175),
		input.At(input.Move, 230, 185),
		input.At(input.Up, 230, 185),
	} {
		if !w.OnTouch(ev) {
			t.Fatalf("%v not consumed", ev.Action)
		}
	}

	want := geom.Rect{Left: 130, Top: 110, Right: 330, Bottom: 260}
	if !sameRect(w.Bounds(), want) {
		t.Fatalf("rect = %+v, want %+v", w.Bounds(), want)
	}
	steps := s.steps()
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(steps))
	}
	op := steps[0].Targets[0].Op.(*history.Transform)
	if !near(op.DX, 30) || !near(op.DY, 10) || op.DW != 0 || op.DH != 0 {
		t.Errorf("op = %+v", *op)
	}

	w.Undo(op)
	if !sameRect(w.Bounds(), geom.Rect{Left: 100, Top: 100, Right: 300, Bottom: 250}) {
		t.Errorf("undo rect = %+v", w.Bounds())
	}
	w.Redo(op)
	if !sameRect(w.Bounds(), want) {
		t.Errorf("redo rect = %+v", w.Bounds())
	}
}

func TestTapRecordsNothing(t *testing.T) {
	w, s := newTestImage(testEnv(), geom.Rect{Left: 100, Top: 100, Right: 300, Bottom: 250})
	w.SetSelected(true)
	w.OnTouch(input.At(input.Down, 200, 175))
	w.OnTouch(input.At(input.Up, 200, 175))
	if n := len(s.steps()); n != 0 {
		t.Errorf("got %d steps for a tap", n)
	}
}

func TestSettleAtEnd(t *testing.T) {
	tests := []struct {
		name string
		in   geom.Rect
		want geom.Rect
	}{
		{"inverted is normalized", geom.Rect{Left: 300, Top: 300, Right: 100, Bottom: 100}, geom.Rect{Left: 100, Top: 100, Right: 300, Bottom: 300}},
		{"floored to min size", geom.Rect{Left: 100, Top: 100, Right: 110, Bottom: 300}, geom.Rect{Left: 100, Top: 100, Right: 150, Bottom: 300}},
		{"clamped into the board", geom.Rect{Left: 900, Top: -50, Right: 1100, Bottom: 50}, geom.Rect{Left: 800, Top: 0, Right: 1000, Bottom: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newTestImage(testEnv(), geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100})
			w.Transform(tt.in, 0, frame.End, false)
			if !sameRect(w.Bounds(), tt.want) {
				t.Errorf("rect = %+v, want %+v", w.Bounds(), tt.want)
			}
		})
	}
}

func TestOperatingDoesNotClamp(t *testing.T) {
	w, _ := newTestImage(testEnv(), geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100})
	r := geom.Rect{Left: -50, Top: 0, Right: 10, Bottom: 100}
	w.Transform(r, 0, frame.Operating, false)
	if w.Bounds() != r {
		t.Errorf("rect = %+v, want %+v", w.Bounds(), r)
	}
}

func TestZoomRecordsStep(t *testing.T) {
	w, s := newTestImage(testEnv(), geom.Rect{Left: 200, Top: 200, Right: 400, Bottom: 400})
	w.zoom(0.25)
	if !sameRect(w.Bounds(), geom.Rect{Left: 175, Top: 175, Right: 425, Bottom: 425}) {
		t.Fatalf("rect = %+v", w.Bounds())
	}
	steps := s.steps()
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(steps))
	}
	op := steps[0].Targets[0].Op.(*history.Transform)
	if !near(op.DW, 50) || !near(op.DX, -25) {
		t.Errorf("op = %+v", *op)
	}
}

func TestCopyIsOffset(t *testing.T) {
	tests := []struct {
		name string
		in   geom.Rect
		want geom.Rect
	}{
		{"down right", geom.Rect{Left: 100, Top: 100, Right: 200, Bottom: 200}, geom.Rect{Left: 120, Top: 120, Right: 220, Bottom: 220}},
		{"up left at the edge", geom.Rect{Left: 880, Top: 100, Right: 990, Bottom: 200}, geom.Rect{Left: 860, Top: 80, Right: 970, Bottom: 180}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newTestImage(testEnv(), tt.in)
			c := w.Copy()
			if c.ID() == w.ID() {
				t.Error("copy shares the id")
			}
			if !sameRect(c.Bounds(), tt.want) {
				t.Errorf("copy rect = %+v, want %+v", c.Bounds(), tt.want)
			}
		})
	}
}

func TestRotatedHitTest(t *testing.T) {
	w, _ := newTestImage(testEnv(), geom.Rect{Left: 100, Top: 300, Right: 500, Bottom: 340})
	w.Transform(w.Bounds(), 90, frame.End, false)
	// Rotated a quarter turn the bar stands upright around (300, 320).
	if !w.OnTouch(input.At(input.Down, 305, 200)) {
		t.Error("point on the rotated bar should hit")
	}
	if w.OnTouch(input.At(input.Down, 150, 320)) {
		t.Error("point on the unrotated bar should miss")
	}
}

func TestShapeSizingDrag(t *testing.T) {
	tests := []struct {
		name       string
		down, up   geom.Point
		wantKind   EventKind
		wantRect   geom.Rect
		wantAnchor frame.Anchor
	}{
		{"down right", geom.Point{X: 100, Y: 100}, geom.Point{X: 300, Y: 200}, EventCreated, geom.Rect{Left: 100, Top: 100, Right: 300, Bottom: 200}, frame.LeftTop},
		{"up right", geom.Point{X: 100, Y: 300}, geom.Point{X: 300, Y: 100}, EventCreated, geom.Rect{Left: 100, Top: 100, Right: 300, Bottom: 300}, frame.LeftBottom},
		{"down left", geom.Point{X: 300, Y: 100}, geom.Point{X: 100, Y: 300}, EventCreated, geom.Rect{Left: 100, Top: 100, Right: 300, Bottom: 300}, frame.RightTop},
		{"up left", geom.Point{X: 300, Y: 300}, geom.Point{X: 100, Y: 100}, EventCreated, geom.Rect{Left: 100, Top: 100, Right: 300, Bottom: 300}, frame.RightBottom},
		{"no drag", geom.Point{X: 100, Y: 100}, geom.Point{X: 100, Y: 100}, EventAbort, geom.Rect{Left: 100, Top: 100, Right: 100, Bottom: 100}, frame.LeftTop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewShape(testEnv(), document.ShapeArrow, "#ff0000")
			s := &sink{}
			w.SetSink(s)
			w.SetSelected(true)
			w.OnTouch(input.At(input.Down, tt.down.X, tt.down.Y))
			w.OnTouch(input.At(input.Move, tt.up.X, tt.up.Y))
			w.OnTouch(input.At(input.Up, tt.up.X, tt.up.Y))

			if !s.has(tt.wantKind) {
				t.Errorf("missing %v event", tt.wantKind)
			}
			if len(s.steps()) != 0 {
				t.Error("sizing drag must not record its own step")
			}
			if w.Shaping() {
				t.Error("still shaping after up")
			}
			if !sameRect(w.Bounds(), tt.wantRect) {
				t.Errorf("rect = %+v, want %+v", w.Bounds(), tt.wantRect)
			}
			if w.From() != tt.wantAnchor {
				t.Errorf("from = %v, want %v", w.From(), tt.wantAnchor)
			}
		})
	}
}

func TestArrowPathEndsAtTip(t *testing.T) {
	r := geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}
	shaft, head := arrowPath(r, frame.LeftBottom)
	tip := geom.Point{X: 100, Y: 0}
	if shaft[0] != (geom.Point{X: 0, Y: 100}) || shaft[1] != tip || head[0] != tip {
		t.Fatalf("shaft %v head %v", shaft, head)
	}
	for _, barb := range []geom.Point{shaft[2], head[1]} {
		if d := math.Hypot(barb.X-tip.X, barb.Y-tip.Y); !near(d, arrowSize) {
			t.Errorf("barb %v is %.3f from the tip, want %v", barb, d, arrowSize)
		}
	}
}

func newTestText(t *testing.T, text string, r geom.Rect) (*Text, *sink) {
	t.Helper()
	rec := document.Record{Kind: document.KindText, Rect: r, Text: &document.TextPayload{Text: text}}
	w, err := FromRecord(testEnv(), rec)
	if err != nil {
		t.Fatal(err)
	}
	s := &sink{}
	w.SetSink(s)
	return w.(*Text), s
}

func TestTextPaginates(t *testing.T) {
	w, _ := newTestText(t, "a\nb\nc\nd\ne\nf", geom.Rect{Left: 0, Top: 0, Right: 300, Bottom: 120})
	if w.PageCount() < 2 {
		t.Fatalf("got %d pages, want at least 2", w.PageCount())
	}
	w.turnPage(1)
	if w.PageIdx() != 1 {
		t.Errorf("page = %d after next", w.PageIdx())
	}
	w.turnPage(100)
	if w.PageIdx() != 1 {
		t.Errorf("page = %d after an out of range turn", w.PageIdx())
	}
}

func TestNewTextShrinksToFit(t *testing.T) {
	env := testEnv()
	w := NewText(env, "hi")
	full := geom.SuggestedInitialRect(env.Width, env.Height)
	if w.Bounds().Width() >= full.Width() || w.Bounds().Height() >= full.Height() {
		t.Errorf("rect %+v was not shrunk from %+v", w.Bounds(), full)
	}
}

func TestTextEditRecordsChange(t *testing.T) {
	w, s := newTestText(t, "hello world", geom.Rect{Left: 100, Top: 100, Right: 600, Bottom: 400})
	w.SetSelected(true)
	w.OnTouch(input.At(input.Down, 120, 115))
	w.OnTouch(input.At(input.Up, 120, 115))
	if !w.Editing() {
		t.Fatal("tap on a selected text should start editing")
	}
	if !w.SetText("hello there world", 11) {
		t.Fatal("SetText refused while editing")
	}
	w.EndEdit()

	steps := s.steps()
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(steps))
	}
	op := steps[0].Targets[0].Op
	w.Undo(op)
	if w.Text() != "hello world" {
		t.Errorf("undo text = %q", w.Text())
	}
	w.Redo(op)
	if w.Text() != "hello there world" {
		t.Errorf("redo text = %q", w.Text())
	}
}

func TestTextClearKeepsEditing(t *testing.T) {
	w, s := newTestText(t, "hello", geom.Rect{Left: 100, Top: 100, Right: 600, Bottom: 400})
	w.SetSelected(true)
	w.OnTouch(input.At(input.Down, 120, 115))
	w.OnTouch(input.At(input.Up, 120, 115))
	if !w.SetText("", 0) {
		t.Fatal("SetText refused while editing")
	}
	if !w.Editing() {
		t.Fatal("clearing the text ended editing")
	}
	if !w.SetText("x", 1) {
		t.Fatal("SetText refused after clearing")
	}
	if !w.SetText("", 0) {
		t.Fatal("second clear refused")
	}
	w.EndEdit()

	steps := s.steps()
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(steps))
	}
	w.Undo(steps[0].Targets[0].Op)
	if w.Text() != "hello" {
		t.Errorf("undo text = %q, want %q", w.Text(), "hello")
	}
}

func TestTextEditWithoutChangeRecordsNothing(t *testing.T) {
	w, s := newTestText(t, "hello", geom.Rect{Left: 100, Top: 100, Right: 600, Bottom: 400})
	w.SetSelected(true)
	w.OnTouch(input.At(input.Down, 120, 115))
	w.OnTouch(input.At(input.Up, 120, 115))
	w.SetSelected(false)
	if w.Editing() {
		t.Error("deselect should end editing")
	}
	if len(s.steps()) != 0 {
		t.Error("unchanged edit recorded a step")
	}
}

func stylus(a input.Action, x, y float64) input.Event {
	return input.Event{Action: a, X: x, Y: y, Pressure: 1, Tool: input.ToolStylus}
}

func drawLine(w *Ink, pts ...geom.Point) {
	w.OnTouch(stylus(input.Down, pts[0].X, pts[0].Y))
	for _, p := range pts[1:] {
		w.OnTouch(stylus(input.Move, p.X, p.Y))
	}
	last := pts[len(pts)-1]
	w.OnTouch(stylus(input.Up, last.X, last.Y))
}

func TestInkStrokeUndoRedo(t *testing.T) {
	w := NewInk(testEnv())
	s := &sink{}
	w.SetSink(s)
	w.SetEditing(true)
	drawLine(w, geom.Point{X: 100, Y: 100}, geom.Point{X: 150, Y: 150}, geom.Point{X: 200, Y: 120})

	if w.StrokeCount() != 1 {
		t.Fatalf("strokes = %d, want 1", w.StrokeCount())
	}
	if w.Bounds().IsEmpty() {
		t.Fatal("rect should cover the stroke")
	}
	steps := s.steps()
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(steps))
	}
	op := steps[0].Targets[0].Op
	if op.Kind() != KindStrokeAdd {
		t.Fatalf("op kind = %v", op.Kind())
	}
	w.Undo(op)
	if w.StrokeCount() != 0 {
		t.Errorf("undo left %d strokes", w.StrokeCount())
	}
	w.Redo(op)
	if w.StrokeCount() != 1 {
		t.Errorf("redo left %d strokes", w.StrokeCount())
	}
}

func TestInkIgnoresFingers(t *testing.T) {
	w := NewInk(testEnv())
	w.SetEditing(true)
	w.OnTouch(input.At(input.Down, 100, 100))
	w.OnTouch(input.At(input.Move, 200, 200))
	w.OnTouch(input.At(input.Up, 200, 200))
	if w.StrokeCount() != 0 {
		t.Errorf("finger drew %d strokes", w.StrokeCount())
	}
}

func TestInkDeadAreaCancelsStroke(t *testing.T) {
	env := testEnv()
	env.DeadAreas = func() []geom.Rect { return []geom.Rect{{Left: 140, Top: 140, Right: 300, Bottom: 300}} }
	w := NewInk(env)
	s := &sink{}
	w.SetSink(s)
	w.SetEditing(true)
	drawLine(w, geom.Point{X: 100, Y: 100}, geom.Point{X: 120, Y: 120}, geom.Point{X: 150, Y: 150})
	if w.StrokeCount() != 0 || len(s.steps()) != 0 {
		t.Errorf("stroke into a dead area was kept: %d strokes, %d steps", w.StrokeCount(), len(s.steps()))
	}
}

func TestInkScaleRoundTrip(t *testing.T) {
	env := testEnv()
	w := NewInk(env)
	w.SetEditing(true)
	drawLine(w, geom.Point{X: 100, Y: 100}, geom.Point{X: 300, Y: 250})
	before := w.ToRecord()

	w.SetBoardScale(2)
	got := w.Strokes()[0].Points[0]
	if !near(got.X, (100-500)*2+500) || !near(got.Y, (100-400)*2+400) {
		t.Errorf("scaled point = %+v", got)
	}
	after := w.ToRecord()
	for i, p := range after.Ink.Strokes[0].Points {
		q := before.Ink.Strokes[0].Points[i]
		if math.Abs(p.X-q.X) > 1 || math.Abs(p.Y-q.Y) > 1 {
			t.Errorf("point %d = %+v, want %+v", i, p, q)
		}
	}

	scale := 2.0
	env.Scale = func() float64 { return scale }
	loaded, err := FromRecord(env, after)
	if err != nil {
		t.Fatal(err)
	}
	again := loaded.ToRecord()
	if p, q := again.Ink.Strokes[0].Points[1], before.Ink.Strokes[0].Points[1]; math.Abs(p.X-q.X) > 1 || math.Abs(p.Y-q.Y) > 1 {
		t.Errorf("reloaded point = %+v, want %+v", p, q)
	}
}

func TestInkTransformMovesPoints(t *testing.T) {
	w := NewInk(testEnv())
	w.SetEditing(true)
	drawLine(w, geom.Point{X: 100, Y: 100}, geom.Point{X: 200, Y: 200})
	w.SetEditing(false)

	w.Transform(w.Bounds().Offset(50, 30), 0, frame.End, false)
	p := w.Strokes()[0].Points[0]
	if !near(p.X, 150) || !near(p.Y, 130) {
		t.Errorf("point = %+v, want (150, 130)", p)
	}
}

func TestInkRotateUndoRedoAfterDeselect(t *testing.T) {
	w := NewInk(testEnv())
	s := &sink{}
	w.SetSink(s)
	w.SetEditing(true)
	drawLine(w, geom.Point{X: 100, Y: 100}, geom.Point{X: 300, Y: 100}, geom.Point{X: 300, Y: 140})
	w.SetEditing(false)
	orig := w.Strokes()[0].Points

	w.SetSelected(true)
	w.Transform(w.Bounds(), 0, frame.Start, true)
	w.Transform(w.Bounds(), 30, frame.End, true)
	w.SetSelected(false)
	rotated := w.Strokes()[0].Points
	if w.Rotation() != 0 {
		t.Fatalf("rotation = %v after deselect, want 0", w.Rotation())
	}

	var op history.Operation
	for _, st := range s.steps() {
		if tr, ok := st.Targets[0].Op.(*history.Transform); ok {
			op = tr
		}
	}
	if op == nil {
		t.Fatal("rotation recorded no step")
	}

	samePoints := func(name string, got, want []InkPoint) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("%s: %d points, want %d", name, len(got), len(want))
		}
		for i := range got {
			if !near(got[i].X, want[i].X) || !near(got[i].Y, want[i].Y) {
				t.Errorf("%s: point %d = (%v, %v), want (%v, %v)", name, i, got[i].X, got[i].Y, want[i].X, want[i].Y)
			}
		}
	}

	w.Undo(op)
	samePoints("undo", w.Strokes()[0].Points, orig)
	if w.Rotation() != 0 {
		t.Errorf("rotation after undo = %v", w.Rotation())
	}
	w.Redo(op)
	samePoints("redo", w.Strokes()[0].Points, rotated)
	w.Undo(op)
	samePoints("second undo", w.Strokes()[0].Points, orig)
}

func TestInkHitByLasso(t *testing.T) {
	w := NewInk(testEnv())
	w.SetEditing(true)
	drawLine(w, geom.Point{X: 100, Y: 100}, geom.Point{X: 200, Y: 200})
	around := geom.Polygon{{X: 90, Y: 90}, {X: 210, Y: 90}, {X: 210, Y: 210}}
	far := geom.Polygon{{X: 600, Y: 600}, {X: 700, Y: 600}, {X: 700, Y: 700}}
	if !w.HitByLasso(around) {
		t.Error("lasso around the stroke should hit")
	}
	if w.HitByLasso(far) {
		t.Error("distant lasso should miss")
	}
}

func TestGroupMovesMembersAsOneStep(t *testing.T) {
	env := testEnv()
	a, _ := newTestImage(env, geom.Rect{Left: 100, Top: 100, Right: 200, Bottom: 200})
	b, _ := newTestImage(env, geom.Rect{Left: 300, Top: 150, Right: 400, Bottom: 300})
	g := NewGroup(env, nil)
	s := &sink{}
	g.SetSink(s)
	g.Select([]Widget{a, b})

	if !sameRect(g.Bounds(), geom.Rect{Left: 100, Top: 100, Right: 400, Bottom: 300}) {
		t.Fatalf("group rect = %+v", g.Bounds())
	}
	g.Transform(g.Bounds(), 0, frame.Start, true)
	g.Transform(g.Bounds().Offset(10, 20), 0, frame.Operating, true)
	g.Transform(g.Bounds(), 0, frame.End, true)

	if !sameRect(a.Bounds(), geom.Rect{Left: 110, Top: 120, Right: 210, Bottom: 220}) {
		t.Errorf("a = %+v", a.Bounds())
	}
	if !sameRect(b.Bounds(), geom.Rect{Left: 310, Top: 170, Right: 410, Bottom: 320}) {
		t.Errorf("b = %+v", b.Bounds())
	}
	steps := s.steps()
	if len(steps) != 1 || len(steps[0].Targets) != 2 {
		t.Fatalf("want one step with two targets, got %d steps", len(steps))
	}
	for _, tg := range steps[0].Targets {
		tg.Widget.(Widget).Undo(tg.Op)
	}
	if !sameRect(a.Bounds(), geom.Rect{Left: 100, Top: 100, Right: 200, Bottom: 200}) {
		t.Errorf("undo a = %+v", a.Bounds())
	}
}

func TestGroupRotatesMembersAroundCenter(t *testing.T) {
	env := testEnv()
	a, _ := newTestImage(env, geom.Rect{Left: 100, Top: 300, Right: 200, Bottom: 400})
	b, _ := newTestImage(env, geom.Rect{Left: 500, Top: 300, Right: 600, Bottom: 400})
	g := NewGroup(env, nil)
	g.Select([]Widget{a, b})

	g.Transform(g.Bounds(), 0, frame.Start, true)
	g.Transform(g.Bounds(), 90, frame.End, true)

	for _, w := range []Widget{a, b} {
		if !near(w.Rotation(), 90) {
			t.Errorf("member rotation = %v, want 90", w.Rotation())
		}
	}
	// Centers (150, 350) and (550, 350) turn around (350, 350).
	if c := a.Bounds().Center(); !near(c.X, 350) || !near(c.Y, 150) {
		t.Errorf("a center = %+v, want (350, 150)", c)
	}
	if c := b.Bounds().Center(); !near(c.X, 350) || !near(c.Y, 550) {
		t.Errorf("b center = %+v, want (350, 550)", c)
	}
}

func TestGroupLassoPicksWidgets(t *testing.T) {
	env := testEnv()
	a, _ := newTestImage(env, geom.Rect{Left: 100, Top: 100, Right: 200, Bottom: 200})
	b, _ := newTestImage(env, geom.Rect{Left: 600, Top: 600, Right: 700, Bottom: 700})
	all := []Widget{a, b}
	g := NewGroup(env, func(p geom.Polygon) []Widget {
		var out []Widget
		for _, w := range all {
			if w.HitByLasso(p) {
				out = append(out, w)
			}
		}
		return out
	})

	for _, ev := range []input.Event{
		input.At(input.Down, 50, 50),
		input.At(input.Move, 250, 50),
		input.At(input.Move, 250, 250),
		input.At(input.Up, 50, 250),
	} {
		if !g.OnTouch(ev) {
			t.Fatalf("lasso %v not consumed", ev.Action)
		}
	}
	ms := g.Members()
	if len(ms) != 1 || ms[0] != Widget(a) {
		t.Fatalf("members = %v", ms)
	}
	if !g.Selected() {
		t.Error("group should be selected after picking")
	}
}

func TestFromRecordRejectsGroups(t *testing.T) {
	_, err := FromRecord(testEnv(), document.Record{Kind: document.KindGroup})
	if err == nil {
		t.Fatal("group records cannot be restored")
	}
}
