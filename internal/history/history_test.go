package history

import (
	"testing"

	"github.com/inamate/inamate/board-go/internal/geom"
)

type box struct {
	name string
	r    geom.Rect
}

func (b *box) Bounds() geom.Rect { return b.r }

type recorder struct {
	undone, redone []Target
}

func (r *recorder) UndoTarget(t Target) { r.undone = append(r.undone, t) }
func (r *recorder) RedoTarget(t Target) { r.redone = append(r.redone, t) }

func solid(name string) *box { return &box{name: name, r: geom.RectXYWH(0, 0, 10, 10)} }

func TestRecordRejectsEmptyTargets(t *testing.T) {
	tests := []struct {
		name    string
		targets []Target
		want    bool
	}{
		{"no targets", nil, false},
		{"all empty", []Target{{Widget: &box{}, Op: Add{}}, {Widget: &box{}, Op: Add{}}}, false},
		{"one solid", []Target{{Widget: &box{}, Op: Add{}}, {Widget: solid("a"), Op: Add{}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(0)
			if got := h.Record(NewStep(tt.targets...), true); got != tt.want {
				t.Errorf("Record = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCapacityEvictsOldestFirst(t *testing.T) {
	h := New(DefaultCapacity)
	var steps []*Step
	for i := 0; i < 150; i++ {
		s := Single(solid("w"), &Transform{DX: float64(i)})
		steps = append(steps, s)
		h.Record(s, true)
	}
	if h.UndoLen() != 99 {
		t.Fatalf("UndoLen = %d, want 99", h.UndoLen())
	}
	got := h.Steps()
	for i, s := range got {
		if s != steps[51+i] {
			t.Fatalf("step %d is not the %dth recorded step", i, 51+i)
		}
	}
}

func TestUndoRedoMovesSteps(t *testing.T) {
	h := New(0)
	d := &recorder{}
	a, b := solid("a"), solid("b")
	h.Record(NewStep(Target{Widget: a, Op: Delete{Index: 0}}, Target{Widget: b, Op: Delete{Index: 2}}), true)

	if !h.Undo(d) {
		t.Fatal("Undo returned false")
	}
	if h.UndoLen() != 0 || h.RedoLen() != 1 {
		t.Fatalf("after undo: undo=%d redo=%d", h.UndoLen(), h.RedoLen())
	}
	if len(d.undone) != 2 || d.undone[0].Widget != b || d.undone[1].Widget != a {
		t.Errorf("undo dispatched %+v, want b then a", d.undone)
	}

	if !h.Redo(d) {
		t.Fatal("Redo returned false")
	}
	if h.UndoLen() != 1 || h.RedoLen() != 0 {
		t.Errorf("after redo: undo=%d redo=%d", h.UndoLen(), h.RedoLen())
	}
	if len(d.redone) != 2 || d.redone[0].Widget != a || d.redone[1].Widget != b {
		t.Errorf("redo dispatched %+v, want a then b", d.redone)
	}
}

func TestEmptyStacksAreNoops(t *testing.T) {
	h := New(0)
	d := &recorder{}
	if h.Undo(d) || h.Redo(d) {
		t.Error("undo/redo on empty history should return false")
	}
}

func TestRecordClearsRedo(t *testing.T) {
	tests := []struct {
		name      string
		clearRedo bool
		wantRedo  int
	}{
		{"new step clears redo", true, 0},
		{"replay keeps redo", false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(0)
			d := &recorder{}
			h.Record(Single(solid("a"), ChangeLayer{Diff: 1}), true)
			h.Undo(d)
			h.Record(Single(solid("b"), ChangeLayer{Diff: 1}), tt.clearRedo)
			if h.RedoLen() != tt.wantRedo {
				t.Errorf("RedoLen = %d, want %d", h.RedoLen(), tt.wantRedo)
			}
		})
	}
}

func TestTransformAccumulate(t *testing.T) {
	var tr Transform
	tr.Accumulate(Transform{DX: 1, DW: 2})
	tr.Accumulate(Transform{DX: -1, DH: 3, DR: 5})
	want := Transform{DX: 0, DW: 2, DH: 3, DR: 5}
	if tr != want {
		t.Errorf("Accumulate = %+v, want %+v", tr, want)
	}
	if tr.IsZero() || !tr.Moved() {
		t.Error("non-zero transform reported as zero")
	}
	if (Transform{DR: 1}).Moved() {
		t.Error("rotation only should not count as moved")
	}
}
