// Package history records undoable steps and replays them through a
// Dispatcher. It owns two bounded stacks and knows nothing about widgets
// beyond their bounds.
package history

import (
	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/typeid"
)

// DefaultCapacity is the undo stack size used when none is configured.
const DefaultCapacity = 99

// Kind tags an operation.
type Kind string

const (
	KindAdd         Kind = "add"
	KindDelete      Kind = "delete"
	KindTransform   Kind = "transform"
	KindChangeLayer Kind = "changeLayer"
)

// Operation is what changed on one target. Widgets define their own
// content operations beside the generic ones below.
type Operation interface {
	Kind() Kind
}

// Add records a widget inserted at Index.
type Add struct{ Index int }

// Delete records a widget removed from Index.
type Delete struct{ Index int }

// ChangeLayer records a widget moved by Diff positions in z-order.
type ChangeLayer struct{ Diff int }

// Transform holds geometry deltas. Incremental phases add up.
type Transform struct {
	DX, DY, DW, DH, DR float64
}

func (Add) Kind() Kind         { return KindAdd }
func (Delete) Kind() Kind      { return KindDelete }
func (ChangeLayer) Kind() Kind { return KindChangeLayer }
func (*Transform) Kind() Kind  { return KindTransform }

// Accumulate adds o into t.
func (t *Transform) Accumulate(o Transform) {
	t.DX += o.DX
	t.DY += o.DY
	t.DW += o.DW
	t.DH += o.DH
	t.DR += o.DR
}

// IsZero reports whether every delta is zero.
func (t Transform) IsZero() bool {
	return t.DX == 0 && t.DY == 0 && t.DW == 0 && t.DH == 0 && t.DR == 0
}

// Moved reports whether position or size changed.
func (t Transform) Moved() bool {
	return t.DX != 0 || t.DY != 0 || t.DW != 0 || t.DH != 0
}

// Subject is the part of a widget history needs.
type Subject interface {
	Bounds() geom.Rect
}

// Target pairs a widget with what happened to it.
type Target struct {
	Widget Subject
	Op     Operation
}

// Step is one undo unit.
type Step struct {
	ID      string
	Targets []Target
}

// NewStep builds a step with a fresh id.
func NewStep(targets ...Target) *Step {
	return &Step{ID: typeid.NewStepID(), Targets: targets}
}

// Single is NewStep for one target.
func Single(w Subject, op Operation) *Step {
	return NewStep(Target{Widget: w, Op: op})
}

// Dispatcher applies one target of a step in either direction.
type Dispatcher interface {
	UndoTarget(t Target)
	RedoTarget(t Target)
}

// History is a bounded undo stack plus a redo stack. It is not safe for
// concurrent use; the owning board serializes access.
type History struct {
	capacity int
	undo     []*Step
	redo     []*Step
}

// New creates a history holding at most capacity undo steps.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

// Record pushes a step. Steps whose targets all have empty bounds are
// aborted creations and are dropped. Recording clears the redo stack
// unless clearRedo is false.
func (h *History) Record(s *Step, clearRedo bool) bool {
	if s == nil || len(s.Targets) == 0 {
		return false
	}
	empty := true
	for _, t := range s.Targets {
		if t.Widget != nil && !t.Widget.Bounds().IsEmpty() {
			empty = false
			break
		}
	}
	if empty {
		return false
	}
	h.undo = append(h.undo, s)
	if over := len(h.undo) - h.capacity; over > 0 {
		clear(h.undo[:over])
		h.undo = h.undo[over:]
	}
	if clearRedo {
		clear(h.redo)
		h.redo = h.redo[:0]
	}
	return true
}

// Undo reverts the latest step, dispatching its targets last to first. It
// returns false when there is nothing to undo.
func (h *History) Undo(d Dispatcher) bool {
	n := len(h.undo)
	if n == 0 {
		return false
	}
	s := h.undo[n-1]
	h.undo[n-1] = nil
	h.undo = h.undo[:n-1]
	for i := len(s.Targets) - 1; i >= 0; i-- {
		d.UndoTarget(s.Targets[i])
	}
	h.redo = append(h.redo, s)
	return true
}

// Redo reapplies the latest undone step.
func (h *History) Redo(d Dispatcher) bool {
	n := len(h.redo)
	if n == 0 {
		return false
	}
	s := h.redo[n-1]
	h.redo[n-1] = nil
	h.redo = h.redo[:n-1]
	for _, t := range s.Targets {
		d.RedoTarget(t)
	}
	h.undo = append(h.undo, s)
	return true
}

func (h *History) UndoLen() int { return len(h.undo) }
func (h *History) RedoLen() int { return len(h.redo) }

// Steps returns a copy of the undo stack, oldest first.
func (h *History) Steps() []*Step {
	return append([]*Step(nil), h.undo...)
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
