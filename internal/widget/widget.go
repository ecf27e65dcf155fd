// Package widget implements the placeable objects of a board: images,
// shapes, text, ink and the ephemeral batch-select group. Every variant
// shares the transform and step-recording behaviour of base and reports to
// its owner through a Sink.
package widget

import (
	"image"

	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/frame"
	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/history"
	"github.com/inamate/inamate/board-go/internal/input"
	"github.com/inamate/inamate/board-go/internal/render"
	"github.com/inamate/inamate/board-go/internal/task"
)

// Widget is the capability set the board works with.
type Widget interface {
	ID() string
	Kind() document.Kind
	Bounds() geom.Rect
	Rotation() float64
	// TransformedBounds is Bounds rotated by Rotation.
	TransformedBounds() geom.Rect
	Selected() bool
	SetSelected(selected bool)

	// Transform sets a new rect and rotation. Only the End phase
	// normalizes, floors to the minimum size and clamps into the safe rect.
	Transform(r geom.Rect, rotation float64, status frame.Status, record bool)

	// OnTouch returns whether the widget consumed the event. For Down it
	// doubles as the hit test used for selection.
	OnTouch(ev input.Event) bool
	Draw(c render.Canvas)

	Undo(op history.Operation)
	Redo(op history.Operation)

	ToRecord() document.Record
	Copy() Widget
	// HitByLasso reports whether a closed lasso path selects the widget.
	HitByLasso(p geom.Polygon) bool

	SetSink(s Sink)
	Dispose()
}

// EventKind tells the owner what a widget wants.
type EventKind int

const (
	// EventUpdate asks for a redraw of the widget's layer.
	EventUpdate EventKind = iota
	// EventDelete asks the owner to remove the widget.
	EventDelete
	// EventCopy asks the owner to add a copy of the widget.
	EventCopy
	// EventStep carries a step to record.
	EventStep
	// EventCreated reports that a drag-to-create gesture completed.
	EventCreated
	// EventAbort reports a drag-to-create gesture without a drag.
	EventAbort
	// EventDismiss reports that a batch-select group was closed.
	EventDismiss
)

func (k EventKind) String() string {
	switch k {
	case EventUpdate:
		return "update"
	case EventDelete:
		return "delete"
	case EventCopy:
		return "copy"
	case EventStep:
		return "step"
	case EventCreated:
		return "created"
	case EventAbort:
		return "abort"
	case EventDismiss:
		return "dismiss"
	}
	return "unknown"
}

// Event is a message from a widget to its owner.
type Event struct {
	Kind   EventKind
	Widget Widget
	Step   *history.Step
}

// Sink receives widget events.
type Sink interface {
	Notify(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev Event)

func (f SinkFunc) Notify(ev Event) { f(ev) }

// ImageLoader decodes an image file, downscaled to fit maxW x maxH.
type ImageLoader interface {
	Load(path string, maxW, maxH int) (image.Image, error)
}

// Env carries the board-wide settings and services widgets need.
type Env struct {
	Width, Height float64
	MaxScale      float64
	MinSize       float64
	Thresholds    frame.Thresholds

	Icon   func(name string) image.Image
	Images ImageLoader

	Exec task.Executor
	Post task.Poster

	// Scale returns the live board scale.
	Scale func() float64
	// DeadAreas returns the rects of widgets stacked above the ink layer.
	DeadAreas func() []geom.Rect

	// Plain hides selection frames, lassos and the text cursor while set.
	Plain bool
}

// SafeRect is the region rotated widget bounds must stay within. It grows
// with the maximum board scale so zoomed-out views still have room.
func (e *Env) SafeRect() geom.Rect {
	if e.MaxScale > 1 {
		dx := e.Width * (e.MaxScale - 1) / 2
		dy := e.Height * (e.MaxScale - 1) / 2
		return geom.Rect{Left: -dx, Top: -dy, Right: e.Width + dx, Bottom: e.Height + dy}
	}
	return geom.Rect{Right: e.Width, Bottom: e.Height}
}

func (e *Env) scale() float64 {
	if e.Scale == nil {
		return 1
	}
	return e.Scale()
}

func (e *Env) frameOptions() frame.Options {
	return frame.Options{BoardWidth: e.Width, Thresholds: e.Thresholds, Icon: e.Icon}
}

// Icon names used by the default buttons.
const (
	IconMove    = "move"
	IconZoomOut = "zoom_out"
	IconZoomIn  = "zoom_in"
	IconCopy    = "copy"
	IconDelete  = "delete"
	IconPrev    = "prev"
	IconNext    = "next"
)

// IconNames lists every icon a frame may ask for.
var IconNames = []string{frame.IconRotate, IconMove, IconZoomOut, IconZoomIn, IconCopy, IconDelete, IconPrev, IconNext}
