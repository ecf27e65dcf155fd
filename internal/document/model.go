package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inamate/inamate/board-go/internal/geom"
)

// Version is written into every snapshot.
const Version = 1

var (
	ErrUnknownKind    = errors.New("unknown widget kind")
	ErrMissingPayload = errors.New("widget payload missing")
)

// Kind tags a persisted widget.
type Kind string

const (
	KindImage     Kind = "image"
	KindShape     Kind = "shape"
	KindText      Kind = "text"
	KindHandwrite Kind = "handwrite"
	KindGroup     Kind = "group" // never persisted
)

// ShapeKind names a shape variant.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeArrow     ShapeKind = "arrow"
)

// Pen names an ink pen.
type Pen string

const (
	PenPencil         Pen = "PENCIL"
	PenEraser         Pen = "ERASER"
	PenEnclosedEraser Pen = "ENCLOSED_ERASER"
)

// Snapshot is the persisted form of a board.
type Snapshot struct {
	Version int      `json:"version"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`
	Widgets []Record `json:"widgets"`
}

// Record is one widget. Exactly one payload matches Kind.
type Record struct {
	ID       string        `json:"id,omitempty"`
	Kind     Kind          `json:"kind"`
	Rect     geom.Rect     `json:"rect"`
	Rotation float64       `json:"rotation"`
	Image    *ImagePayload `json:"image,omitempty"`
	Shape    *ShapePayload `json:"shape,omitempty"`
	Text     *TextPayload  `json:"text,omitempty"`
	Ink      *InkPayload   `json:"ink,omitempty"`
}

type ImagePayload struct {
	Path string `json:"path"`
}

type ShapePayload struct {
	Kind  ShapeKind `json:"kind"`
	From  string    `json:"from,omitempty"` // arrow start corner
	Color string    `json:"color,omitempty"`
}

type TextPayload struct {
	Text    string `json:"text"`
	PageIdx int    `json:"pageIdx"`
}

// InkPayload holds strokes at board scale 1.
type InkPayload struct {
	Strokes []StrokeRecord `json:"strokes"`
}

type StrokeRecord struct {
	Pen    Pen           `json:"pen"`
	Width  float64       `json:"width"`
	Color  string        `json:"color,omitempty"`
	Points []PointRecord `json:"points"`
}

type PointRecord struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"`
}

// Validate checks the kind tag and its payload.
func (r Record) Validate() error {
	var ok bool
	switch r.Kind {
	case KindImage:
		ok = r.Image != nil
	case KindShape:
		ok = r.Shape != nil
	case KindText:
		ok = r.Text != nil
	case KindHandwrite:
		ok = r.Ink != nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingPayload, r.Kind)
	}
	return nil
}

// Encode serializes widgets into a snapshot.
func Encode(width, height float64, records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(Snapshot{Version: Version, Width: width, Height: height, Widgets: records})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot. A bare JSON array of records is accepted too.
// Records with an unknown kind are skipped; any other problem fails the
// whole decode.
func Decode(data []byte) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("decode snapshot: empty input")
	}
	var records []Record
	if data[0] == '[' {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
	} else {
		var s Snapshot
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		if s.Version > Version {
			return nil, fmt.Errorf("decode snapshot: unsupported version %d", s.Version)
		}
		records = s.Widgets
	}

	out := make([]Record, 0, len(records))
	for i, r := range records {
		if err := r.Validate(); err != nil {
			if errors.Is(err, ErrUnknownKind) {
				slog.Warn("skipping widget record", "index", i, "kind", r.Kind)
				continue
			}
			return nil, fmt.Errorf("decode snapshot: record %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}
