package render

import (
	"encoding/json"
	"image"

	"github.com/inamate/inamate/board-go/internal/geom"
)

// DrawCommand represents a single drawing operation for a remote canvas.
// A client receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"`                    // "save", "restore", "clip", "path", "fillPath", "ellipse", "image", "text"
	Transform   []float64     `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`        // Path data for path ops
	Rect        *geom.Rect    `json:"rect,omitempty"`        // Ellipse bounds or image destination
	Src         *geom.Rect    `json:"src,omitempty"`         // Image source rect
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
	Dash        []float64     `json:"dash,omitempty"`        // Line dash pattern
	Round       bool          `json:"round,omitempty"`       // Round caps and joins
	ImageRef    string        `json:"imageRef,omitempty"`    // Image lookup key
	Text        string        `json:"text,omitempty"`
	X           float64       `json:"x,omitempty"`
	Y           float64       `json:"y,omitempty"`
	FontSize    float64       `json:"fontSize,omitempty"`
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["Z"].
type PathCommand []interface{}

// Recorder is a Canvas that records draw commands in painter's order.
type Recorder struct {
	matrix   geom.Matrix2D
	stack    []geom.Matrix2D
	commands []DrawCommand
}

// NewRecorder creates an empty recorder with an identity transform.
func NewRecorder() *Recorder {
	return &Recorder{matrix: geom.Identity()}
}

// Commands returns the recorded commands.
func (r *Recorder) Commands() []DrawCommand { return r.commands }

// Reset drops all commands and transforms.
func (r *Recorder) Reset() {
	r.matrix = geom.Identity()
	r.stack = r.stack[:0]
	r.commands = nil
}

func (r *Recorder) emit(cmd DrawCommand) {
	if !r.matrix.IsIdentity() {
		cmd.Transform = r.matrix.ToSlice()
	}
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.matrix)
	r.commands = append(r.commands, DrawCommand{Op: "save"})
}

func (r *Recorder) Restore() {
	if n := len(r.stack); n > 0 {
		r.matrix = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
	r.commands = append(r.commands, DrawCommand{Op: "restore"})
}

func (r *Recorder) Rotate(degrees, px, py float64) {
	r.matrix = r.matrix.Multiply(geom.RotateAbout(degrees, px, py))
}

func (r *Recorder) Scale(sx, sy, px, py float64) {
	r.matrix = r.matrix.Multiply(geom.ScaleAbout(sx, sy, px, py))
}

func (r *Recorder) ClipRect(rect geom.Rect) {
	r.emit(DrawCommand{Op: "clip", Path: rectPath(rect.Normalized())})
}

func (r *Recorder) StrokeRect(rect geom.Rect, s Style) {
	r.emit(strokeCommand("path", rectPath(rect), s))
}

func (r *Recorder) FillRect(rect geom.Rect, s Style) {
	r.emit(DrawCommand{Op: "fillPath", Path: rectPath(rect), Fill: NormalizeColor(s.Color)})
}

func (r *Recorder) StrokeEllipse(rect geom.Rect, s Style) {
	cmd := strokeCommand("ellipse", nil, s)
	cmd.Rect = &rect
	r.emit(cmd)
}

func (r *Recorder) StrokePolyline(pts []geom.Point, s Style) {
	if len(pts) < 2 {
		return
	}
	r.emit(strokeCommand("path", polyPath(pts, s.Closed), s))
}

func (r *Recorder) FillPolygon(pts []geom.Point, s Style) {
	if len(pts) < 3 {
		return
	}
	r.emit(DrawCommand{Op: "fillPath", Path: polyPath(pts, true), Fill: NormalizeColor(s.Color)})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1 float64, s Style) {
	r.emit(strokeCommand("path", []PathCommand{{"M", x0, y0}, {"L", x1, y1}}, s))
}

func (r *Recorder) DrawImage(ref string, _ image.Image, src, dst geom.Rect) {
	cmd := DrawCommand{Op: "image", ImageRef: ref, Rect: &dst}
	if !src.IsEmpty() {
		cmd.Src = &src
	}
	r.emit(cmd)
}

func (r *Recorder) DrawText(text string, x, y float64, s Style) {
	r.emit(DrawCommand{
		Op:       "text",
		Text:     text,
		X:        x,
		Y:        y,
		Fill:     NormalizeColor(s.Color),
		FontSize: s.FontSize,
	})
}

func strokeCommand(op string, path []PathCommand, s Style) DrawCommand {
	w := s.Width
	if w <= 0 {
		w = 1
	}
	return DrawCommand{
		Op:          op,
		Path:        path,
		Stroke:      NormalizeColor(s.Color),
		StrokeWidth: w,
		Dash:        s.Dash,
		Round:       s.Round,
	}
}

func rectPath(r geom.Rect) []PathCommand {
	return []PathCommand{
		{"M", r.Left, r.Top},
		{"L", r.Right, r.Top},
		{"L", r.Right, r.Bottom},
		{"L", r.Left, r.Bottom},
		{"Z"},
	}
}

func polyPath(pts []geom.Point, closed bool) []PathCommand {
	path := make([]PathCommand, 0, len(pts)+1)
	path = append(path, PathCommand{"M", pts[0].X, pts[0].Y})
	for _, p := range pts[1:] {
		path = append(path, PathCommand{"L", p.X, p.Y})
	}
	if closed {
		path = append(path, PathCommand{"Z"})
	}
	return path
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
