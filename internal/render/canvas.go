// Package render defines the drawing surface widgets paint onto and two
// implementations: a raster canvas backed by gg and a recorder that turns
// draw calls into a command list for remote canvases.
package render

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/inamate/inamate/board-go/internal/geom"
)

// Style describes how a primitive is stroked or filled.
type Style struct {
	Color    string    // hex, "#000000" when empty
	Width    float64   // stroke width
	Dash     []float64 // on/off lengths, solid when empty
	Closed   bool      // close polylines back to the first point
	Round    bool      // round caps and joins
	FontSize float64
}

// Canvas is the drawing contract widgets render against. Angles are degrees.
type Canvas interface {
	Save()
	Restore()
	Rotate(degrees, px, py float64)
	Scale(sx, sy, px, py float64)
	ClipRect(r geom.Rect)

	StrokeRect(r geom.Rect, s Style)
	FillRect(r geom.Rect, s Style)
	StrokeEllipse(r geom.Rect, s Style)
	StrokePolyline(pts []geom.Point, s Style)
	StrokeLine(x0, y0, x1, y1 float64, s Style)
	FillPolygon(pts []geom.Point, s Style)

	// DrawImage draws the src part of img into dst. An empty src means
	// the whole image. ref names the image for canvases that cannot carry
	// pixels.
	DrawImage(ref string, img image.Image, src, dst geom.Rect)
	// DrawText draws a single line with its baseline at y.
	DrawText(text string, x, y float64, s Style)
}

const DefaultColor = "#000000"

// ParseColor converts a hex color. Invalid input falls back to black.
func ParseColor(hex string) color.Color {
	if hex == "" {
		hex = DefaultColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		slog.Debug("invalid color", "color", hex, "error", err)
		return color.Black
	}
	return c
}

// NormalizeColor returns the canonical "#rrggbb" form, or DefaultColor.
func NormalizeColor(hex string) string {
	if hex == "" {
		return DefaultColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return DefaultColor
	}
	return c.Hex()
}
