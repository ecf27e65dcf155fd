package document

import (
	"math"

	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/typeid"
)

// NewSampleSnapshot builds a small demo board: one of each shape, a text
// block and an ink spiral. Coordinates are proportional to the board size.
func NewSampleSnapshot(width, height float64) *Snapshot {
	u := func(fx, fy, fw, fh float64) geom.Rect {
		return geom.RectXYWH(width*fx, height*fy, width*fw, height*fh)
	}

	var spiral []PointRecord
	cx, cy := width*0.75, height*0.7
	for i := 0; i < 60; i++ {
		a := float64(i) * 0.25
		r := 4 + float64(i)*1.5
		spiral = append(spiral, PointRecord{
			X:        cx + r*math.Cos(a),
			Y:        cy + r*math.Sin(a),
			Pressure: 0.6 + 0.4*float64(i%10)/10,
		})
	}
	inkBounds := geom.Rect{Left: cx - 100, Top: cy - 100, Right: cx + 100, Bottom: cy + 100}

	return &Snapshot{
		Version: Version,
		Width:   width,
		Height:  height,
		Widgets: []Record{
			{
				ID:   typeid.NewWidgetID(),
				Kind: KindShape,
				Rect: u(0.08, 0.1, 0.2, 0.2),
				Shape: &ShapePayload{
					Kind:  ShapeRectangle,
					Color: "#e94560",
				},
			},
			{
				ID:       typeid.NewWidgetID(),
				Kind:     KindShape,
				Rect:     u(0.35, 0.12, 0.18, 0.25),
				Rotation: 15,
				Shape: &ShapePayload{
					Kind:  ShapeCircle,
					Color: "#0f3460",
				},
			},
			{
				ID:   typeid.NewWidgetID(),
				Kind: KindShape,
				Rect: u(0.6, 0.1, 0.25, 0.2),
				Shape: &ShapePayload{
					Kind:  ShapeArrow,
					From:  "LEFT_BOTTOM",
					Color: "#2d6a4f",
				},
			},
			{
				ID:   typeid.NewWidgetID(),
				Kind: KindText,
				Rect: u(0.08, 0.45, 0.4, 0.3),
				Text: &TextPayload{
					Text: "Drag a handle to resize.\nTap twice to edit.",
				},
			},
			{
				ID:   typeid.NewWidgetID(),
				Kind: KindHandwrite,
				Rect: inkBounds,
				Ink: &InkPayload{
					Strokes: []StrokeRecord{
						{Pen: PenPencil, Width: 6, Color: "#16213e", Points: spiral},
					},
				},
			},
		},
	}
}
