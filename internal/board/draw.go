package board

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/render"
	"github.com/inamate/inamate/board-go/internal/widget"
)

// split returns the widgets below the active one, the active one and those
// above it. With no active widget everything is lower.
func (b *Board) split() (lower []widget.Widget, active widget.Widget, upper []widget.Widget) {
	i := -1
	if b.active != nil {
		i = b.indexOf(b.active)
	}
	if i < 0 {
		return b.widgets, nil, nil
	}
	return b.widgets[:i], b.widgets[i], b.widgets[i+1:]
}

func (b *Board) pass(c render.Canvas, fn func()) {
	c.Save()
	if b.scale != 1 {
		c.Scale(b.scale, b.scale, b.opts.Width/2, b.opts.Height/2)
	}
	fn()
	c.Restore()
}

// DrawLower draws the widgets below the active one.
func (b *Board) DrawLower(c render.Canvas) {
	lower, _, _ := b.split()
	b.pass(c, func() {
		for _, w := range lower {
			w.Draw(c)
		}
	})
}

// DrawActive draws the active widget and its frame.
func (b *Board) DrawActive(c render.Canvas) {
	_, a, _ := b.split()
	if a == nil {
		return
	}
	b.pass(c, func() { a.Draw(c) })
}

// DrawUpper draws the widgets above the active one, then the group.
func (b *Board) DrawUpper(c render.Canvas) {
	_, _, upper := b.split()
	b.pass(c, func() {
		for _, w := range upper {
			w.Draw(c)
		}
		if b.group != nil {
			b.group.Draw(c)
		}
	})
}

// Draw runs all three passes.
func (b *Board) Draw(c render.Canvas) {
	b.DrawLower(c)
	b.DrawActive(c)
	b.DrawUpper(c)
}

// Thumbnail renders the board on white without selection frames or lassos
// and fits it into maxW x maxH.
func (b *Board) Thumbnail(maxW, maxH int) image.Image {
	w, h := int(b.opts.Width), int(b.opts.Height)
	if maxW <= 0 || maxH <= 0 || w <= 0 || h <= 0 {
		return nil
	}
	r := render.NewRaster(w, h)
	r.Fill("#ffffff")
	b.env.Plain = true
	b.Draw(r)
	b.env.Plain = false
	src := r.Image()

	tw, th := geom.FitSize(w, h, maxW, maxH)
	if tw == w && th == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(tw, 1), max(th, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
