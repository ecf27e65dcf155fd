package widget

import (
	"image"
	"log/slog"

	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/render"
)

// Image shows a decoded picture stretched over its rect.
type Image struct {
	base
	path string
	img  image.Image
}

// NewImage creates an image widget. img may be nil, in which case the
// picture is loaded from path.
func NewImage(env *Env, path string, img image.Image, r geom.Rect) *Image {
	w := &Image{path: path, img: img}
	w.init(env, w, document.KindImage, "")
	if w.img == nil {
		w.img = loadImage(env, path)
	}
	w.rect = r
	return w
}

func newImageFromRecord(env *Env, rec document.Record) *Image {
	w := &Image{path: rec.Image.Path}
	w.init(env, w, document.KindImage, rec.ID)
	w.img = loadImage(env, w.path)
	w.apply(rec)
	return w
}

func loadImage(env *Env, path string) image.Image {
	if env.Images == nil || path == "" {
		return nil
	}
	img, err := env.Images.Load(path, int(env.Width), int(env.Height))
	if err != nil {
		slog.Warn("failed to load image", "path", path, "error", err)
		return nil
	}
	return img
}

// Path is the source file of the picture.
func (w *Image) Path() string { return w.path }

func (w *Image) drawContent(c render.Canvas) {
	if w.img == nil {
		c.StrokeRect(w.rect.Normalized(), render.Style{Width: 2, Dash: []float64{8, 8}})
		return
	}
	c.DrawImage(w.path, w.img, geom.Rect{}, w.rect)
}

func (w *Image) ToRecord() document.Record {
	rec := w.record()
	rec.Image = &document.ImagePayload{Path: w.path}
	return rec
}

func (w *Image) Copy() Widget {
	c := &Image{path: w.path, img: w.img}
	c.init(w.env, c, document.KindImage, "")
	c.rotation = w.rotation
	c.rect = w.copyRect()
	return c
}

func (w *Image) Dispose() {
	w.base.Dispose()
	w.img = nil
}
