package render

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontOnce sync.Once
	fontErr  error
	goFont   *opentype.Font
)

// NewFace returns a Go Regular face of the given pixel size. Faces are not
// safe for concurrent use, so every owner keeps its own.
func NewFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		goFont, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return opentype.NewFace(goFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// faceCache hands out one face per size to a single owner.
type faceCache map[float64]font.Face

func (c faceCache) get(size float64) font.Face {
	if f, ok := c[size]; ok {
		return f
	}
	f, err := NewFace(size)
	if err != nil {
		return nil
	}
	c[size] = f
	return f
}
