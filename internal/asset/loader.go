// Package asset decodes image files for image widgets, provides the icons
// drawn on selection frames and serves uploaded images over HTTP.
package asset

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for data no registered decoder accepts.
var ErrUnsupported = errors.New("unsupported image format")

// Loader decodes image files, resolving relative paths against Dir.
type Loader struct {
	Dir string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader { return &Loader{Dir: dir} }

func (l *Loader) resolve(path string) string {
	if l.Dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.Dir, filepath.FromSlash(path))
}

// Load decodes the file at path and downscales it to fit maxW x maxH.
func (l *Loader) Load(path string, maxW, maxH int) (image.Image, error) {
	f, err := os.Open(l.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Downscale(img, maxW, maxH), nil
}

// Decode reads a png, jpeg, bmp or webp image.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if errors.Is(err, image.ErrFormat) {
		return nil, "", ErrUnsupported
	}
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Downscale shrinks img to fit inside maxW x maxH keeping its aspect
// ratio. Smaller images and non-positive limits return img unchanged.
func Downscale(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxW <= 0 || maxH <= 0 || (w <= maxW && h <= maxH) {
		return img
	}
	s := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	tw, th := max(int(float64(w)*s), 1), max(int(float64(h)*s), 1)
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
