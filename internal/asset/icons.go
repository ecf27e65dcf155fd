package asset

import (
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

// IconSize is the edge of a generated icon in pixels.
const IconSize = 64

// IconSet maps icon names to images. It is filled once and read-only
// afterwards, so it may be shared between boards.
type IconSet struct {
	icons map[string]image.Image
}

// NewIconSet loads "<name>.png" from dir for every name and draws a plain
// fallback glyph for the ones that are missing. An empty dir uses only the
// fallbacks.
func NewIconSet(dir string, names []string) *IconSet {
	s := &IconSet{icons: make(map[string]image.Image, len(names))}
	for _, name := range names {
		if dir != "" {
			if img, err := loadIcon(filepath.Join(dir, name+".png")); err == nil {
				s.icons[name] = img
				continue
			} else if !os.IsNotExist(err) {
				slog.Warn("failed to load icon", "name", name, "error", err)
			}
		}
		s.icons[name] = drawIcon(name)
	}
	return s
}

func loadIcon(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := Decode(f)
	return img, err
}

// Icon returns the image for name, or nil.
func (s *IconSet) Icon(name string) image.Image {
	if s == nil {
		return nil
	}
	return s.icons[name]
}

func drawIcon(name string) image.Image {
	const n, m = IconSize, IconSize / 2
	dc := gg.NewContext(n, n)
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(5)
	dc.SetLineCap(gg.LineCapRound)
	switch name {
	case "rotate":
		dc.DrawArc(m, m, 20, 0, 1.5*math.Pi)
		dc.Stroke()
		dc.DrawLine(m+20, m, m+12, m-8)
		dc.DrawLine(m+20, m, m+28, m-8)
	case "move":
		dc.DrawLine(12, m, n-12, m)
		dc.DrawLine(m, 12, m, n-12)
	case "zoom_out", "zoom_in":
		dc.DrawCircle(m-4, m-4, 18)
		dc.DrawLine(m+10, m+10, n-8, n-8)
		dc.DrawLine(m-14, m-4, m+6, m-4)
		if name == "zoom_in" {
			dc.DrawLine(m-4, m-14, m-4, m+6)
		}
	case "copy":
		dc.DrawRectangle(10, 10, 32, 32)
		dc.DrawRectangle(22, 22, 32, 32)
	case "delete":
		dc.DrawLine(14, 14, n-14, n-14)
		dc.DrawLine(n-14, 14, 14, n-14)
	case "prev":
		dc.DrawLine(n-20, 12, 20, m)
		dc.DrawLine(20, m, n-20, n-12)
	case "next":
		dc.DrawLine(20, 12, n-20, m)
		dc.DrawLine(n-20, m, 20, n-12)
	default:
		dc.DrawCircle(m, m, 6)
	}
	dc.Stroke()
	return dc.Image()
}
