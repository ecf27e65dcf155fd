package board

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/widget"
)

// Records returns the persisted form of every widget, bottom first. Shapes
// still being sized and empty ink layers are left out.
func (b *Board) Records() []document.Record {
	out := make([]document.Record, 0, len(b.widgets))
	for _, w := range b.widgets {
		if w == widget.Widget(b.shaping) {
			continue
		}
		if k, ok := w.(*widget.Ink); ok && k.StrokeCount() == 0 {
			continue
		}
		out = append(out, w.ToRecord())
	}
	return out
}

// Snapshot serializes the board.
func (b *Board) Snapshot() ([]byte, error) {
	return document.Encode(b.opts.Width, b.opts.Height, b.Records())
}

// Restore replaces every widget with the ones in data and clears history.
// Nothing changes when data cannot be decoded.
func (b *Board) Restore(data []byte) error {
	recs, err := document.Decode(data)
	if err != nil {
		return err
	}
	built := make([]widget.Widget, 0, len(recs))
	for i, rec := range recs {
		w, err := widget.FromRecord(b.env, rec)
		if err != nil {
			if errors.Is(err, document.ErrUnknownKind) {
				slog.Warn("skipping widget", "index", i, "error", err)
				continue
			}
			for _, x := range built {
				x.Dispose()
			}
			return fmt.Errorf("restore widget %d: %w", i, err)
		}
		built = append(built, w)
	}

	b.cancelBatchSelect()
	b.setActive(nil)
	b.armed = nil
	b.shaping = nil
	for _, w := range b.widgets {
		w.Dispose()
	}
	b.widgets = b.widgets[:0]
	for _, w := range built {
		b.attach(w)
	}
	b.history.Clear()

	if b.inkMode {
		k := b.ensureInk()
		k.SetPen(b.pen, b.penWidth, b.penColor)
		k.SetEditing(true)
	}
	b.notifyAll()
	return nil
}

// Save writes the snapshot to path, replacing any previous file in one
// rename.
func (b *Board) Save(path string) bool {
	data, err := b.Snapshot()
	if err != nil {
		slog.Error("failed to encode board", "path", path, "error", err)
		return false
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".board-*")
	if err != nil {
		slog.Error("failed to save board", "path", path, "error", err)
		return false
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		slog.Error("failed to save board", "path", path, "error", err)
		return false
	}
	if err := tmp.Close(); err != nil {
		slog.Error("failed to save board", "path", path, "error", err)
		return false
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		slog.Error("failed to save board", "path", path, "error", err)
		return false
	}
	slog.Info("board saved", "path", path, "widgets", len(b.widgets))
	return true
}

// Load restores the board from path.
func (b *Board) Load(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read board", "path", path, "error", err)
		return false
	}
	if err := b.Restore(data); err != nil {
		slog.Error("failed to load board", "path", path, "error", err)
		return false
	}
	slog.Info("board loaded", "path", path, "widgets", len(b.widgets))
	return true
}
