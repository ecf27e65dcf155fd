package widget

import (
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"

	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/frame"
	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/history"
	"github.com/inamate/inamate/board-go/internal/input"
	"github.com/inamate/inamate/board-go/internal/render"
)

const (
	textFontSize = 28.0
	// editMoveGap is the smallest drag that leaves edit mode.
	editMoveGap = 5.0
)

// KindTextChange tags a text edit.
const KindTextChange history.Kind = "textChange"

// TextChange holds the text on the other side of an edit. Undo and redo
// swap it with the widget's current text.
type TextChange struct{ Text string }

func (*TextChange) Kind() history.Kind { return KindTextChange }

type textPage struct {
	lines []string
}

type textCursor struct {
	x, y    float64
	pageIdx int
	charIdx int
}

// Text is a paginated block of plain text.
type Text struct {
	base
	text    string
	pages   []textPage
	pageIdx int

	face    font.Face
	lineH   float64
	descent float64

	lastTouch *geom.Point
	cursor    *textCursor
	oldText   string
}

// NewText creates a text widget at the suggested initial rect, shrunk to
// fit its content.
func NewText(env *Env, text string) *Text {
	w := newText(env, text, "")
	w.rect = geom.SuggestedInitialRect(env.Width, env.Height)
	w.paginate(true)
	return w
}

func newTextFromRecord(env *Env, rec document.Record) *Text {
	w := newText(env, rec.Text.Text, rec.ID)
	w.pageIdx = rec.Text.PageIdx
	w.apply(rec)
	if w.pages == nil {
		w.paginate(false)
	}
	return w
}

func newText(env *Env, text, id string) *Text {
	w := &Text{text: text}
	w.init(env, w, document.KindText, id)
	face, err := render.NewFace(textFontSize)
	if err != nil {
		slog.Warn("text font unavailable, using estimated metrics", "error", err)
	}
	w.face = face
	w.lineH = textFontSize * 1.2
	w.descent = textFontSize * 0.25
	if face != nil {
		m := face.Metrics()
		w.lineH = float64(m.Height) / 64
		w.descent = float64(m.Descent) / 64
	}
	return w
}

func (w *Text) Text() string   { return w.text }
func (w *Text) PageIdx() int   { return w.pageIdx }
func (w *Text) PageCount() int { return len(w.pages) }

// Editing reports whether a cursor is placed.
func (w *Text) Editing() bool { return w.cursor != nil }

// Cursor returns the character index of the cursor, or -1.
func (w *Text) Cursor() int {
	if w.cursor == nil {
		return -1
	}
	return w.cursor.charIdx
}

func (w *Text) padding() float64 {
	return min(w.env.Width, w.env.Height) / 100
}

func (w *Text) advance(r rune) float64 {
	if r == '\n' || r == '\r' {
		return 0
	}
	if w.face != nil {
		if a, ok := w.face.GlyphAdvance(r); ok {
			return float64(a) / 64
		}
	}
	return textFontSize * 0.6
}

func (w *Text) measure(s string) float64 {
	var sum float64
	for _, r := range s {
		sum += w.advance(r)
	}
	return sum
}

// breakText returns how many bytes of s fit in maxW and their width. At
// least one rune is taken so long words still make progress.
func (w *Text) breakText(s string, maxW float64) (int, float64) {
	if maxW <= 0 {
		return 0, 0
	}
	var n int
	var sum float64
	for i, r := range s {
		a := w.advance(r)
		if sum+a > maxW && i > 0 {
			break
		}
		sum += a
		n = i + utf8.RuneLen(r)
	}
	return n, sum
}

// paginate lays the text out in pages of whole lines. With resetSize the
// widget shrinks or grows to the first page's content.
func (w *Text) paginate(resetSize bool) {
	pad := w.padding()
	maxW := w.rect.Width() - 2*pad
	maxH := w.rect.Height() - 2*pad

	var pages []textPage
	var lines []string
	var sumH, pageW, pageH float64
	for _, para := range strings.Split(strings.ReplaceAll(w.text, "\r", "\n"), "\n") {
		s := para + "\n"
		for s != "" {
			n, lw := w.breakText(s, maxW)
			if n == 0 {
				break
			}
			lines = append(lines, s[:n])
			s = s[n:]
			pageW = max(pageW, lw)
			sumH += w.lineH
			pageH = max(pageH, sumH)
			if sumH+w.lineH > maxH {
				pages = append(pages, textPage{lines: lines})
				lines, sumH = nil, 0
			}
		}
	}
	if len(lines) > 0 {
		pages = append(pages, textPage{lines: lines})
	}
	if w.text == "" {
		pages = nil
	}

	w.pages = pages
	w.pageIdx = max(0, min(w.pageIdx, len(pages)-1))
	if w.cursor != nil {
		w.cursor = w.cursorAt(w.cursor.charIdx)
	}
	if resetSize && pageW > 0 && pageH > 0 && (pageW != maxW || pageH != maxH) {
		r := geom.Rect{
			Left:   w.rect.Left,
			Top:    w.rect.Top,
			Right:  w.rect.Left + pageW + 2*pad,
			Bottom: w.rect.Top + pageH + 2*pad,
		}
		w.Transform(r, w.rotation, frame.End, false)
	}
	w.notify(EventUpdate)
}

func (w *Text) transformed(d history.Transform, _ frame.Status, _ bool) {
	if d.DW != 0 || d.DH != 0 {
		w.paginate(false)
	}
}

func (w *Text) selectChanged() {
	if !w.selected {
		w.EndEdit()
	}
}

func (w *Text) touchContent(ev input.Event, local geom.Point) bool {
	inside := w.rect.Contains(local.X, local.Y)
	if ev.Action == input.Down {
		if w.selected && inside {
			w.lastTouch = &geom.Point{X: ev.X, Y: ev.Y}
			return true
		}
		w.lastTouch = nil
	}
	if w.lastTouch == nil {
		w.EndEdit()
		return false
	}
	switch ev.Action {
	case input.Move:
		gap := max(w.env.Thresholds.MoveMinSpace, editMoveGap)
		if math.Abs(ev.X-w.lastTouch.X) >= gap && math.Abs(ev.Y-w.lastTouch.Y) >= gap {
			w.lastTouch = nil
			w.EndEdit()
			return false
		}
		return true
	case input.Up:
		w.lastTouch = nil
		if inside {
			w.beginEdit(local.X, local.Y)
			return true
		}
	}
	w.lastTouch = nil
	w.EndEdit()
	return false
}

func (w *Text) beginEdit(x, y float64) {
	if w.text == "" {
		return
	}
	c := w.cursorAtPoint(x, y)
	if c == nil {
		return
	}
	if w.cursor == nil {
		w.oldText = w.text
	}
	w.cursor = c
	w.notify(EventUpdate)
}

// SetText replaces the text while editing and moves the cursor to
// cursor, a character index. It reports whether the widget was editing.
func (w *Text) SetText(text string, cursor int) bool {
	if w.cursor == nil {
		return false
	}
	w.text = text
	w.cursor.charIdx = max(0, min(cursor, utf8.RuneCountInString(text)))
	w.paginate(false)
	return true
}

// EndEdit leaves edit mode and records the edit if the text changed.
func (w *Text) EndEdit() {
	if w.cursor == nil {
		return
	}
	w.cursor = nil
	w.notify(EventUpdate)
	if w.text != w.oldText {
		w.emitStep(history.Single(w, &TextChange{Text: w.oldText}))
	}
}

func (w *Text) cursorAtPoint(x, y float64) *textCursor {
	if len(w.pages) == 0 {
		return nil
	}
	pad := w.padding()
	idx := 0
	for _, p := range w.pages[:w.pageIdx] {
		for _, ln := range p.lines {
			idx += utf8.RuneCountInString(ln)
		}
	}
	for li, ln := range w.pages[w.pageIdx].lines {
		startY := w.rect.Top + pad + float64(li)*w.lineH
		if y < startY || y > startY+w.lineH {
			idx += utf8.RuneCountInString(ln)
			continue
		}
		sumX := w.rect.Left + pad
		i := 0
		for _, r := range ln {
			last := sumX
			sumX += w.advance(r)
			if x >= last && x <= sumX {
				return &textCursor{x: sumX, y: startY, pageIdx: w.pageIdx, charIdx: idx + i}
			}
			i++
		}
		return nil
	}
	return nil
}

func (w *Text) cursorAt(charIdx int) *textCursor {
	pad := w.padding()
	n := 0
	for pi, p := range w.pages {
		for li, ln := range p.lines {
			cnt := utf8.RuneCountInString(ln)
			if charIdx < n+cnt {
				prefix := string([]rune(ln)[:charIdx-n+1])
				return &textCursor{
					x:       w.rect.Left + pad + w.measure(prefix),
					y:       w.rect.Top + pad + float64(li)*w.lineH,
					pageIdx: pi,
					charIdx: charIdx,
				}
			}
			n += cnt
		}
	}
	// Cleared text keeps a cursor at the top left so editing goes on.
	return &textCursor{x: w.rect.Left + pad, y: w.rect.Top + pad, charIdx: min(charIdx, n)}
}

func (w *Text) drawContent(c render.Canvas) {
	if w.pageIdx < 0 || w.pageIdx >= len(w.pages) {
		return
	}
	pad := w.padding()
	st := render.Style{FontSize: textFontSize}
	for i, ln := range w.pages[w.pageIdx].lines {
		c.DrawText(strings.TrimRight(ln, "\n"), w.rect.Left+pad, w.rect.Top+pad+w.lineH*float64(i+1)-w.descent, st)
	}
	if cur := w.cursor; cur != nil && cur.pageIdx == w.pageIdx && !w.env.Plain {
		c.FillRect(geom.Rect{Left: cur.x - 2, Top: cur.y, Right: cur.x + 2, Bottom: cur.y + w.lineH}, render.Style{})
	}
}

func (w *Text) buttons() []frame.Button {
	return append(w.defaultButtons(),
		frame.Button{Icon: IconPrev, OnClick: func() { w.turnPage(-1) }},
		frame.Button{Icon: IconNext, OnClick: func() { w.turnPage(1) }},
	)
}

func (w *Text) turnPage(d int) {
	i := w.pageIdx + d
	if i < 0 || i >= len(w.pages) {
		return
	}
	w.EndEdit()
	w.pageIdx = i
	w.notify(EventUpdate)
}

func (w *Text) swap(op history.Operation) bool {
	tc, ok := op.(*TextChange)
	if !ok {
		return false
	}
	tc.Text, w.text = w.text, tc.Text
	w.cursor = nil
	w.paginate(false)
	return true
}

func (w *Text) Undo(op history.Operation) {
	if !w.swap(op) {
		w.base.Undo(op)
	}
}

func (w *Text) Redo(op history.Operation) {
	if !w.swap(op) {
		w.base.Redo(op)
	}
}

func (w *Text) ToRecord() document.Record {
	rec := w.record()
	rec.Text = &document.TextPayload{Text: w.text, PageIdx: w.pageIdx}
	return rec
}

func (w *Text) Copy() Widget {
	c := newText(w.env, w.text, "")
	c.rotation = w.rotation
	c.rect = w.copyRect()
	c.pageIdx = w.pageIdx
	c.paginate(false)
	return c
}

func (w *Text) Dispose() {
	w.base.Dispose()
	if w.face != nil {
		w.face.Close()
		w.face = nil
	}
}
