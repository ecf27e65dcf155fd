//go:build js && wasm

package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"syscall/js"

	"github.com/inamate/inamate/board-go/internal/board"
	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/input"
	"github.com/inamate/inamate/board-go/internal/render"
	"github.com/inamate/inamate/board-go/internal/task"
	"github.com/inamate/inamate/board-go/internal/widget"
)

var (
	brd          *board.Board
	onInvalidate js.Value
)

func main() {
	newBoard(1920, 1080)

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → board) ---
	api.Set("newBoard", js.FuncOf(jsNewBoard))
	api.Set("touch", js.FuncOf(touch))
	api.Set("command", js.FuncOf(command))
	api.Set("restore", js.FuncOf(restore))
	api.Set("loadSample", js.FuncOf(loadSample))
	api.Set("onInvalidate", js.FuncOf(setInvalidate))

	// --- Queries (frontend ← board) ---
	api.Set("render", js.FuncOf(renderPass))
	api.Set("state", js.FuncOf(state))
	api.Set("snapshot", js.FuncOf(snapshot))
	api.Set("thumbnail", js.FuncOf(thumbnail))

	js.Global().Set("boardEngine", api)
	js.Global().Set("boardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// newBoard replaces the board. Image widgets load nothing in the browser;
// the page draws them from their path.
func newBoard(w, h float64) {
	opts := board.DefaultOptions(w, h)
	opts.Exec = task.Inline
	opts.Post = task.Direct
	brd = board.New(opts)
	brd.OnInvalidate(func(l board.Layer) {
		if onInvalidate.Type() == js.TypeFunction {
			onInvalidate.Invoke(l.String())
		}
	})
}

func errorValue(err error) js.Value {
	return js.ValueOf(map[string]any{"error": err.Error()})
}

var okResult = map[string]any{"ok": true}

func jsNewBoard(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf(map[string]any{"error": "missing board size"})
	}
	newBoard(args[0].Float(), args[1].Float())
	return js.ValueOf(okResult)
}

// touch takes a JSON array of events and reports whether any was consumed.
func touch(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	var events []input.Event
	if err := json.Unmarshal([]byte(args[0].String()), &events); err != nil {
		return errorValue(err)
	}
	consumed := false
	for _, ev := range events {
		if brd.Touch(ev) {
			consumed = true
		}
	}
	return js.ValueOf(consumed)
}

func command(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing command JSON"})
	}
	var c board.Command
	if err := json.Unmarshal([]byte(args[0].String()), &c); err != nil {
		return errorValue(err)
	}
	if err := brd.Exec(c); err != nil {
		return errorValue(err)
	}
	return js.ValueOf(okResult)
}

func restore(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing snapshot JSON"})
	}
	if err := brd.Restore([]byte(args[0].String())); err != nil {
		return errorValue(err)
	}
	return js.ValueOf(okResult)
}

// loadSample fills the board with the demo snapshot.
func loadSample(this js.Value, args []js.Value) any {
	data, err := json.Marshal(document.NewSampleSnapshot(brd.Width(), brd.Height()))
	if err != nil {
		return errorValue(err)
	}
	if err := brd.Restore(data); err != nil {
		return errorValue(err)
	}
	return js.ValueOf(okResult)
}

func setInvalidate(this js.Value, args []js.Value) any {
	if len(args) > 0 {
		onInvalidate = args[0]
	}
	return nil
}

// renderPass returns the draw commands of one pass ("lower", "active" or
// "upper") as JSON, or of the whole board when no pass is named.
func renderPass(this js.Value, args []js.Value) any {
	rec := render.NewRecorder()
	pass := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		pass = args[0].String()
	}
	switch pass {
	case board.LayerLower.String():
		brd.DrawLower(rec)
	case board.LayerActive.String():
		brd.DrawActive(rec)
	case board.LayerUpper.String():
		brd.DrawUpper(rec)
	default:
		brd.Draw(rec)
	}
	out, err := render.DrawCommandsToJSON(rec.Commands())
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(out)
}

func state(this js.Value, args []js.Value) any {
	st := map[string]any{
		"widgets": len(brd.Widgets()),
		"undoLen": brd.UndoLen(),
		"redoLen": brd.RedoLen(),
		"scale":   brd.Scale(),
		"inkMode": brd.InkMode(),
		"batch":   brd.Group() != nil,
		"armed":   brd.Armed(),
	}
	if a := brd.Active(); a != nil {
		st["activeId"] = a.ID()
		if t, ok := a.(*widget.Text); ok {
			st["editing"] = t.Editing()
			st["pageIdx"] = t.PageIdx()
			st["pageCount"] = t.PageCount()
		}
	}
	return js.ValueOf(st)
}

func snapshot(this js.Value, args []js.Value) any {
	data, err := brd.Snapshot()
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

// thumbnail returns a PNG data URL no larger than w x h.
func thumbnail(this js.Value, args []js.Value) any {
	w, h := 320, 180
	if len(args) >= 2 {
		w, h = args[0].Int(), args[1].Int()
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, brd.Thumbnail(w, h)); err != nil {
		return errorValue(err)
	}
	return js.ValueOf("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
}
