package board

import (
	"errors"
	"fmt"

	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/widget"
)

// Command names accepted by Exec.
const (
	CmdUndo              = "undo"
	CmdRedo              = "redo"
	CmdChangeLayer       = "changeLayer"
	CmdSetScale          = "setScale"
	CmdInkMode           = "inkMode"
	CmdPen               = "pen"
	CmdArmShape          = "armShape"
	CmdAddShape          = "addShape"
	CmdAddText           = "addText"
	CmdAddImage          = "addImage"
	CmdSetText           = "setText"
	CmdEndEdit           = "endEdit"
	CmdBatchSelect       = "batchSelect"
	CmdCancelBatchSelect = "cancelBatchSelect"
	CmdDelete            = "delete"
	CmdDeselect          = "deselect"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is a board command as it arrives over the wire or from a
// script. Only the fields the named command uses are read.
type Command struct {
	Name   string             `json:"name" yaml:"name"`
	Step   int                `json:"step,omitempty" yaml:"step,omitempty"`
	Scale  float64            `json:"scale,omitempty" yaml:"scale,omitempty"`
	On     bool               `json:"on,omitempty" yaml:"on,omitempty"`
	Pen    document.Pen       `json:"pen,omitempty" yaml:"pen,omitempty"`
	Width  float64            `json:"width,omitempty" yaml:"width,omitempty"`
	Color  string             `json:"color,omitempty" yaml:"color,omitempty"`
	Shape  document.ShapeKind `json:"shape,omitempty" yaml:"shape,omitempty"`
	Rect   *geom.Rect         `json:"rect,omitempty" yaml:"rect,omitempty"`
	Text   string             `json:"text,omitempty" yaml:"text,omitempty"`
	Cursor int                `json:"cursor,omitempty" yaml:"cursor,omitempty"`
	Path   string             `json:"path,omitempty" yaml:"path,omitempty"`
}

// Exec applies c. Commands that have nothing to act on, such as undo on an
// empty history, are not errors.
func (b *Board) Exec(c Command) error {
	switch c.Name {
	case CmdUndo:
		b.Undo()
	case CmdRedo:
		b.Redo()
	case CmdChangeLayer:
		b.ChangeLayer(c.Step)
	case CmdSetScale:
		if c.Scale <= 0 {
			return fmt.Errorf("%s: scale must be positive", c.Name)
		}
		b.SetScale(c.Scale)
	case CmdInkMode:
		b.SetInkMode(c.On)
	case CmdPen:
		switch c.Pen {
		case document.PenPencil, document.PenEraser, document.PenEnclosedEraser:
		default:
			return fmt.Errorf("%s: unknown pen %q", c.Name, c.Pen)
		}
		b.SetPen(c.Pen, c.Width, c.Color)
	case CmdArmShape:
		if err := checkShape(c.Shape); err != nil {
			return err
		}
		b.ArmShape(c.Shape, c.Color)
	case CmdAddShape:
		if err := checkShape(c.Shape); err != nil {
			return err
		}
		if c.Rect == nil {
			return fmt.Errorf("%s: rect required", c.Name)
		}
		if _, err := b.AddShape(c.Shape, c.Color, *c.Rect); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
	case CmdAddText:
		b.AddText(c.Text)
	case CmdAddImage:
		if !b.AddImage(c.Path) {
			return fmt.Errorf("%s: cannot load %q", c.Name, c.Path)
		}
	case CmdSetText:
		t, ok := b.active.(*widget.Text)
		if !ok || !t.SetText(c.Text, c.Cursor) {
			return fmt.Errorf("%s: no text is being edited", c.Name)
		}
	case CmdEndEdit:
		if t, ok := b.active.(*widget.Text); ok {
			t.EndEdit()
		}
	case CmdBatchSelect:
		b.BatchSelect()
	case CmdCancelBatchSelect:
		b.CancelBatchSelect()
	case CmdDelete:
		b.RemoveActive()
	case CmdDeselect:
		b.cancelBatchSelect()
		b.Deselect()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Name)
	}
	return nil
}

func checkShape(k document.ShapeKind) error {
	switch k {
	case document.ShapeRectangle, document.ShapeCircle, document.ShapeArrow:
		return nil
	}
	return fmt.Errorf("unknown shape %q", k)
}
