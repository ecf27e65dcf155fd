package input

import (
	"fmt"
	"strings"
)

// Action is the phase of a pointer gesture.
type Action int

const (
	Down Action = iota
	Move
	Up
	Cancel
)

var actionNames = [...]string{"down", "move", "up", "cancel"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	v, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAction accepts the lower case action names.
func ParseAction(s string) (Action, error) {
	for i, n := range actionNames {
		if strings.EqualFold(s, n) {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown touch action %q", s)
}

// Tool is the kind of pointer that produced an event.
type Tool int

const (
	ToolUnknown Tool = iota
	ToolFinger
	ToolStylus
	ToolMouse
	ToolEraser
)

var toolNames = [...]string{"unknown", "finger", "stylus", "mouse", "eraser"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("tool(%d)", int(t))
	}
	return toolNames[t]
}

func (t Tool) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tool) UnmarshalText(text []byte) error {
	for i, n := range toolNames {
		if strings.EqualFold(string(text), n) {
			*t = Tool(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tool type %q", string(text))
}

// Event is a normalized touch event in board-local pixels.
type Event struct {
	Action   Action  `json:"action" yaml:"action"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Pressure float64 `json:"pressure,omitempty" yaml:"pressure,omitempty"`
	Tool     Tool    `json:"tool,omitempty" yaml:"tool,omitempty"`
}

// At is a shorthand for a finger event with full pressure.
func At(action Action, x, y float64) Event {
	return Event{Action: action, X: x, Y: y, Pressure: 1, Tool: ToolFinger}
}
