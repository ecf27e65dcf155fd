package session

import (
	"encoding/json"

	"github.com/inamate/inamate/board-go/internal/board"
	"github.com/inamate/inamate/board-go/internal/input"
	"github.com/inamate/inamate/board-go/internal/render"
)

type Message struct {
	Type     string          `json:"type"`
	BoardID  string          `json:"boardId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

const (
	// Inbound
	TypeTouch   = "touch"
	TypeCommand = "command"
	TypeSave    = "save"

	// Outbound
	TypeWelcome = "welcome"
	TypeRender  = "render"
	TypeState   = "state"
	TypeError   = "error"

	// Roster
	TypeViewerJoin  = "viewer.join"
	TypeViewerLeave = "viewer.leave"
	TypeController  = "controller"
)

// TouchPayload carries one or more pointer events in order.
type TouchPayload struct {
	Events []input.Event `json:"events"`
}

type CommandPayload struct {
	Command board.Command `json:"command"`
}

type WelcomePayload struct {
	ClientID   string  `json:"clientId"`
	Controller bool    `json:"controller"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// RenderPayload carries the draw passes that changed since the previous
// render message. Omitted passes are unchanged.
type RenderPayload struct {
	Lower  []render.DrawCommand `json:"lower,omitempty"`
	Active []render.DrawCommand `json:"active,omitempty"`
	Upper  []render.DrawCommand `json:"upper,omitempty"`
	Passes []string             `json:"passes"`
}

type StatePayload struct {
	Widgets   int     `json:"widgets"`
	ActiveID  string  `json:"activeId,omitempty"`
	UndoLen   int     `json:"undoLen"`
	RedoLen   int     `json:"redoLen"`
	Scale     float64 `json:"scale"`
	InkMode   bool    `json:"inkMode"`
	Batch     bool    `json:"batchSelect"`
	Armed     bool    `json:"armed"`
	Editing   bool    `json:"editing"`
	PageIdx   int     `json:"pageIdx,omitempty"`
	PageCount int     `json:"pageCount,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type ViewerPayload struct {
	ClientID string `json:"clientId"`
}

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
