package input

import (
	"encoding/json"
	"testing"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{"down", Down, false},
		{"MOVE", Move, false},
		{"up", Up, false},
		{"cancel", Cancel, false},
		{"press", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAction(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAction(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEventJSON(t *testing.T) {
	var ev Event
	if err := json.Unmarshal([]byte(`{"action":"move","x":3,"y":4,"pressure":0.5,"tool":"stylus"}`), &ev); err != nil {
		t.Fatal(err)
	}
	want := Event{Action: Move, X: 3, Y: 4, Pressure: 0.5, Tool: ToolStylus}
	if ev != want {
		t.Errorf("got %+v, want %+v", ev, want)
	}
	if err := json.Unmarshal([]byte(`{"action":"move","tool":"pen"}`), &ev); err == nil {
		t.Error("expected error for unknown tool")
	}
}
