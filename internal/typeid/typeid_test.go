package typeid

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		prefix  string
		wantErr bool
	}{
		{"board", NewBoardID(), PrefixBoard, false},
		{"widget", NewWidgetID(), PrefixWidget, false},
		{"wrong prefix", NewAssetID(), PrefixBoard, true},
		{"garbage", "board_nope", PrefixBoard, true},
		{"empty", "", PrefixBoard, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id, tt.prefix)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q, %q) = %v, wantErr %v", tt.id, tt.prefix, err, tt.wantErr)
			}
		})
	}
}

func TestNewIsUnique(t *testing.T) {
	a, b := NewStepID(), NewStepID()
	if a == b || !strings.HasPrefix(a, PrefixStep+"_") {
		t.Errorf("ids %q %q", a, b)
	}
}
