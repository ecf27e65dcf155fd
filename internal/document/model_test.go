package document

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantLen  int
		wantErr  error
		anyError bool
	}{
		{
			name:    "envelope",
			in:      `{"version":1,"widgets":[{"kind":"shape","rect":{"left":1,"top":2,"right":3,"bottom":4},"rotation":0,"shape":{"kind":"circle"}}]}`,
			wantLen: 1,
		},
		{
			name:    "bare array",
			in:      `[{"kind":"text","rect":{"left":0,"top":0,"right":10,"bottom":10},"rotation":0,"text":{"text":"hi","pageIdx":0}}]`,
			wantLen: 1,
		},
		{
			name:    "unknown kind is skipped",
			in:      `[{"kind":"video","rect":{"left":0,"top":0,"right":1,"bottom":1},"rotation":0},{"kind":"image","rect":{"left":0,"top":0,"right":1,"bottom":1},"rotation":0,"image":{"path":"a.png"}}]`,
			wantLen: 1,
		},
		{
			name:    "missing payload fails",
			in:      `[{"kind":"image","rect":{"left":0,"top":0,"right":1,"bottom":1},"rotation":0}]`,
			wantErr: ErrMissingPayload,
		},
		{
			name:     "malformed json fails",
			in:       `[{"kind":`,
			anyError: true,
		},
		{
			name:     "empty input fails",
			in:       "  ",
			anyError: true,
		},
		{
			name:     "future version fails",
			in:       `{"version":99,"widgets":[]}`,
			anyError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			case tt.anyError:
				if err == nil {
					t.Fatal("expected an error")
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(got) != tt.wantLen {
					t.Errorf("got %d records, want %d", len(got), tt.wantLen)
				}
			}
		})
	}
}

func TestSampleSnapshotIsValid(t *testing.T) {
	s := NewSampleSnapshot(1280, 720)
	data, err := Encode(s.Width, s.Height, s.Widgets)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(s.Widgets) {
		t.Errorf("decoded %d widgets, want %d", len(got), len(s.Widgets))
	}
}
