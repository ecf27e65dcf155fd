package session

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/inamate/board-go/internal/auth"
	"github.com/inamate/inamate/board-go/internal/board"
	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/geom"
	"github.com/inamate/inamate/board-go/internal/input"
	"github.com/inamate/inamate/board-go/internal/store"
	"github.com/inamate/inamate/board-go/internal/task"
	"github.com/inamate/inamate/board-go/internal/typeid"
)

func testOptions() board.Options {
	opts := board.DefaultOptions(1000, 800)
	opts.Exec = task.Inline
	return opts
}

type inbox struct {
	mu   sync.Mutex
	msgs []*Message
}

func (i *inbox) add(m *Message) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.msgs = append(i.msgs, m)
}

func (i *inbox) last(typ string) *Message {
	i.mu.Lock()
	defer i.mu.Unlock()
	for j := len(i.msgs) - 1; j >= 0; j-- {
		if i.msgs[j].Type == typ {
			return i.msgs[j]
		}
	}
	return nil
}

func TestSessionBroadcastsRenderAndState(t *testing.T) {
	var in inbox
	s := New(typeid.NewBoardID(), testOptions(), in.add)
	go s.Run()
	defer s.Stop()

	rect := geom.RectXYWH(100, 100, 200, 100)
	s.Command(board.Command{Name: board.CmdAddShape, Shape: document.ShapeRectangle, Rect: &rect}, nil)
	if err := s.Do(func(*board.Board) {}); err != nil {
		t.Fatal(err)
	}

	r := in.last(TypeRender)
	if r == nil {
		t.Fatal("no render message")
	}
	var rp RenderPayload
	if err := json.Unmarshal(r.Payload, &rp); err != nil {
		t.Fatal(err)
	}
	if len(rp.Active) == 0 {
		t.Errorf("active pass empty: %+v", rp.Passes)
	}

	st := in.last(TypeState)
	if st == nil {
		t.Fatal("no state message")
	}
	var sp StatePayload
	if err := json.Unmarshal(st.Payload, &sp); err != nil {
		t.Fatal(err)
	}
	if sp.Widgets != 1 || sp.UndoLen != 1 || sp.ActiveID == "" {
		t.Errorf("state = %+v", sp)
	}
}

func TestSessionCommandErrorIsReplied(t *testing.T) {
	s := New(typeid.NewBoardID(), testOptions(), nil)
	go s.Run()
	defer s.Stop()

	got := make(chan error, 1)
	s.Command(board.Command{Name: "explode"}, func(err error) { got <- err })
	select {
	case err := <-got:
		if !errors.Is(err, board.ErrUnknownCommand) {
			t.Errorf("err = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("no reply")
	}
}

func TestSessionDoAfterStop(t *testing.T) {
	s := New(typeid.NewBoardID(), testOptions(), nil)
	go s.Run()
	s.Stop()
	if err := s.Do(func(*board.Board) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func TestRoster(t *testing.T) {
	r := NewRoster()
	if !r.Add("a") || r.Add("b") || r.Add("c") {
		t.Fatal("only the first client controls")
	}
	if next := r.Remove("b"); next != "" {
		t.Errorf("removing a viewer moved control to %q", next)
	}
	if next := r.Remove("a"); next != "c" {
		t.Errorf("control moved to %q, want c", next)
	}
	if !r.IsController("c") || r.Len() != 1 {
		t.Errorf("controller = %q, len = %d", r.Controller(), r.Len())
	}
}

// next reads messages from c until one of type typ arrives.
func next(t *testing.T, c *Client, typ string) *Message {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				t.Fatalf("client closed while waiting for %s", typ)
			}
			var m Message
			if err := json.Unmarshal(data, &m); err != nil {
				t.Fatal(err)
			}
			if m.Type == typ {
				return &m
			}
		case <-timeout:
			t.Fatalf("no %s message", typ)
		}
	}
}

func message(t *testing.T, typ string, payload any) *Message {
	t.Helper()
	m, err := newMessage(typ, payload)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestHubControlAndPersistence(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	hub := NewHub(st, testOptions())
	go hub.Run()
	defer hub.Stop()

	boardID := typeid.NewBoardID()
	ctrl := NewClient(hub, nil, boardID, "ctrl", "s1")
	viewer := NewClient(hub, nil, boardID, "viewer", "s2")
	hub.Register(ctrl)
	var w WelcomePayload
	if err := json.Unmarshal(next(t, ctrl, TypeWelcome).Payload, &w); err != nil || !w.Controller {
		t.Fatalf("welcome = %+v, %v", w, err)
	}
	hub.Register(viewer)
	next(t, viewer, TypeWelcome)

	hub.handleMessage(viewer, message(t, TypeCommand, CommandPayload{Command: board.Command{Name: board.CmdAddText, Text: "nope"}}))
	next(t, viewer, TypeError)

	hub.handleMessage(ctrl, message(t, TypeCommand, CommandPayload{Command: board.Command{Name: board.CmdArmShape, Shape: document.ShapeCircle}}))
	hub.handleMessage(ctrl, message(t, TypeTouch, TouchPayload{Events: []input.Event{
		input.At(input.Down, 100, 100),
		input.At(input.Move, 300, 300),
		input.At(input.Up, 300, 300),
	}}))
	var sp StatePayload
	deadline := time.After(2 * time.Second)
	for sp.Widgets != 1 || sp.Armed {
		select {
		case <-deadline:
			t.Fatalf("state never showed the shape: %+v", sp)
		default:
		}
		if err := json.Unmarshal(next(t, viewer, TypeState).Payload, &sp); err != nil {
			t.Fatal(err)
		}
	}

	hub.Unregister(ctrl)
	next(t, viewer, TypeController)
	hub.Unregister(viewer)
	hub.Stop()

	var n int
	err = hub.WithBoard(context.Background(), boardID, func(b *board.Board) { n = len(b.Widgets()) })
	if err != nil {
		t.Fatalf("board not saved: %v", err)
	}
	if n != 1 {
		t.Errorf("saved board has %d widgets, want 1", n)
	}
}

func TestThumbnailHandler(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	boardID := typeid.NewBoardID()
	b := board.New(testOptions())
	if _, err := b.AddShape(document.ShapeRectangle, "#ff0000", geom.RectXYWH(100, 100, 300, 200)); err != nil {
		t.Fatal(err)
	}
	data, err := b.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Put(context.Background(), boardID, data); err != nil {
		t.Fatal(err)
	}

	hub := NewHub(st, testOptions())
	h := NewHandler(hub, st, auth.NewService("secret", ""), nil)
	r := mux.NewRouter()
	r.HandleFunc("/api/boards/{boardId}/thumbnail", h.Thumbnail)
	r.HandleFunc("/api/boards/{boardId}/snapshot", h.Snapshot)

	tests := []struct {
		name string
		url  string
		want int
	}{
		{"ok", "/api/boards/" + boardID + "/thumbnail?w=100&h=100", http.StatusOK},
		{"bad size", "/api/boards/" + boardID + "/thumbnail?w=abc", http.StatusBadRequest},
		{"unknown board", "/api/boards/" + typeid.NewBoardID() + "/thumbnail", http.StatusNotFound},
		{"bad id", "/api/boards/nope/thumbnail", http.StatusBadRequest},
		{"snapshot", "/api/boards/" + boardID + "/snapshot", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.name == "ok" {
				img, err := png.Decode(rec.Body)
				if err != nil {
					t.Fatal(err)
				}
				if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
					t.Errorf("thumbnail size = %v", b)
				}
			}
		})
	}
}
