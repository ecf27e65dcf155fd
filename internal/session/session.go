// Package session hosts boards for remote clients. Each open board runs on
// its own serial loop; websocket clients feed it touches and commands and
// receive draw commands back.
package session

import (
	"errors"
	"log/slog"

	"github.com/inamate/inamate/board-go/internal/board"
	"github.com/inamate/inamate/board-go/internal/render"
	"github.com/inamate/inamate/board-go/internal/task"
	"github.com/inamate/inamate/board-go/internal/widget"
)

var ErrClosed = errors.New("session closed")

const queueSize = 256

// Session owns one board and the loop every board call runs on. It is
// also the task.Poster of the board's widgets.
type Session struct {
	BoardID string
	board   *board.Board

	queue chan func()
	quit  chan struct{}
	done  chan struct{}

	// Loop-owned state.
	dirty     [3]bool
	lastState StatePayload
	touched   bool
	broadcast func(*Message)
}

// New creates a session. Restore any snapshot into Board before Run.
func New(boardID string, opts board.Options, broadcast func(*Message)) *Session {
	s := &Session{
		BoardID:   boardID,
		queue:     make(chan func(), queueSize),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		broadcast: broadcast,
	}
	if opts.Exec == nil {
		opts.Exec = task.Background
	}
	opts.Post = s
	s.board = board.New(opts)
	s.board.OnInvalidate(func(l board.Layer) { s.dirty[l] = true })
	return s
}

// Board returns the board. Only touch it from the loop, or before Run.
func (s *Session) Board() *board.Board { return s.board }

// Post queues fn on the loop. It is dropped once the session stopped.
func (s *Session) Post(fn func()) {
	select {
	case s.queue <- fn:
	case <-s.done:
	}
}

// Do runs fn on the loop and waits for it.
func (s *Session) Do(fn func(b *board.Board)) error {
	ran := make(chan struct{})
	select {
	case s.queue <- func() { fn(s.board); close(ran) }:
	case <-s.done:
		return ErrClosed
	}
	select {
	case <-ran:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Run processes queued work until Stop. After each job changed passes are
// rendered and broadcast.
func (s *Session) Run() {
	defer close(s.done)
	for {
		select {
		case fn := <-s.queue:
			fn()
			s.flush()
		case <-s.quit:
			return
		}
	}
}

// Stop ends the loop and waits for it.
func (s *Session) Stop() {
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}
	<-s.done
}

// Touched reports whether a client ever sent input. Loop only.
func (s *Session) Touched() bool { return s.touched }

func (s *Session) refresh() {
	s.dirty = [3]bool{true, true, true}
	s.lastState = StatePayload{Scale: -1}
}

func (s *Session) flush() {
	if s.broadcast == nil {
		return
	}
	if s.dirty != [3]bool{} {
		var p RenderPayload
		for l, dirty := range s.dirty {
			if !dirty {
				continue
			}
			rec := render.NewRecorder()
			layer := board.Layer(l)
			switch layer {
			case board.LayerLower:
				s.board.DrawLower(rec)
				p.Lower = rec.Commands()
			case board.LayerActive:
				s.board.DrawActive(rec)
				p.Active = rec.Commands()
			case board.LayerUpper:
				s.board.DrawUpper(rec)
				p.Upper = rec.Commands()
			}
			p.Passes = append(p.Passes, layer.String())
		}
		s.dirty = [3]bool{}
		s.send(TypeRender, p)
	}
	if st := s.state(); st != s.lastState {
		s.lastState = st
		s.send(TypeState, st)
	}
}

func (s *Session) send(typ string, payload any) {
	msg, err := newMessage(typ, payload)
	if err != nil {
		slog.Error("marshal message", "type", typ, "error", err)
		return
	}
	msg.BoardID = s.BoardID
	s.broadcast(msg)
}

func (s *Session) state() StatePayload {
	b := s.board
	st := StatePayload{
		Widgets: len(b.Widgets()),
		UndoLen: b.UndoLen(),
		RedoLen: b.RedoLen(),
		Scale:   b.Scale(),
		InkMode: b.InkMode(),
		Batch:   b.Group() != nil,
		Armed:   b.Armed(),
	}
	if a := b.Active(); a != nil {
		st.ActiveID = a.ID()
		if t, ok := a.(*widget.Text); ok {
			st.Editing = t.Editing()
			st.PageIdx = t.PageIdx()
			st.PageCount = t.PageCount()
		}
	}
	return st
}

// Touch feeds pointer events in order.
func (s *Session) Touch(p TouchPayload) {
	s.Post(func() {
		s.touched = true
		for _, ev := range p.Events {
			s.board.Touch(ev)
		}
	})
}

// Command runs one command; failures go to reply.
func (s *Session) Command(c board.Command, reply func(error)) {
	s.Post(func() {
		s.touched = true
		if err := s.board.Exec(c); err != nil {
			slog.Warn("command failed", "board", s.BoardID, "command", c.Name, "error", err)
			if reply != nil {
				reply(err)
			}
		}
	})
}

// Refresh rebroadcasts every pass and the state.
func (s *Session) Refresh() { s.Post(s.refresh) }

// Snapshot serializes the board on the loop.
func (s *Session) Snapshot() ([]byte, error) {
	var data []byte
	var err error
	if derr := s.Do(func(b *board.Board) { data, err = b.Snapshot() }); derr != nil {
		return nil, derr
	}
	return data, err
}
