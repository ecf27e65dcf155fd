package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/inamate/board-go/internal/board"
	"github.com/inamate/inamate/board-go/internal/store"
	"github.com/inamate/inamate/board-go/internal/task"
)

const storeTimeout = 10 * time.Second

type Room struct {
	boardID string
	session *Session
	clients map[string]*Client // clientID -> client
	roster  *Roster
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // boardID -> room
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	stopOnce   sync.Once
	done       chan struct{}

	store store.Store
	opts  board.Options
}

func NewHub(st store.Store, opts board.Options) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		store:      st,
		opts:       opts,
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.quit:
			h.closeAll()
			return
		}
	}
}

// Stop saves every open board and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// openSession creates the session for boardID from its stored snapshot.
func (h *Hub) openSession(boardID string) *Session {
	s := New(boardID, h.opts, func(msg *Message) { h.broadcastToRoom(boardID, msg, "") })
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	data, err := h.store.Get(ctx, boardID)
	switch {
	case err == nil:
		if err := s.Board().Restore(data); err != nil {
			slog.Error("restore board", "board", boardID, "error", err)
		}
	case errors.Is(err, store.ErrNotFound):
		slog.Info("new board", "board", boardID)
	default:
		slog.Error("load board", "board", boardID, "error", err)
	}
	go s.Run()
	return s
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	if !ok {
		room = &Room{
			boardID: client.BoardID,
			session: h.openSession(client.BoardID),
			clients: make(map[string]*Client),
			roster:  NewRoster(),
		}
		h.rooms[client.BoardID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	controller := room.roster.Add(client.ClientID)
	opts := h.opts
	if msg, err := newMessage(TypeWelcome, WelcomePayload{
		ClientID:   client.ClientID,
		Controller: controller,
		Width:      opts.Width,
		Height:     opts.Height,
	}); err == nil {
		msg.BoardID = client.BoardID
		client.Send(msg)
	}

	if msg, err := newMessage(TypeViewerJoin, ViewerPayload{ClientID: client.ClientID}); err == nil {
		h.broadcastToRoom(client.BoardID, msg, client.ClientID)
	}
	room.session.Refresh()

	slog.Info("client joined", "client", client.ClientID, "board", client.BoardID, "controller", controller)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	if !ok || room.clients[client.ClientID] != client {
		h.mu.Unlock()
		return
	}
	delete(room.clients, client.ClientID)
	client.close()
	next := room.roster.Remove(client.ClientID)
	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.BoardID)
	}
	h.mu.Unlock()

	slog.Info("client left", "client", client.ClientID, "board", client.BoardID)
	if empty {
		h.closeRoom(room)
		return
	}

	if msg, err := newMessage(TypeViewerLeave, ViewerPayload{ClientID: client.ClientID}); err == nil {
		h.broadcastToRoom(client.BoardID, msg, "")
	}
	if next != "" {
		if msg, err := newMessage(TypeController, ViewerPayload{ClientID: next}); err == nil {
			h.broadcastToRoom(client.BoardID, msg, "")
		}
	}
}

// closeRoom saves the board if a client ever edited it, then stops the
// session. It runs on the hub loop so a reopened board sees the save.
func (h *Hub) closeRoom(room *Room) {
	s := room.session
	var data []byte
	var err error
	touched := false
	derr := s.Do(func(b *board.Board) {
		if touched = s.Touched(); touched {
			data, err = b.Snapshot()
		}
	})
	s.Stop()
	switch {
	case derr != nil:
		slog.Error("close board", "board", room.boardID, "error", derr)
	case err != nil:
		slog.Error("encode board", "board", room.boardID, "error", err)
	case touched:
		h.put(room.boardID, data)
	}
}

func (h *Hub) put(boardID string, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := h.store.Put(ctx, boardID, data); err != nil {
		slog.Error("save board", "board", boardID, "error", err)
		return
	}
	slog.Info("board saved", "board", boardID, "size", len(data))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	rooms := h.rooms
	h.rooms = make(map[string]*Room)
	h.mu.Unlock()

	for _, room := range rooms {
		for _, c := range room.clients {
			c.close()
		}
		h.closeRoom(room)
	}
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	h.mu.RLock()
	room, ok := h.rooms[sender.BoardID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	switch msg.Type {
	case TypeTouch, TypeCommand, TypeSave:
		if !room.roster.IsController(sender.ClientID) {
			sender.SendError("only the controlling client may edit the board")
			return
		}
	}

	switch msg.Type {
	case TypeTouch:
		var p TouchPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			slog.Warn("invalid touch payload", "error", err, "client", sender.ClientID)
			sender.SendError("invalid touch payload")
			return
		}
		room.session.Touch(p)
	case TypeCommand:
		var p CommandPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			slog.Warn("invalid command payload", "error", err, "client", sender.ClientID)
			sender.SendError("invalid command payload")
			return
		}
		room.session.Command(p.Command, func(err error) { sender.SendError(err.Error()) })
	case TypeSave:
		data, err := room.session.Snapshot()
		if err != nil {
			slog.Error("encode board", "board", room.boardID, "error", err)
			sender.SendError("save failed")
			return
		}
		h.put(room.boardID, data)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
	}
}

func (h *Hub) broadcastToRoom(boardID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[boardID]
	if !ok {
		return
	}
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}

// Open reports whether boardID has connected clients.
func (h *Hub) Open(boardID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[boardID]
	return ok
}

// WithBoard runs fn on the live board when it is open, or on a private
// copy loaded from the store otherwise.
func (h *Hub) WithBoard(ctx context.Context, boardID string, fn func(b *board.Board)) error {
	h.mu.RLock()
	room, ok := h.rooms[boardID]
	h.mu.RUnlock()
	if ok {
		return room.session.Do(fn)
	}

	data, err := h.store.Get(ctx, boardID)
	if err != nil {
		return err
	}
	opts := h.opts
	opts.Exec, opts.Post = task.Inline, task.Direct
	b := board.New(opts)
	if err := b.Restore(data); err != nil {
		return err
	}
	fn(b)
	return nil
}
