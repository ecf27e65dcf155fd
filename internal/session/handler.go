package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/inamate/board-go/internal/auth"
	"github.com/inamate/inamate/board-go/internal/board"
	"github.com/inamate/inamate/board-go/internal/store"
	"github.com/inamate/inamate/board-go/internal/widget"
)

const (
	defaultThumbW = 320
	defaultThumbH = 180
	maxThumbSide  = 2048
)

var (
	ErrNoLayer = errors.New("no such ink layer")
	ErrOpen    = errors.New("board is open")
)

type Handler struct {
	hub     *Hub
	store   store.Store
	auth    *auth.Service
	origins []string
}

func NewHandler(hub *Hub, st store.Store, authSvc *auth.Service, origins []string) *Handler {
	return &Handler{hub: hub, store: st, auth: authSvc, origins: origins}
}

// List handles GET /api/boards.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("list boards failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

// Snapshot handles GET /api/boards/{boardId}/snapshot. Open boards are
// serialized live.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["boardId"]

	var data []byte
	var encErr error
	err := h.hub.WithBoard(r.Context(), boardID, func(b *board.Board) {
		data, encErr = b.Snapshot()
	})
	if err == nil {
		err = encErr
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Delete handles DELETE /api/boards/{boardId}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["boardId"]
	if h.hub.Open(boardID) {
		handleServiceError(w, ErrOpen)
		return
	}
	if err := h.store.Delete(r.Context(), boardID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Thumbnail handles GET /api/boards/{boardId}/thumbnail?w=&h=.
func (h *Handler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["boardId"]
	tw := queryInt(r, "w", defaultThumbW)
	th := queryInt(r, "h", defaultThumbH)
	if tw <= 0 || th <= 0 || tw > maxThumbSide || th > maxThumbSide {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid thumbnail size"})
		return
	}

	var buf bytes.Buffer
	var encErr error
	err := h.hub.WithBoard(r.Context(), boardID, func(b *board.Board) {
		encErr = png.Encode(&buf, b.Thumbnail(tw, th))
	})
	if err == nil {
		err = encErr
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writePNG(w, buf.Bytes())
}

// Layer handles GET /api/boards/{boardId}/layers/{widgetId}.png.
func (h *Handler) Layer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var buf bytes.Buffer
	var encErr error
	err := h.hub.WithBoard(r.Context(), vars["boardId"], func(b *board.Board) {
		encErr = layerPNG(&buf, b, vars["widgetId"])
	})
	if err == nil {
		err = encErr
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writePNG(w, buf.Bytes())
}

func layerPNG(buf *bytes.Buffer, b *board.Board, widgetID string) error {
	for _, w := range b.Widgets() {
		if k, ok := w.(*widget.Ink); ok && k.ID() == widgetID {
			img, _ := k.Layer()
			return png.Encode(buf, img)
		}
	}
	return ErrNoLayer
}

// ServeWS handles GET /ws/board/{boardId}?token=.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["boardId"]

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.auth.ValidateBoardToken(token, boardID)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := NewClient(h.hub, conn, boardID, clientID, claims.Subject)

	h.hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, ErrNoLayer):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, store.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid board id"})
	case errors.Is(err, ErrOpen):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "board is open"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
