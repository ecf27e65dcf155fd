package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/inamate/inamate/board-go/internal/store"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type tokenRequest struct {
	BoardID  string `json:"boardId"`
	Passcode string `json:"passcode"`
}

// Token handles POST /auth/token.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := store.CheckID(req.BoardID); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "boardId must be a board id"})
		return
	}

	result, err := h.service.IssueToken(req.BoardID, req.Passcode)
	if err != nil {
		if errors.Is(err, ErrInvalidPasscode) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid passcode"})
			return
		}
		slog.Error("issue token failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
