package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/inamate/inamate/board-go/internal/typeid"
)

func TestIssueAndValidate(t *testing.T) {
	s := NewService("secret", "")
	board := typeid.NewBoardID()
	res, err := s.IssueToken(board, "")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := s.ValidateBoardToken(res.Token, board)
	if err != nil {
		t.Fatal(err)
	}
	if claims.BoardID != board || claims.Subject != res.SessionID {
		t.Errorf("claims = %+v", claims)
	}
	if _, err := s.ValidateBoardToken(res.Token, typeid.NewBoardID()); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("other board: %v, want ErrInvalidToken", err)
	}
	if _, err := NewService("other", "").ValidateToken(res.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: %v, want ErrInvalidToken", err)
	}
}

func TestPasscode(t *testing.T) {
	hash, err := HashPasscode("open sesame")
	if err != nil {
		t.Fatal(err)
	}
	s := NewService("secret", hash)
	if !s.PasscodeRequired() {
		t.Fatal("passcode not required")
	}
	tests := []struct {
		passcode string
		wantErr  error
	}{
		{"open sesame", nil},
		{"wrong", ErrInvalidPasscode},
		{"", ErrInvalidPasscode},
	}
	for _, tt := range tests {
		t.Run(tt.passcode, func(t *testing.T) {
			_, err := s.IssueToken(typeid.NewBoardID(), tt.passcode)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenHandler(t *testing.T) {
	h := NewHandler(NewService("secret", ""))
	tests := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"boardId":"` + typeid.NewBoardID() + `"}`, http.StatusOK},
		{"bad id", `{"boardId":"../x"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Token(rec, httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestBoardMiddleware(t *testing.T) {
	s := NewService("secret", "")
	board := typeid.NewBoardID()
	res, err := s.IssueToken(board, "")
	if err != nil {
		t.Fatal(err)
	}

	r := mux.NewRouter()
	r.Handle("/api/boards/{boardId}", s.BoardMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ClaimsFromContext(r.Context()))
	})))

	tests := []struct {
		name   string
		url    string
		header string
		want   int
	}{
		{"bearer", "/api/boards/" + board, "Bearer " + res.Token, http.StatusOK},
		{"query", "/api/boards/" + board + "?token=" + res.Token, "", http.StatusOK},
		{"missing", "/api/boards/" + board, "", http.StatusUnauthorized},
		{"other board", "/api/boards/" + typeid.NewBoardID(), "Bearer " + res.Token, http.StatusUnauthorized},
		{"bad scheme", "/api/boards/" + board, "Basic abc", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
