package session

import (
	"slices"
	"sync"
)

// Roster tracks the clients of one board in join order. The earliest
// client still connected controls the board; the rest only watch.
type Roster struct {
	mu    sync.RWMutex
	order []string
}

func NewRoster() *Roster {
	return &Roster{}
}

// Add appends clientID and reports whether it controls the board.
func (r *Roster) Add(clientID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, clientID)
	return len(r.order) == 1
}

// Remove drops clientID. It returns the new controller when control moved,
// or "".
func (r *Roster) Remove(clientID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.Index(r.order, clientID)
	if i < 0 {
		return ""
	}
	r.order = slices.Delete(r.order, i, i+1)
	if i == 0 && len(r.order) > 0 {
		return r.order[0]
	}
	return ""
}

func (r *Roster) Controller() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return ""
	}
	return r.order[0]
}

func (r *Roster) IsController(clientID string) bool {
	return clientID != "" && r.Controller() == clientID
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
