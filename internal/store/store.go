// Package store persists board snapshots, either as files or as versioned
// rows in Postgres.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inamate/inamate/board-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("snapshot not found")
	ErrInvalidID = errors.New("invalid board id")
)

// Info describes the latest snapshot of a board.
type Info struct {
	BoardID   string    `json:"boardId"`
	Version   int       `json:"version"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store keeps the latest snapshot per board.
type Store interface {
	Get(ctx context.Context, boardID string) ([]byte, error)
	Put(ctx context.Context, boardID string, data []byte) error
	Delete(ctx context.Context, boardID string) error
	List(ctx context.Context) ([]Info, error)
	Close()
}

// CheckID rejects anything that is not a board typeid, so ids are safe to
// use in file names.
func CheckID(boardID string) error {
	if err := typeid.Validate(boardID, typeid.PrefixBoard); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return nil
}
