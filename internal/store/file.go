package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

const fileExt = ".json"

// FileStore keeps one "<boardID>.json" file per board.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(boardID string) string {
	return filepath.Join(s.dir, boardID+fileExt)
}

func (s *FileStore) Get(_ context.Context, boardID string) ([]byte, error) {
	if err := CheckID(boardID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(boardID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// Put replaces the board's file in one rename.
func (s *FileStore) Put(_ context.Context, boardID string, data []byte) error {
	if err := CheckID(boardID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+boardID+"-*")
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(boardID)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	slog.Debug("snapshot written", "board", boardID, "size", len(data))
	return nil
}

func (s *FileStore) Delete(_ context.Context, boardID string) error {
	if err := CheckID(boardID); err != nil {
		return err
	}
	err := os.Remove(s.path(boardID))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// List returns every stored board, sorted by id. File stores keep no
// history, so Version is always 1.
func (s *FileStore) List(_ context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var out []Info
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		id := strings.TrimSuffix(name, fileExt)
		if CheckID(id) != nil {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{BoardID: id, Version: 1, Size: int(fi.Size()), UpdatedAt: fi.ModTime()})
	}
	slices.SortFunc(out, func(a, b Info) int { return strings.Compare(a.BoardID, b.BoardID) })
	return out, nil
}

func (s *FileStore) Close() {}
