package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inamate/inamate/board-go/internal/typeid"
)

const schema = `
CREATE TABLE IF NOT EXISTS board_snapshots (
	id         TEXT PRIMARY KEY,
	board_id   TEXT NOT NULL,
	version    INTEGER NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (board_id, version)
)`

const (
	getLatestSnapshot = `
SELECT document FROM board_snapshots
WHERE board_id = $1
ORDER BY version DESC
LIMIT 1`

	createSnapshot = `
INSERT INTO board_snapshots (id, board_id, version, document)
SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3
FROM board_snapshots WHERE board_id = $2`

	pruneSnapshots = `
DELETE FROM board_snapshots
WHERE board_id = $1 AND version <= (
	SELECT MAX(version) - $2 FROM board_snapshots WHERE board_id = $1
)`

	deleteSnapshots = `DELETE FROM board_snapshots WHERE board_id = $1`

	listSnapshots = `
SELECT DISTINCT ON (board_id) board_id, version, octet_length(document::text), created_at
FROM board_snapshots
ORDER BY board_id, version DESC`
)

// PGStore keeps versioned snapshots in Postgres. Each Put adds a version;
// only the newest Keep versions survive.
type PGStore struct {
	pool *pgxpool.Pool
	Keep int
}

// NewPool connects and pings the database.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewPGStore creates the snapshot table if it does not exist.
func NewPGStore(ctx context.Context, pool *pgxpool.Pool) (*PGStore, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("migrate snapshots: %w", err)
	}
	return &PGStore{pool: pool, Keep: 10}, nil
}

func (s *PGStore) Get(ctx context.Context, boardID string) ([]byte, error) {
	if err := CheckID(boardID); err != nil {
		return nil, err
	}
	var doc []byte
	err := s.pool.QueryRow(ctx, getLatestSnapshot, boardID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return doc, nil
}

func (s *PGStore) Put(ctx context.Context, boardID string, data []byte) error {
	if err := CheckID(boardID); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createSnapshot, typeid.NewSnapshotID(), boardID, data); err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		if s.Keep > 0 {
			if _, err := tx.Exec(ctx, pruneSnapshots, boardID, s.Keep); err != nil {
				return fmt.Errorf("prune snapshots: %w", err)
			}
		}
		return nil
	})
}

func (s *PGStore) Delete(ctx context.Context, boardID string) error {
	if err := CheckID(boardID); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, deleteSnapshots, boardID)
	if err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) List(ctx context.Context) ([]Info, error) {
	rows, err := s.pool.Query(ctx, listSnapshots)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Info, error) {
		var i Info
		err := row.Scan(&i.BoardID, &i.Version, &i.Size, &i.UpdatedAt)
		return i, err
	})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

func (s *PGStore) Close() { s.pool.Close() }
