// Package history keeps a local log of encoded payloads in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tdavis6/myqrkit/internal/contract"

	_ "modernc.org/sqlite"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS encodes (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		at TEXT NOT NULL,
		type TEXT NOT NULL,
		payload TEXT NOT NULL,
		bytes INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_encodes_type ON encodes(type)`,
}

type Store struct {
	db *sql.DB
}

// Open creates the database file and its directory if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(2000)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history migration failed: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one payload and returns the entry as written.
func (s *Store) Record(ctx context.Context, dataType, payload string) (contract.HistoryEntry, error) {
	e := contract.HistoryEntry{
		ID:      uuid.NewString(),
		At:      time.Now().UTC(),
		Type:    dataType,
		Payload: payload,
		Bytes:   len(payload),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO encodes (id, at, type, payload, bytes) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.At.Format(time.RFC3339Nano), e.Type, e.Payload, e.Bytes,
	)
	if err != nil {
		return contract.HistoryEntry{}, fmt.Errorf("recording history: %w", err)
	}
	return e, nil
}

// List returns entries newest first, and whether more exist past the page.
func (s *Store) List(ctx context.Context, limit, offset int) ([]contract.HistoryEntry, bool, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		return nil, false, fmt.Errorf("offset must be >= 0")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, type, payload, bytes FROM encodes ORDER BY seq DESC LIMIT ? OFFSET ?`,
		limit+1, offset,
	)
	if err != nil {
		return nil, false, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	out := make([]contract.HistoryEntry, 0, limit)
	for rows.Next() {
		var e contract.HistoryEntry
		var at string
		if err := rows.Scan(&e.ID, &at, &e.Type, &e.Payload, &e.Bytes); err != nil {
			return nil, false, err
		}
		e.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	return out, hasMore, nil
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM encodes`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return res.RowsAffected()
}
