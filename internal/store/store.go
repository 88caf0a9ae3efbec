package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"symbol-world/internal/camera"
	"symbol-world/internal/symbol"
)

// ErrNotFound is returned when nothing is stored for a file.
var ErrNotFound = errors.New("store: not found")

// Store keeps the last persisted symbol tree and camera pose per source file in SQLite.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS trees (
	filename  TEXT PRIMARY KEY,
	body      TEXT NOT NULL,
	tree      TEXT NOT NULL,
	update_id TEXT NOT NULL,
	saved_at  DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS cameras (
	filename TEXT PRIMARY KEY,
	looking  TEXT NOT NULL,
	saved_at DATETIME NOT NULL
);
`

// Open opens (creating if needed) the database at path. A nil logger discards output.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// one connection: writes are serialized and :memory: stays a single database
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTree stores root under its filename. Trees that differ from the stored one only
// in updateId are skipped; saved reports whether a row was written.
func (s *Store) SaveTree(ctx context.Context, root *symbol.Symbol) (saved bool, err error) {
	if root == nil {
		return false, errors.New("store: nil tree")
	}
	full, err := symbol.Marshal(root)
	if err != nil {
		return false, fmt.Errorf("encode tree: %w", err)
	}
	stripped := *root
	stripped.UpdateID = ""
	body, err := symbol.Marshal(&stripped)
	if err != nil {
		return false, fmt.Errorf("encode tree: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO trees (filename, body, tree, update_id, saved_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			body = excluded.body, tree = excluded.tree,
			update_id = excluded.update_id, saved_at = excluded.saved_at
		WHERE trees.body <> excluded.body`,
		root.Filename, body, full, root.UpdateID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("save tree %s: %w", root.Filename, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save tree %s: %w", root.Filename, err)
	}
	if n == 0 {
		s.log.Debug("tree unchanged", zap.String("file", root.Filename))
	}
	return n > 0, nil
}

// LoadTree returns the last tree saved for filename.
func (s *Store) LoadTree(ctx context.Context, filename string) (*symbol.Symbol, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT tree FROM trees WHERE filename = ?`, filename).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tree %s: %w", filename, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load tree %s: %w", filename, err)
	}
	return symbol.Parse(text)
}

// Files lists the filenames with a stored tree, sorted.
func (s *Store) Files(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT filename FROM trees ORDER BY filename`)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// SaveLooking stores the camera pose for filename.
func (s *Store) SaveLooking(ctx context.Context, filename string, l camera.Looking) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode camera: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cameras (filename, looking, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET looking = excluded.looking, saved_at = excluded.saved_at`,
		filename, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save camera %s: %w", filename, err)
	}
	return nil
}

// LoadLooking returns the camera pose saved for filename.
func (s *Store) LoadLooking(ctx context.Context, filename string) (camera.Looking, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT looking FROM cameras WHERE filename = ?`, filename).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return camera.Looking{}, fmt.Errorf("camera %s: %w", filename, ErrNotFound)
	}
	if err != nil {
		return camera.Looking{}, fmt.Errorf("load camera %s: %w", filename, err)
	}
	var l camera.Looking
	if err := json.Unmarshal([]byte(text), &l); err != nil {
		return camera.Looking{}, fmt.Errorf("decode camera %s: %w", filename, err)
	}
	return l, nil
}
