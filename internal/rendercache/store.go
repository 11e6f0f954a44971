// Package rendercache persists rendered face images between runs, keyed by
// a digest of the face data, so unchanged cards skip re-rendering.
package rendercache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed cache of rendered face images.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the cache database at dbPath.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	schema := `CREATE TABLE IF NOT EXISTS rendered_faces (
		hash TEXT PRIMARY KEY,
		card_id TEXT NOT NULL,
		side TEXT NOT NULL,
		image BLOB NOT NULL,
		rendered_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_rendered_faces_card ON rendered_faces(card_id);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Lookup returns the cached image bytes for a face hash, or found=false.
func (s *Store) Lookup(ctx context.Context, hash string) (data []byte, found bool, err error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT image FROM rendered_faces WHERE hash = ?", hash)
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}
	return data, true, nil
}

// Record stores the rendered image for a face, replacing any stale entries
// for the same card side.
func (s *Store) Record(ctx context.Context, hash, cardID, side string, image []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cache record: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM rendered_faces WHERE card_id = ? AND side = ?", cardID, side); err != nil {
		return fmt.Errorf("cache record: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO rendered_faces (hash, card_id, side, image, rendered_at) VALUES (?, ?, ?, ?, ?)",
		hash, cardID, side, image, time.Now().UTC()); err != nil {
		return fmt.Errorf("cache record: %w", err)
	}
	return tx.Commit()
}

// Clear drops every cached image.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM rendered_faces"); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
