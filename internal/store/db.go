// Package store persists the study collections in SQLite as whole-document
// blobs. The scheduler core never touches it directly; callers load
// collections, run the pure scheduling/statistics code, and write the
// results back wholesale.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/jparkin/mnemo/internal/deck"
)

// DB wraps an sqlx connection to the mnemo SQLite database.
type DB struct {
	*sqlx.DB
	Path string
}

// DefaultDBPath returns the default database path: ~/.mnemo/mnemo.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".mnemo", "mnemo.db"), nil
}

// Open opens (or creates) the SQLite database at the given path, configures
// pragmas, applies the schema, and seeds the system packs.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return open(path)
}

// OpenMemory opens an in-memory SQLite database for testing.
func OpenMemory() (*DB, error) {
	return open(":memory:")
}

func open(path string) (*DB, error) {
	sqlDB, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db := &DB{DB: sqlDB, Path: path}
	if err := db.configurePragmas(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := db.seedPacks(time.Now()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("seed packs: %w", err)
	}
	return db, nil
}

func (db *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func (db *DB) migrate() error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS collections (
    name       TEXT PRIMARY KEY,
    data       TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`)
	return err
}

// seedPacks creates the two system packs when the packs collection is empty
// or missing. User packs already present are kept untouched.
func (db *DB) seedPacks(now time.Time) error {
	packs, err := db.Packs()
	if err != nil {
		return err
	}

	have := make(map[string]bool, len(packs))
	for _, p := range packs {
		have[p.ID] = true
	}

	changed := false
	for _, sp := range deck.SystemPacks(now) {
		if !have[sp.ID] {
			packs = append(packs, sp)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return db.SavePacks(packs)
}
