package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jparkin/mnemo/internal/deck"
)

// Fixed logical collection names. The store exposes no partial updates:
// every write replaces a collection atomically.
const (
	colCards    = "cards"
	colPacks    = "packs"
	colHistory  = "history"
	colSessions = "sessions"
	colStats    = "stats"
)

// get unmarshals a collection into v. A missing collection leaves v zero.
func (db *DB) get(name string, v any) error {
	var raw string
	err := db.Get(&raw, `SELECT data FROM collections WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load collection %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode collection %s: %w", name, err)
	}
	return nil
}

// put replaces a collection with the JSON encoding of v.
func (db *DB) put(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", name, err)
	}
	_, err = db.Exec(`
		INSERT INTO collections (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, name, string(raw), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save collection %s: %w", name, err)
	}
	return nil
}

// Cards loads the full card collection.
func (db *DB) Cards() ([]deck.Card, error) {
	var cards []deck.Card
	err := db.get(colCards, &cards)
	return cards, err
}

// SaveCards replaces the card collection.
func (db *DB) SaveCards(cards []deck.Card) error {
	return db.put(colCards, cards)
}

// Packs loads the full pack collection.
func (db *DB) Packs() ([]deck.Pack, error) {
	var packs []deck.Pack
	err := db.get(colPacks, &packs)
	return packs, err
}

// SavePacks replaces the pack collection.
func (db *DB) SavePacks(packs []deck.Pack) error {
	return db.put(colPacks, packs)
}

// History loads the append-only review log.
func (db *DB) History() ([]deck.ReviewEntry, error) {
	var entries []deck.ReviewEntry
	err := db.get(colHistory, &entries)
	return entries, err
}

// AppendHistory appends entries to the review log. Existing entries are
// never rewritten; the collection is replaced with the extended log.
func (db *DB) AppendHistory(entries ...deck.ReviewEntry) error {
	log, err := db.History()
	if err != nil {
		return err
	}
	return db.put(colHistory, append(log, entries...))
}

// Sessions loads the session collection.
func (db *DB) Sessions() ([]deck.Session, error) {
	var sessions []deck.Session
	err := db.get(colSessions, &sessions)
	return sessions, err
}

// SaveSessions replaces the session collection.
func (db *DB) SaveSessions(sessions []deck.Session) error {
	return db.put(colSessions, sessions)
}

// Stats loads the cached dashboard snapshot, nil if never computed.
func (db *DB) Stats() (*deck.Stats, error) {
	var st *deck.Stats
	err := db.get(colStats, &st)
	return st, err
}

// SaveStats replaces the cached dashboard snapshot wholesale.
func (db *DB) SaveStats(st deck.Stats) error {
	return db.put(colStats, &st)
}

// ResetAll wipes cards, history, sessions and the stats cache, then reseeds
// the pack collection to just the system packs. Runs in one transaction so a
// partial reset is never visible.
func (db *DB) ResetAll() error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM collections`); err != nil {
		return fmt.Errorf("reset collections: %w", err)
	}

	raw, err := json.Marshal(deck.SystemPacks(time.Now()))
	if err != nil {
		return fmt.Errorf("encode system packs: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO collections (name, data, updated_at) VALUES (?, ?, ?)
	`, colPacks, string(raw), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("reseed packs: %w", err)
	}

	return tx.Commit()
}
