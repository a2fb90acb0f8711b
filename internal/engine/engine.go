// Package engine orchestrates the study flow: card and pack management,
// review sessions, and on-demand statistics. The scheduling math itself
// lives in internal/srs; the engine wires it to the store.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/jparkin/mnemo/internal/deck"
	"github.com/jparkin/mnemo/internal/srs"
	"github.com/jparkin/mnemo/internal/store"
)

var (
	ErrCardNotFound    = errors.New("card not found")
	ErrPackNotFound    = errors.New("pack not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session already completed")
	ErrSystemPack      = errors.New("system packs cannot be modified")
	ErrInvalidQuality  = errors.New("quality must be between 0 and 5")
)

// Engine coordinates the store and the pure scheduling core.
type Engine struct {
	db  *store.DB
	now func() time.Time

	sched *gocron.Scheduler
}

// New creates an Engine over the given store.
func New(db *store.DB) *Engine {
	return &Engine{
		db:  db,
		now: time.Now,
	}
}

// SetClock overrides the engine's clock. Tests only.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// AddCard creates a card for a piece of content and stores it. Every card
// joins the two system packs in addition to any packs the caller names.
func (e *Engine) AddCard(sourceType deck.SourceType, sourceID string, packIDs []string) (*deck.Card, error) {
	now := e.now()

	ids := append([]string{deck.AllCardsPackID, deck.RecentlyAddedPackID}, packIDs...)
	card, err := deck.NewCard(sourceType, sourceID, dedupe(ids), now)
	if err != nil {
		return nil, err
	}

	cards, err := e.db.Cards()
	if err != nil {
		return nil, err
	}
	if err := e.db.SaveCards(append(cards, *card)); err != nil {
		return nil, err
	}
	return card, nil
}

// RemoveCard deletes a card. Its review history is kept; history is
// append-only and only a full reset clears it.
func (e *Engine) RemoveCard(id string) error {
	cards, err := e.db.Cards()
	if err != nil {
		return err
	}

	kept := cards[:0]
	found := false
	for _, c := range cards {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("remove card %s: %w", id, ErrCardNotFound)
	}
	return e.db.SaveCards(kept)
}

// ListCards returns all cards, optionally filtered to one pack.
func (e *Engine) ListCards(packID string) ([]deck.Card, error) {
	cards, err := e.db.Cards()
	if err != nil {
		return nil, err
	}
	if packID == "" {
		return cards, nil
	}

	var out []deck.Card
	for _, c := range cards {
		if c.InPack(packID) {
			out = append(out, c)
		}
	}
	return out, nil
}

// DueCards builds the study queue for a pack (empty packID = all cards).
// Due-ness is the sole inclusion criterion; ordering is queue policy:
// never-reviewed cards first, then oldest due date first.
func (e *Engine) DueCards(packID string) ([]deck.Card, error) {
	cards, err := e.ListCards(packID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	var due []deck.Card
	for _, c := range cards {
		if c.Due(now) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := &due[i], &due[j]
		if (a.LastReviewed == nil) != (b.LastReviewed == nil) {
			return a.LastReviewed == nil
		}
		if a.NextReview == nil || b.NextReview == nil {
			return b.NextReview != nil
		}
		return a.NextReview.Before(*b.NextReview)
	})
	return due, nil
}

// CreatePack creates a user pack.
func (e *Engine) CreatePack(name, description, color string) (*deck.Pack, error) {
	pack, err := deck.NewPack(name, description, color, e.now())
	if err != nil {
		return nil, err
	}

	packs, err := e.db.Packs()
	if err != nil {
		return nil, err
	}
	if err := e.db.SavePacks(append(packs, *pack)); err != nil {
		return nil, err
	}
	return pack, nil
}

// UpdatePack renames or recolors a user pack.
func (e *Engine) UpdatePack(id, name, description, color string) (*deck.Pack, error) {
	packs, err := e.db.Packs()
	if err != nil {
		return nil, err
	}

	for i := range packs {
		if packs[i].ID != id {
			continue
		}
		if packs[i].System() {
			return nil, fmt.Errorf("update pack %s: %w", id, ErrSystemPack)
		}
		p := packs[i]
		p.Name = name
		p.Description = description
		p.Color = color
		if err := p.Validate(); err != nil {
			return nil, err
		}
		packs[i] = p
		if err := e.db.SavePacks(packs); err != nil {
			return nil, err
		}
		return &packs[i], nil
	}
	return nil, fmt.Errorf("update pack %s: %w", id, ErrPackNotFound)
}

// DeletePack removes a user pack and strips its id from every card.
// The cards themselves are never deleted.
func (e *Engine) DeletePack(id string) error {
	packs, err := e.db.Packs()
	if err != nil {
		return err
	}

	kept := packs[:0]
	found := false
	for _, p := range packs {
		if p.ID == id {
			if p.System() {
				return fmt.Errorf("delete pack %s: %w", id, ErrSystemPack)
			}
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return fmt.Errorf("delete pack %s: %w", id, ErrPackNotFound)
	}
	if err := e.db.SavePacks(kept); err != nil {
		return err
	}

	cards, err := e.db.Cards()
	if err != nil {
		return err
	}
	for i := range cards {
		cards[i].RemovePack(id)
	}
	return e.db.SaveCards(cards)
}

// Packs returns all packs, system packs first.
func (e *Engine) Packs() ([]deck.Pack, error) {
	packs, err := e.db.Packs()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(packs, func(i, j int) bool {
		return packs[i].System() && !packs[j].System()
	})
	return packs, nil
}

// StartSession opens a study run over the given pack's due cards.
func (e *Engine) StartSession(packID string) (*deck.Session, error) {
	due, err := e.DueCards(packID)
	if err != nil {
		return nil, err
	}

	sess, err := deck.NewSession(packID, len(due), e.now())
	if err != nil {
		return nil, err
	}

	sessions, err := e.db.Sessions()
	if err != nil {
		return nil, err
	}
	if err := e.db.SaveSessions(append(sessions, *sess)); err != nil {
		return nil, err
	}
	return sess, nil
}

// Answer applies one quality rating to one card inside an open session.
// This is the single write path for card scheduling state: it runs the
// SM-2 step, appends the history entry, and bumps the session counters.
func (e *Engine) Answer(sessionID, cardID string, quality int) (*deck.Card, error) {
	q := srs.Quality(quality)
	if !q.Valid() {
		return nil, fmt.Errorf("answer card %s: %w", cardID, ErrInvalidQuality)
	}

	sessions, err := e.db.Sessions()
	if err != nil {
		return nil, err
	}
	si := -1
	for i := range sessions {
		if sessions[i].ID == sessionID {
			si = i
			break
		}
	}
	if si == -1 {
		return nil, fmt.Errorf("answer in session %s: %w", sessionID, ErrSessionNotFound)
	}
	if !sessions[si].Open() {
		return nil, fmt.Errorf("answer in session %s: %w", sessionID, ErrSessionClosed)
	}

	cards, err := e.db.Cards()
	if err != nil {
		return nil, err
	}
	ci := -1
	for i := range cards {
		if cards[i].ID == cardID {
			ci = i
			break
		}
	}
	if ci == -1 {
		return nil, fmt.Errorf("answer card %s: %w", cardID, ErrCardNotFound)
	}

	now := e.now()
	card := &cards[ci]
	res := srs.Schedule(q, card.EaseFactor, card.Interval, card.Repetitions, now)
	card.Apply(res, now)

	sessions[si].RecordAnswer(q.Pass())

	if err := e.db.SaveCards(cards); err != nil {
		return nil, err
	}
	if err := e.db.SaveSessions(sessions); err != nil {
		return nil, err
	}
	if err := e.db.AppendHistory(deck.ReviewEntry{
		CardID:    cardID,
		Timestamp: now,
		Quality:   q,
		Interval:  res.Interval,
	}); err != nil {
		return nil, err
	}

	out := cards[ci]
	return &out, nil
}

// FinishSession closes a study run. Finishing an already-closed session is
// harmless; abandoned runs are finished the same way.
func (e *Engine) FinishSession(sessionID string) (*deck.Session, error) {
	sessions, err := e.db.Sessions()
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		if sessions[i].ID != sessionID {
			continue
		}
		sessions[i].Complete(e.now())
		if err := e.db.SaveSessions(sessions); err != nil {
			return nil, err
		}
		out := sessions[i]
		return &out, nil
	}
	return nil, fmt.Errorf("finish session %s: %w", sessionID, ErrSessionNotFound)
}

// ResetAll wipes all study data. System packs are reseeded.
func (e *Engine) ResetAll() error {
	return e.db.ResetAll()
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
