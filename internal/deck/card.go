package deck

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/jparkin/mnemo/internal/srs"
)

// SourceType identifies the kind of content a card was created from.
// The scheduler treats the source as opaque; it only matters for grouping.
type SourceType string

const (
	SourceMilestone SourceType = "milestone"
	SourceConcept   SourceType = "concept"
	SourceCustom    SourceType = "custom"
	SourceFlashcard SourceType = "flashcard"
)

// SourceTypes lists every valid source type, in reporting order.
var SourceTypes = []SourceType{SourceMilestone, SourceConcept, SourceCustom, SourceFlashcard}

// Valid reports whether st is one of the known source types.
func (st SourceType) Valid() bool {
	switch st {
	case SourceMilestone, SourceConcept, SourceCustom, SourceFlashcard:
		return true
	}
	return false
}

// Card is the atomic schedulable unit: one piece of content plus its SM-2
// state. Cards are mutated only by answering a review; they never expire.
type Card struct {
	ID         string     `json:"id"`
	SourceType SourceType `json:"source_type"`
	SourceID   string     `json:"source_id"`
	PackIDs    []string   `json:"pack_ids"`

	EaseFactor  float64 `json:"ease_factor"`
	Interval    int     `json:"interval"` // days; 0 = new or lapsed
	Repetitions int     `json:"repetitions"`

	NextReview   *time.Time `json:"next_review,omitempty"` // nil = due immediately
	LastReviewed *time.Time `json:"last_reviewed,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewCard creates a card in the initial SM-2 state, due immediately.
func NewCard(sourceType SourceType, sourceID string, packIDs []string, now time.Time) (*Card, error) {
	if !sourceType.Valid() {
		return nil, fmt.Errorf("invalid source type %q", sourceType)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate card id: %w", err)
	}

	due := now
	return &Card{
		ID:         id,
		SourceType: sourceType,
		SourceID:   sourceID,
		PackIDs:    packIDs,
		EaseFactor: srs.DefaultEase,
		NextReview: &due,
		CreatedAt:  now,
	}, nil
}

// Due reports whether the card should be presented for review at the given
// time. A card that has never been scheduled (nil NextReview) is always due.
func (c *Card) Due(now time.Time) bool {
	return c.NextReview == nil || !c.NextReview.After(now)
}

// Mastered reports whether the card's interval has grown past the fixed
// mastery threshold. Reporting only; mastery never gates scheduling.
func (c *Card) Mastered() bool {
	return c.Interval > srs.MasteryIntervalDays
}

// Apply records a review outcome onto the card.
func (c *Card) Apply(res srs.Result, now time.Time) {
	c.EaseFactor = res.EaseFactor
	c.Interval = res.Interval
	c.Repetitions = res.Repetitions
	next := res.NextReview
	c.NextReview = &next
	reviewed := now
	c.LastReviewed = &reviewed
}

// InPack reports whether the card belongs to the given pack.
// An empty packID means "all cards" and matches everything.
func (c *Card) InPack(packID string) bool {
	if packID == "" {
		return true
	}
	for _, id := range c.PackIDs {
		if id == packID {
			return true
		}
	}
	return false
}

// RemovePack strips a pack id from the card's membership set.
func (c *Card) RemovePack(packID string) {
	out := c.PackIDs[:0]
	for _, id := range c.PackIDs {
		if id != packID {
			out = append(out, id)
		}
	}
	c.PackIDs = out
}

// ReviewEntry is one record in the append-only review log.
// Entries are never mutated; only a bulk reset removes them.
type ReviewEntry struct {
	CardID    string      `json:"card_id"`
	Timestamp time.Time   `json:"timestamp"`
	Quality   srs.Quality `json:"quality"`
	Interval  int         `json:"interval"` // interval the review produced
}

// Stats is the derived dashboard view. It is a cache of a pure fold over
// cards, history and sessions — never a source of truth.
type Stats struct {
	TotalCards         int        `json:"total_cards"`
	CardsDueToday      int        `json:"cards_due_today"`
	CardsReviewedToday int        `json:"cards_reviewed_today"`
	CurrentStreak      int        `json:"current_streak"`
	LongestStreak      int        `json:"longest_streak"`
	MasteredCards      int        `json:"mastered_cards"`
	LastStudyDate      *time.Time `json:"last_study_date,omitempty"`
}
