package deck

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Session is one bounded study run over a pack (or all cards).
type Session struct {
	ID          string     `json:"id"`
	PackID      string     `json:"pack_id,omitempty"` // empty = all cards
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CardsReviewed int `json:"cards_reviewed"`
	CardsCorrect  int `json:"cards_correct"`
	CardsToReview int `json:"cards_to_review"`
}

// NewSession starts a study run with the given due-card count.
func NewSession(packID string, toReview int, now time.Time) (*Session, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	return &Session{
		ID:            id,
		PackID:        packID,
		StartedAt:     now,
		CardsToReview: toReview,
	}, nil
}

// Open reports whether the session is still in progress.
func (s *Session) Open() bool {
	return s.CompletedAt == nil
}

// RecordAnswer updates the session counters for one answered card.
func (s *Session) RecordAnswer(correct bool) {
	s.CardsReviewed++
	if correct {
		s.CardsCorrect++
	}
}

// Complete closes the session. Closing an already-closed session is a no-op
// so an abandoned run can be finished twice without harm.
func (s *Session) Complete(now time.Time) {
	if s.CompletedAt != nil {
		return
	}
	done := now
	s.CompletedAt = &done
}
