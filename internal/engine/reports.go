package engine

import (
	"sort"
	"time"

	"github.com/jparkin/mnemo/internal/deck"
	"github.com/jparkin/mnemo/internal/stats"
	"github.com/jparkin/mnemo/internal/streak"
)

// Stats recomputes the composite dashboard view from current store state.
// The persisted snapshot is only a cache; this is the authoritative fold.
func (e *Engine) Stats() (deck.Stats, error) {
	cards, err := e.db.Cards()
	if err != nil {
		return deck.Stats{}, err
	}
	history, err := e.db.History()
	if err != nil {
		return deck.Stats{}, err
	}
	st, err := e.streakState()
	if err != nil {
		return deck.Stats{}, err
	}
	return stats.Compute(cards, history, st, e.now()), nil
}

// Forecast projects due counts over the next days.
func (e *Engine) Forecast(days int) ([]stats.DayCount, error) {
	cards, err := e.db.Cards()
	if err != nil {
		return nil, err
	}
	return stats.Forecast(cards, e.now(), days), nil
}

// Activity returns the trailing daily review-count series.
func (e *Engine) Activity(days int) ([]stats.DayCount, error) {
	history, err := e.db.History()
	if err != nil {
		return nil, err
	}
	return stats.DailyReviewCounts(history, e.now(), days), nil
}

// Retention returns the trailing daily retention series.
func (e *Engine) Retention(days int) ([]stats.DayRate, error) {
	history, err := e.db.History()
	if err != nil {
		return nil, err
	}
	return stats.DailyRetention(history, e.now(), days), nil
}

// Categories returns the per-source-type breakdown.
func (e *Engine) Categories() ([]stats.CategoryStat, error) {
	cards, err := e.db.Cards()
	if err != nil {
		return nil, err
	}
	return stats.CategoryBreakdown(cards), nil
}

// RefreshStats recomputes the dashboard snapshot and persists it wholesale.
// The cache is never patched field by field; a stale cache is replaced, not
// repaired.
func (e *Engine) RefreshStats() error {
	st, err := e.Stats()
	if err != nil {
		return err
	}
	return e.db.SaveStats(st)
}

// streakState rebuilds the streak by folding the calendar days of completed
// sessions, oldest first. Recomputing from the session log keeps the streak
// derivable rather than drifting as stored state.
func (e *Engine) streakState() (streak.State, error) {
	sessions, err := e.db.Sessions()
	if err != nil {
		return streak.State{}, err
	}

	var days []time.Time
	for _, s := range sessions {
		if s.CompletedAt != nil {
			days = append(days, *s.CompletedAt)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return streak.Rebuild(days), nil
}
