// Package stats derives read-only aggregates from card state and review
// history. Every function here is a pure fold: no clock, no store, no
// mutation, and empty inputs produce well-defined zero outputs.
package stats

import (
	"math"
	"time"

	"github.com/jparkin/mnemo/internal/deck"
	"github.com/jparkin/mnemo/internal/streak"
)

// TrendWindowDays is the fixed trailing window used for the short-term
// retention figure.
const TrendWindowDays = 3

// DayCount is one entry of a dense daily series.
type DayCount struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// DayRate is one entry of a daily retention series. Rate is nil on days
// with no reviews; a nil rate is "no data", never 0%.
type DayRate struct {
	Day     time.Time `json:"day"`
	Reviews int       `json:"reviews"`
	Correct int       `json:"correct"`
	Rate    *float64  `json:"rate,omitempty"`
}

// CategoryStat reports card counts and mastery for one source type.
type CategoryStat struct {
	SourceType   deck.SourceType `json:"source_type"`
	Total        int             `json:"total"`
	Mastered     int             `json:"mastered"`
	MasteryRatio float64         `json:"mastery_ratio"`
}

// DailyReviewCounts returns the trailing n-day review-count series ending
// today. The series is dense: days with no reviews appear with count 0.
func DailyReviewCounts(history []deck.ReviewEntry, now time.Time, n int) []DayCount {
	if n <= 0 {
		return []DayCount{}
	}

	start := dayOf(now).AddDate(0, 0, -(n - 1))
	out := make([]DayCount, n)
	for i := range out {
		out[i].Day = start.AddDate(0, 0, i)
	}

	for _, e := range history {
		if i := daysBetween(start, dayOf(e.Timestamp)); i >= 0 && i < n {
			out[i].Count++
		}
	}
	return out
}

// DailyRetention returns the trailing n-day retention series ending today.
// A review counts as correct when its quality passes the SM-2 threshold.
func DailyRetention(history []deck.ReviewEntry, now time.Time, n int) []DayRate {
	if n <= 0 {
		return []DayRate{}
	}

	start := dayOf(now).AddDate(0, 0, -(n - 1))
	out := make([]DayRate, n)
	for i := range out {
		out[i].Day = start.AddDate(0, 0, i)
	}

	for _, e := range history {
		i := daysBetween(start, dayOf(e.Timestamp))
		if i < 0 || i >= n {
			continue
		}
		out[i].Reviews++
		if e.Quality.Pass() {
			out[i].Correct++
		}
	}

	for i := range out {
		if out[i].Reviews > 0 {
			r := float64(out[i].Correct) / float64(out[i].Reviews)
			out[i].Rate = &r
		}
	}
	return out
}

// RecentRetention is the pass rate over the fixed trailing trend window.
// Returns nil when the window holds no reviews.
func RecentRetention(history []deck.ReviewEntry, now time.Time) *float64 {
	var reviews, correct int
	for _, d := range DailyRetention(history, now, TrendWindowDays) {
		reviews += d.Reviews
		correct += d.Correct
	}
	if reviews == 0 {
		return nil
	}
	r := float64(correct) / float64(reviews)
	return &r
}

// Forecast projects, for each of the next m days starting today, how many
// cards come due on that day if no study happens in between. Cards already
// due (or never scheduled) land on day zero. No cascading reschedule is
// simulated.
func Forecast(cards []deck.Card, now time.Time, m int) []DayCount {
	if m <= 0 {
		return []DayCount{}
	}

	today := dayOf(now)
	out := make([]DayCount, m)
	for i := range out {
		out[i].Day = today.AddDate(0, 0, i)
	}

	for i := range cards {
		c := &cards[i]
		day := 0
		if c.NextReview != nil {
			day = daysBetween(today, dayOf(*c.NextReview))
			if day < 0 {
				day = 0
			}
		}
		if day < m {
			out[day].Count++
		}
	}
	return out
}

// CategoryBreakdown groups cards by source type and reports per-category
// totals and mastery ratios. Types with no cards are omitted.
func CategoryBreakdown(cards []deck.Card) []CategoryStat {
	byType := make(map[deck.SourceType]*CategoryStat)
	for i := range cards {
		c := &cards[i]
		cs := byType[c.SourceType]
		if cs == nil {
			cs = &CategoryStat{SourceType: c.SourceType}
			byType[c.SourceType] = cs
		}
		cs.Total++
		if c.Mastered() {
			cs.Mastered++
		}
	}

	out := make([]CategoryStat, 0, len(byType))
	for _, st := range deck.SourceTypes {
		cs := byType[st]
		if cs == nil {
			continue
		}
		cs.MasteryRatio = float64(cs.Mastered) / float64(cs.Total)
		out = append(out, *cs)
	}
	return out
}

// Compute merges cards, review history and streak state into the composite
// dashboard view. Always recomputed wholesale; never patched field by field.
func Compute(cards []deck.Card, history []deck.ReviewEntry, st streak.State, now time.Time) deck.Stats {
	out := deck.Stats{
		TotalCards:    len(cards),
		CurrentStreak: st.Current,
		LongestStreak: st.Longest,
		LastStudyDate: st.LastStudy,
	}

	for i := range cards {
		if cards[i].Due(now) {
			out.CardsDueToday++
		}
		if cards[i].Mastered() {
			out.MasteredCards++
		}
	}

	today := dayOf(now)
	for _, e := range history {
		if dayOf(e.Timestamp).Equal(today) {
			out.CardsReviewedToday++
		}
	}
	return out
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
