// Package streak maintains consecutive-day study streaks.
//
// A streak advances only on the first completed study session of a calendar
// day. The fold is deterministic: callers hand it distinct study days in
// ascending order.
package streak

import (
	"math"
	"time"
)

// State is the streak accumulator, day-granular.
type State struct {
	Current   int
	Longest   int
	LastStudy *time.Time // calendar day of the most recent study
}

// Advance folds one study day into the state.
//
// Same day as LastStudy: no change. Exactly one day later: the streak
// continues. A larger gap resets the streak to 1. Longest never decreases.
func Advance(s State, day time.Time) State {
	d := dayOf(day)

	switch {
	case s.LastStudy == nil:
		s.Current = 1
	case d.Equal(*s.LastStudy):
		return s
	case daysBetween(*s.LastStudy, d) == 1:
		s.Current++
	default:
		s.Current = 1
	}

	s.LastStudy = &d
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	return s
}

// Rebuild folds a sorted ascending list of study days into a fresh state.
// Duplicate days are tolerated (they fold as same-day no-ops).
func Rebuild(days []time.Time) State {
	var s State
	for _, d := range days {
		s = Advance(s, d)
	}
	return s
}

// dayOf truncates a timestamp to its calendar day.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b (both day-truncated).
// Rounded so a DST-shortened day still counts as one day.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
