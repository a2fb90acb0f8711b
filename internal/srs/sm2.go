package srs

import (
	"math"
	"time"
)

// Fixed scheduling policy. The mastery threshold and ease bounds are not
// configurable on purpose.
const (
	MinEase     = 1.3
	MaxEase     = 3.0
	DefaultEase = 2.5

	// PassThreshold is the lowest quality that counts as a successful recall.
	PassThreshold = 3

	// MasteryIntervalDays is the interval a card must exceed to count as mastered.
	MasteryIntervalDays = 21
)

// Quality is the reviewer's self-rating of a recall, 0 through 5.
type Quality int

const (
	QualityBlackout   Quality = 0 // no recall at all
	QualityWrong      Quality = 1 // wrong, but recognized the answer
	QualityWrongEasy  Quality = 2 // wrong, but the answer felt familiar
	QualityHard       Quality = 3 // correct with significant effort
	QualityHesitant   Quality = 4 // correct after some hesitation
	QualityPerfect    Quality = 5 // instant, perfect recall
)

// Valid reports whether q is inside the documented 0..5 domain.
// Schedule does not validate; callers clamp or reject before calling.
func (q Quality) Valid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// Pass reports whether q counts as a successful recall.
func (q Quality) Pass() bool {
	return q >= PassThreshold
}

// Result is the scheduling state produced by a single review.
type Result struct {
	EaseFactor  float64
	Interval    int // days until the next review; 0 means due now
	Repetitions int // consecutive successes since the last lapse
	NextReview  time.Time
}

// Schedule applies one SM-2 review step.
//
// On a lapse (q < 3) repetitions and interval reset to zero together; the
// ease factor still degrades through the standard formula. On success the
// interval follows the 1 / 6 / round(prev * ease) ladder, where the growth
// step uses the ease factor as it stood before this review.
//
// Pure and total over q in 0..5; behavior outside that range is undefined.
func Schedule(q Quality, ease float64, interval, repetitions int, now time.Time) Result {
	newEase := clampEase(ease + easeDelta(q))

	var newInterval, newReps int
	if q.Pass() {
		newReps = repetitions + 1
		switch {
		case newReps == 1:
			newInterval = 1
		case newReps == 2:
			newInterval = 6
		default:
			newInterval = int(math.Round(float64(interval) * ease))
		}
	} else {
		newReps = 0
		newInterval = 0
	}

	return Result{
		EaseFactor:  newEase,
		Interval:    newInterval,
		Repetitions: newReps,
		NextReview:  now.AddDate(0, 0, newInterval),
	}
}

// easeDelta is the SM-2 ease adjustment for a given quality.
// Quality 4 is the fixed point: the delta is exactly zero.
func easeDelta(q Quality) float64 {
	miss := float64(QualityPerfect - q)
	return 0.1 - miss*(0.08+miss*0.02)
}

func clampEase(ef float64) float64 {
	if ef < MinEase {
		return MinEase
	}
	if ef > MaxEase {
		return MaxEase
	}
	return ef
}
