package srs

import (
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestLapseResets(t *testing.T) {
	for _, q := range []Quality{0, 1, 2} {
		res := Schedule(q, 2.5, 30, 7, testNow)
		if res.Repetitions != 0 {
			t.Errorf("q=%d: repetitions = %d, want 0", q, res.Repetitions)
		}
		if res.Interval != 0 {
			t.Errorf("q=%d: interval = %d, want 0", q, res.Interval)
		}
		if res.EaseFactor >= 2.5 {
			t.Errorf("q=%d: ease = %f, want < 2.5 (lapse degrades ease)", q, res.EaseFactor)
		}
		if !res.NextReview.Equal(testNow) {
			t.Errorf("q=%d: next review = %v, want due now", q, res.NextReview)
		}
	}
}

func TestSuccessLadder(t *testing.T) {
	tests := []struct {
		name     string
		quality  Quality
		ease     float64
		interval int
		reps     int
		wantInt  int
		wantReps int
	}{
		{"first success", 4, 2.5, 0, 0, 1, 1},
		{"second success", 4, 2.5, 1, 1, 6, 2},
		{"third success grows by ease", 4, 2.5, 6, 2, 15, 3},
		{"later growth rounds", 4, 2.0, 15, 3, 30, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Schedule(tt.quality, tt.ease, tt.interval, tt.reps, testNow)
			if res.Interval != tt.wantInt {
				t.Errorf("interval = %d, want %d", res.Interval, tt.wantInt)
			}
			if res.Repetitions != tt.wantReps {
				t.Errorf("repetitions = %d, want %d", res.Repetitions, tt.wantReps)
			}
			wantNext := testNow.AddDate(0, 0, tt.wantInt)
			if !res.NextReview.Equal(wantNext) {
				t.Errorf("next review = %v, want %v", res.NextReview, wantNext)
			}
		})
	}
}

// Quality 4 is the fixed point of the ease formula.
func TestQuality4EaseStable(t *testing.T) {
	res := Schedule(4, 2.5, 6, 2, testNow)
	if res.EaseFactor != 2.5 {
		t.Errorf("ease = %v, want exactly 2.5", res.EaseFactor)
	}
}

func TestEaseBounds(t *testing.T) {
	// 20 perfect reviews converge to and stay at the 3.0 ceiling.
	ease := 2.5
	interval, reps := 0, 0
	for i := 0; i < 20; i++ {
		res := Schedule(QualityPerfect, ease, interval, reps, testNow)
		ease, interval, reps = res.EaseFactor, res.Interval, res.Repetitions
		if ease < MinEase || ease > MaxEase {
			t.Fatalf("review %d: ease %f out of [%v, %v]", i, ease, MinEase, MaxEase)
		}
	}
	if ease != MaxEase {
		t.Errorf("ease after 20 perfect reviews = %f, want %v", ease, MaxEase)
	}

	// 10 blackouts converge to and stay at the 1.3 floor.
	ease = 2.5
	for i := 0; i < 10; i++ {
		res := Schedule(QualityBlackout, ease, 0, 0, testNow)
		ease = res.EaseFactor
		if ease < MinEase {
			t.Fatalf("review %d: ease %f below floor", i, ease)
		}
	}
	if ease != MinEase {
		t.Errorf("ease after 10 blackouts = %f, want %v", ease, MinEase)
	}
}

func TestEaseBoundsAllQualities(t *testing.T) {
	for q := Quality(0); q <= 5; q++ {
		for _, ease := range []float64{1.3, 1.8, 2.5, 3.0} {
			res := Schedule(q, ease, 10, 3, testNow)
			if res.EaseFactor < MinEase || res.EaseFactor > MaxEase {
				t.Errorf("q=%d ease=%v: result ease %f out of bounds", q, ease, res.EaseFactor)
			}
		}
	}
}

// Replays the full new-card scenario: two successes, a perfect recall, a
// lapse, then recovery.
func TestReviewSequence(t *testing.T) {
	ease := DefaultEase
	interval, reps := 0, 0

	steps := []struct {
		quality      Quality
		wantInterval int
		wantReps     int
	}{
		{4, 1, 1},
		{4, 6, 2},
		{5, 15, 3}, // round(6 * 2.5)
		{2, 0, 0},  // lapse
		{4, 1, 1},  // recovery restarts the ladder
	}

	for i, s := range steps {
		res := Schedule(s.quality, ease, interval, reps, testNow)
		if res.Interval != s.wantInterval {
			t.Errorf("step %d (q=%d): interval = %d, want %d", i, s.quality, res.Interval, s.wantInterval)
		}
		if res.Repetitions != s.wantReps {
			t.Errorf("step %d (q=%d): repetitions = %d, want %d", i, s.quality, res.Repetitions, s.wantReps)
		}
		ease, interval, reps = res.EaseFactor, res.Interval, res.Repetitions
	}

	if ease < MinEase || ease > MaxEase {
		t.Errorf("final ease %f out of bounds", ease)
	}

	// The final ease must be independently recomputable from the formula.
	want := DefaultEase
	for _, s := range steps {
		miss := float64(QualityPerfect - s.quality)
		want += 0.1 - miss*(0.08+miss*0.02)
		if want < MinEase {
			want = MinEase
		}
		if want > MaxEase {
			want = MaxEase
		}
	}
	if math.Abs(ease-want) > 1e-9 {
		t.Errorf("final ease = %f, want %f from formula replay", ease, want)
	}
}

func TestQualityValid(t *testing.T) {
	for q := Quality(0); q <= 5; q++ {
		if !q.Valid() {
			t.Errorf("quality %d should be valid", q)
		}
	}
	for _, q := range []Quality{-1, 6, 100} {
		if q.Valid() {
			t.Errorf("quality %d should be invalid", q)
		}
	}
}
