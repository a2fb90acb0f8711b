package deck

import (
	"strings"
	"testing"
	"time"

	"github.com/jparkin/mnemo/internal/srs"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestNewCardDefaults(t *testing.T) {
	c, err := NewCard(SourceConcept, "concept-42", []string{"pack-1"}, testNow)
	if err != nil {
		t.Fatalf("NewCard: %v", err)
	}

	if c.ID == "" {
		t.Error("expected non-empty ID")
	}
	if c.EaseFactor != srs.DefaultEase {
		t.Errorf("ease = %v, want %v", c.EaseFactor, srs.DefaultEase)
	}
	if c.Interval != 0 || c.Repetitions != 0 {
		t.Errorf("interval/reps = %d/%d, want 0/0", c.Interval, c.Repetitions)
	}
	if c.NextReview == nil || !c.NextReview.Equal(testNow) {
		t.Errorf("next review = %v, want creation time", c.NextReview)
	}
	if !c.Due(testNow) {
		t.Error("new card should be due immediately")
	}
}

func TestNewCardInvalidSourceType(t *testing.T) {
	if _, err := NewCard("poem", "x", nil, testNow); err == nil {
		t.Error("expected error for unknown source type")
	}
}

func TestCardDue(t *testing.T) {
	// No scheduled review: always due.
	c := &Card{}
	if !c.Due(testNow) {
		t.Error("card with nil next review should be due")
	}

	// Due tomorrow: not due now, due in 25 hours.
	tomorrow := testNow.Add(24 * time.Hour)
	c.NextReview = &tomorrow
	if c.Due(testNow) {
		t.Error("card due tomorrow should not be due now")
	}
	if !c.Due(testNow.Add(25 * time.Hour)) {
		t.Error("card due tomorrow should be due in 25 hours")
	}

	// Boundary: due exactly now counts as due.
	at := testNow
	c.NextReview = &at
	if !c.Due(testNow) {
		t.Error("card due exactly now should be due")
	}
}

func TestCardMastered(t *testing.T) {
	c := &Card{Interval: 21}
	if c.Mastered() {
		t.Error("interval 21 should not be mastered")
	}
	c.Interval = 22
	if !c.Mastered() {
		t.Error("interval 22 should be mastered")
	}
}

func TestCardApply(t *testing.T) {
	c, _ := NewCard(SourceMilestone, "m-1", nil, testNow)
	res := srs.Schedule(4, c.EaseFactor, c.Interval, c.Repetitions, testNow)
	c.Apply(res, testNow)

	if c.Interval != 1 || c.Repetitions != 1 {
		t.Errorf("interval/reps = %d/%d, want 1/1", c.Interval, c.Repetitions)
	}
	if c.LastReviewed == nil || !c.LastReviewed.Equal(testNow) {
		t.Errorf("last reviewed = %v, want %v", c.LastReviewed, testNow)
	}
	if c.NextReview == nil || !c.NextReview.Equal(testNow.AddDate(0, 0, 1)) {
		t.Errorf("next review = %v, want tomorrow", c.NextReview)
	}
}

func TestCardPackMembership(t *testing.T) {
	c := &Card{PackIDs: []string{"a", "b"}}

	if !c.InPack("") {
		t.Error("empty pack id should match every card")
	}
	if !c.InPack("a") || c.InPack("z") {
		t.Error("InPack membership wrong")
	}

	c.RemovePack("a")
	if c.InPack("a") {
		t.Error("pack a should be removed")
	}
	if !c.InPack("b") {
		t.Error("pack b should survive")
	}

	// Removing an absent pack is a no-op.
	c.RemovePack("z")
	if len(c.PackIDs) != 1 {
		t.Errorf("pack ids = %v, want [b]", c.PackIDs)
	}
}

func TestPackValidation(t *testing.T) {
	tests := []struct {
		name    string
		pack    Pack
		wantErr bool
	}{
		{"valid", Pack{ID: "p", Name: "History", Color: "#FF8800"}, false},
		{"empty name", Pack{ID: "p", Name: "", Color: "#FF8800"}, true},
		{"name too long", Pack{ID: "p", Name: strings.Repeat("x", 51), Color: "#FF8800"}, true},
		{"bad color", Pack{ID: "p", Name: "History", Color: "orange"}, true},
		{"description too long", Pack{ID: "p", Name: "History", Color: "#FF8800", Description: strings.Repeat("x", 201)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pack.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewPackNeverDefault(t *testing.T) {
	p, err := NewPack("My Pack", "", "#112233", testNow)
	if err != nil {
		t.Fatalf("NewPack: %v", err)
	}
	if p.IsDefault {
		t.Error("user packs must not be default")
	}
	if p.System() {
		t.Error("user packs must not be system packs")
	}
}

func TestSystemPacks(t *testing.T) {
	packs := SystemPacks(testNow)
	if len(packs) != 2 {
		t.Fatalf("system packs = %d, want 2", len(packs))
	}
	names := map[string]bool{}
	for _, p := range packs {
		if !p.IsDefault {
			t.Errorf("system pack %s should be default", p.Name)
		}
		if !p.System() {
			t.Errorf("system pack %s should report System()", p.Name)
		}
		names[p.Name] = true
	}
	if !names["All Cards"] || !names["Recently Added"] {
		t.Errorf("unexpected system pack names: %v", names)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s, err := NewSession("pack-1", 5, testNow)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if !s.Open() {
		t.Fatal("new session should be open")
	}
	if s.CardsToReview != 5 {
		t.Errorf("cards to review = %d, want 5", s.CardsToReview)
	}

	s.RecordAnswer(true)
	s.RecordAnswer(false)
	if s.CardsReviewed != 2 || s.CardsCorrect != 1 {
		t.Errorf("reviewed/correct = %d/%d, want 2/1", s.CardsReviewed, s.CardsCorrect)
	}

	end := testNow.Add(10 * time.Minute)
	s.Complete(end)
	if s.Open() {
		t.Error("completed session should not be open")
	}

	// Completing again must not move the end time.
	s.Complete(end.Add(time.Hour))
	if !s.CompletedAt.Equal(end) {
		t.Errorf("completed at = %v, want %v", s.CompletedAt, end)
	}
}
