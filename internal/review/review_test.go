package review

import (
	"math"
	"testing"
	"time"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/question"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/survey"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewEntry_DueImmediately(t *testing.T) {
	e := NewEntry("ephemeral", 7, base)
	if !e.IsDue(base) {
		t.Error("new entry should be due immediately")
	}
	if e.Ease != InitialEase {
		t.Errorf("Ease = %f, want %f", e.Ease, InitialEase)
	}
	if e.Repetition != 0 {
		t.Errorf("Repetition = %d, want 0", e.Repetition)
	}
}

func TestApply_GoodProgression(t *testing.T) {
	e := NewEntry("ephemeral", 7, base)

	e = Apply(e, RatingGood, base)
	if e.IntervalDays != FirstIntervalDays || e.Repetition != 1 {
		t.Fatalf("after 1st good: interval %d, repetition %d", e.IntervalDays, e.Repetition)
	}

	e = Apply(e, RatingGood, e.DueAt)
	if e.IntervalDays != SecondIntervalDays || e.Repetition != 2 {
		t.Fatalf("after 2nd good: interval %d, repetition %d", e.IntervalDays, e.Repetition)
	}

	e = Apply(e, RatingGood, e.DueAt)
	// Third interval multiplies by the ease factor (2.5).
	if e.IntervalDays != 15 {
		t.Errorf("after 3rd good: interval %d, want 15", e.IntervalDays)
	}
	if e.Repetition != 3 {
		t.Errorf("Repetition = %d, want 3", e.Repetition)
	}
}

func TestApply_AgainResets(t *testing.T) {
	e := NewEntry("ephemeral", 7, base)
	for i := 0; i < 3; i++ {
		e = Apply(e, RatingGood, e.DueAt)
	}

	e = Apply(e, RatingAgain, e.DueAt)
	if e.Repetition != 0 {
		t.Errorf("Repetition = %d, want 0 after a miss", e.Repetition)
	}
	if e.IntervalDays != FirstIntervalDays {
		t.Errorf("IntervalDays = %d, want %d after a miss", e.IntervalDays, FirstIntervalDays)
	}
}

func TestApply_EaseDriftsWithRatings(t *testing.T) {
	e := NewEntry("ephemeral", 7, base)

	easy := Apply(e, RatingEasy, base)
	if easy.Ease <= InitialEase {
		t.Errorf("easy rating should raise ease, got %f", easy.Ease)
	}

	hard := Apply(e, RatingHard, base)
	if hard.Ease >= InitialEase {
		t.Errorf("hard rating should lower ease, got %f", hard.Ease)
	}
}

func TestApply_EaseNeverBelowFloor(t *testing.T) {
	e := NewEntry("ephemeral", 7, base)
	for i := 0; i < 20; i++ {
		e = Apply(e, RatingHard, e.DueAt)
	}
	if e.Ease < MinEase {
		t.Errorf("Ease = %f, want at least %f", e.Ease, MinEase)
	}
	if math.IsNaN(e.Ease) {
		t.Error("Ease became NaN")
	}
}

func TestApply_IntervalCapped(t *testing.T) {
	e := NewEntry("ephemeral", 7, base)
	for i := 0; i < 15; i++ {
		e = Apply(e, RatingEasy, e.DueAt)
	}
	if e.IntervalDays > MaxIntervalDays {
		t.Errorf("IntervalDays = %d, want at most %d", e.IntervalDays, MaxIntervalDays)
	}
}

func TestCurrentStatus(t *testing.T) {
	e := NewEntry("ephemeral", 7, base)
	e = Apply(e, RatingGood, base)
	e = Apply(e, RatingGood, e.DueAt) // interval now 6 days

	if got := e.CurrentStatus(e.DueAt.Add(-time.Hour)); got != StatusNotDue {
		t.Errorf("before due: %q, want %q", got, StatusNotDue)
	}
	if got := e.CurrentStatus(e.DueAt.Add(time.Hour)); got != StatusDue {
		t.Errorf("just due: %q, want %q", got, StatusDue)
	}
	if got := e.CurrentStatus(e.DueAt.AddDate(0, 0, 4)); got != StatusOverdue {
		t.Errorf("past grace: %q, want %q", got, StatusOverdue)
	}
}

func TestDaysUntilReview(t *testing.T) {
	e := NewEntry("ephemeral", 7, base)
	e = Apply(e, RatingGood, base) // due tomorrow

	if got := e.DaysUntilReview(base.Add(time.Hour)); got != 1 {
		t.Errorf("DaysUntilReview = %d, want 1", got)
	}
	if got := e.DaysUntilReview(e.DueAt); got != 0 {
		t.Errorf("DaysUntilReview at due date = %d, want 0", got)
	}
}

func TestParseRating(t *testing.T) {
	for _, ok := range []string{"again", "hard", "good", "easy"} {
		if _, err := ParseRating(ok); err != nil {
			t.Errorf("ParseRating(%q): %v", ok, err)
		}
	}
	if _, err := ParseRating("perfect"); err == nil {
		t.Error("expected error for unknown rating")
	}
}

func TestSeedFromSurvey_MissedWordsOnly(t *testing.T) {
	wrong := survey.Submission{QuestionID: "q2", DontKnow: true}
	right := survey.Submission{QuestionID: "q1", OptionIndex: 0}

	s := &survey.State{
		History: []survey.Exchange{
			{Question: question.Payload{ID: "q1", Word: "the", BandID: 1}, Answer: &right, Correct: true},
			{Question: question.Payload{ID: "q2", Word: "ephemeral", BandID: 7}, Answer: &wrong, Correct: false},
			{Question: question.Payload{ID: "q3", Word: "ubiquitous", BandID: 8}},
		},
	}

	entries := SeedFromSurvey(s, base)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Word != "ephemeral" || entries[0].BandID != 7 {
		t.Errorf("entry = %+v, want the missed word", entries[0])
	}
	if !entries[0].IsDue(base) {
		t.Error("seeded entry should be due immediately")
	}
}
