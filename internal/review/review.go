package review

import (
	"math"
	"time"
)

// Entry holds the spaced repetition state for a single word.
type Entry struct {
	Word           string    `json:"word"`
	BandID         int       `json:"band_id"`
	Ease           float64   `json:"ease"`
	IntervalDays   int       `json:"interval_days"`
	Repetition     int       `json:"repetition"`
	DueAt          time.Time `json:"due_at"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}

// NewEntry creates a fresh entry that is due immediately.
func NewEntry(word string, bandID int, now time.Time) Entry {
	return Entry{
		Word:   word,
		BandID: bandID,
		Ease:   InitialEase,
		DueAt:  now,
	}
}

// Apply advances the entry per SM-2 for the given rating and returns the
// updated entry.
func Apply(e Entry, r Rating, now time.Time) Entry {
	q := r.quality()

	if q < 3 {
		e.Repetition = 0
		e.IntervalDays = FirstIntervalDays
	} else {
		e.Repetition++
		switch e.Repetition {
		case 1:
			e.IntervalDays = FirstIntervalDays
		case 2:
			e.IntervalDays = SecondIntervalDays
		default:
			e.IntervalDays = int(math.Round(float64(e.IntervalDays) * e.Ease))
		}

		e.Ease += 0.1 - float64(5-q)*(0.08+float64(5-q)*0.02)
		if e.Ease < MinEase {
			e.Ease = MinEase
		}
	}

	if e.IntervalDays > MaxIntervalDays {
		e.IntervalDays = MaxIntervalDays
	}
	if e.IntervalDays < 1 {
		e.IntervalDays = 1
	}

	e.LastReviewedAt = now
	e.DueAt = now.AddDate(0, 0, e.IntervalDays)
	return e
}

// IsDue returns true if the word is due for review.
func (e *Entry) IsDue(now time.Time) bool {
	return !now.Before(e.DueAt)
}

// OverdueDays returns how many days past due the word is. Returns 0 if
// not yet due.
func (e *Entry) OverdueDays(now time.Time) float64 {
	if now.Before(e.DueAt) {
		return 0
	}
	return now.Sub(e.DueAt).Hours() / 24.0
}

// Status describes a word's review status for display.
type Status string

const (
	StatusNotDue  Status = "not_due"
	StatusDue     Status = "due"
	StatusOverdue Status = "overdue"
)

// CurrentStatus returns the review status at now. A word counts as
// overdue once it is more than half its interval past the due date.
func (e *Entry) CurrentStatus(now time.Time) Status {
	if !e.IsDue(now) {
		return StatusNotDue
	}
	interval := e.IntervalDays
	if interval < 1 {
		interval = 1
	}
	grace := float64(interval) * 0.5
	if e.OverdueDays(now) > grace {
		return StatusOverdue
	}
	return StatusDue
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func (e *Entry) DaysUntilReview(now time.Time) int {
	if e.IsDue(now) {
		return 0
	}
	return int(e.DueAt.Sub(now).Hours()/24.0) + 1
}
