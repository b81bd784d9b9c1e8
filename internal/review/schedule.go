// Package review schedules spaced-repetition practice for words a
// learner missed in their surveys, using the SM-2 interval algorithm.
package review

import "fmt"

// SM-2 tuning.
const (
	// InitialEase is the ease factor assigned to new entries.
	InitialEase = 2.5

	// MinEase is the floor the ease factor can decay to.
	MinEase = 1.3

	// FirstIntervalDays is the interval after the first successful review.
	FirstIntervalDays = 1

	// SecondIntervalDays is the interval after the second success.
	SecondIntervalDays = 6

	// MaxIntervalDays caps the schedule so items never vanish for years.
	MaxIntervalDays = 365
)

// Rating grades a review from the learner's perspective.
type Rating string

const (
	// RatingAgain means the word was not recalled; the schedule resets.
	RatingAgain Rating = "again"

	// RatingHard means recalled with difficulty.
	RatingHard Rating = "hard"

	// RatingGood means recalled correctly.
	RatingGood Rating = "good"

	// RatingEasy means recalled instantly.
	RatingEasy Rating = "easy"
)

// ParseRating validates a learner-supplied rating string.
func ParseRating(s string) (Rating, error) {
	switch Rating(s) {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return Rating(s), nil
	}
	return "", fmt.Errorf("unknown rating %q (want again, hard, good, or easy)", s)
}

// quality maps a rating to the SM-2 quality scale.
func (r Rating) quality() int {
	switch r {
	case RatingHard:
		return 3
	case RatingGood:
		return 4
	case RatingEasy:
		return 5
	default:
		return 2
	}
}
