// Package vocab supplies the survey engine with band content: the words of
// each frequency band, their definitions, and a pool of distractor
// definitions. Implementations must return a stable ordering for a fixed
// band so that seeded question generation stays reproducible.
package vocab

import "errors"

// ErrEmptyBand is returned when a band has no eligible words.
var ErrEmptyBand = errors.New("band has no eligible words")

// Word is one vocabulary entry eligible for surveying.
type Word struct {
	// Text is the surface form shown to the learner.
	Text string

	// Rank is the 1-based frequency rank of the word in the corpus.
	Rank int

	// Definition is the correct definition for the word.
	Definition string
}

// BandContent holds everything the question generator needs for one band.
type BandContent struct {
	// BandID is the band this content belongs to.
	BandID int

	// Words are the eligible words of the band, in stable rank order.
	Words []Word

	// DistractorPool holds wrong-answer definitions available to this band
	// beyond the definitions of the band's own words. Stable order.
	DistractorPool []string
}

// Source provides read-only access to band content. Implementations are
// safe for concurrent readers; the engine never mutates what it reads.
type Source interface {
	// BandContent returns the content for the given band. The result is
	// identical across calls for a fixed band ID within one process run.
	BandContent(bandID int) (BandContent, error)
}
