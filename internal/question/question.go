// Package question builds the word-recognition questions administered by
// the survey engine. Generation is fully deterministic: every random choice
// is driven by an RNG keyed on the session seed and the question counter,
// never by ambient randomness, so a replayed session issues byte-identical
// questions.
package question

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrBandExhausted is returned when a band has no unused eligible words
// left for this session. The band selector substitutes the next viable band;
// only full exhaustion across all bands stops the survey.
var ErrBandExhausted = errors.New("band exhausted: no unused eligible words")

// Option is one candidate answer: a definition and whether it is the
// correct one for the target word. Exactly one option per question is
// correct.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Payload is one administered question. Immutable once issued.
type Payload struct {
	// ID uniquely identifies the question. Derived deterministically from
	// (seed, counter) so replays issue identical IDs.
	ID string `json:"id"`

	// Word is the target word the learner must recognize.
	Word string `json:"word"`

	// BandID is the frequency band the word was drawn from.
	BandID int `json:"band_id"`

	// Options are the candidate definitions in display order. The correct
	// option's position is randomized per question, not fixed.
	Options []Option `json:"options"`
}

// CorrectIndex returns the position of the correct option.
func (p Payload) CorrectIndex() int {
	for i, o := range p.Options {
		if o.Correct {
			return i
		}
	}
	return -1
}

// questionID derives the deterministic question identifier for a
// (seed, counter) pair. Name-based UUID so the ID is stable across replays
// yet unique across counters within a session.
func questionID(seed, counter uint64) string {
	name := fmt.Sprintf("lexicraft:question:%016x:%d", seed, counter)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
