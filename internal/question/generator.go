package question

import (
	"fmt"
	"math/rand/v2"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/vocab"
)

// Input holds all context needed to generate one question.
type Input struct {
	// BandID is the band to draw the target word from.
	BandID int

	// Seed is the session seed.
	Seed uint64

	// Counter is the session's question counter value for this question.
	// Together with Seed it keys all randomness in the question.
	Counter uint64

	// Used contains the words already administered in this session.
	// The generator never picks a word present here.
	Used map[string]bool
}

// Generator produces questions from a vocabulary source.
type Generator struct {
	source  vocab.Source
	options int
}

// NewGenerator creates a Generator that builds questions with the given
// total option count (one correct definition plus options-1 distractors).
func NewGenerator(source vocab.Source, options int) *Generator {
	return &Generator{source: source, options: options}
}

// Generate picks an unused word from the band, assembles the option set,
// and shuffles it with the (seed, counter)-keyed RNG. Returns
// ErrBandExhausted if every eligible word in the band has been used.
func (g *Generator) Generate(in Input) (Payload, error) {
	content, err := g.source.BandContent(in.BandID)
	if err != nil {
		return Payload{}, fmt.Errorf("load band %d: %w", in.BandID, err)
	}

	var unused []vocab.Word
	for _, w := range content.Words {
		if !in.Used[w.Text] {
			unused = append(unused, w)
		}
	}
	if len(unused) == 0 {
		return Payload{}, fmt.Errorf("band %d: %w", in.BandID, ErrBandExhausted)
	}

	rng := rand.New(rand.NewPCG(in.Seed, in.Counter))
	target := unused[rng.IntN(len(unused))]

	distractors, err := g.drawDistractors(rng, content, target)
	if err != nil {
		return Payload{}, err
	}

	options := make([]Option, 0, g.options)
	options = append(options, Option{Text: target.Definition, Correct: true})
	for _, d := range distractors {
		options = append(options, Option{Text: d})
	}
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Payload{
		ID:      questionID(in.Seed, in.Counter),
		Word:    target.Text,
		BandID:  in.BandID,
		Options: options,
	}, nil
}

// Remaining counts the words of a band not yet marked used. Unknown
// bands count as empty.
func (g *Generator) Remaining(bandID int, used map[string]bool) int {
	content, err := g.source.BandContent(bandID)
	if err != nil {
		return 0
	}
	n := 0
	for _, w := range content.Words {
		if !used[w.Text] {
			n++
		}
	}
	return n
}

// drawDistractors selects options-1 wrong definitions for the target word.
// Definitions of the band's other words come first, then the band's wider
// distractor pool; candidates are assembled in the source's stable order and
// sampled by seeded shuffle so draws are reproducible.
func (g *Generator) drawDistractors(rng *rand.Rand, content vocab.BandContent, target vocab.Word) ([]string, error) {
	need := g.options - 1

	seen := map[string]bool{target.Definition: true}
	var candidates []string
	for _, w := range content.Words {
		if w.Text == target.Text || seen[w.Definition] {
			continue
		}
		seen[w.Definition] = true
		candidates = append(candidates, w.Definition)
	}
	for _, d := range content.DistractorPool {
		if seen[d] {
			continue
		}
		seen[d] = true
		candidates = append(candidates, d)
	}

	if len(candidates) < need {
		return nil, fmt.Errorf("band %d: need %d distractors for %q, pool has %d",
			content.BandID, need, target.Text, len(candidates))
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[:need], nil
}
