package vocab

import (
	"fmt"
	"sort"
)

// MemorySource is an in-memory Source backed by a fixed word list.
// It serves tests and the simulator; production surveys read from the store.
type MemorySource struct {
	bands map[int]BandContent
}

// NewMemorySource groups the given words into bands of bandSize ranks each
// and builds the per-band distractor pools from the definitions of the other
// bands' words.
func NewMemorySource(words []Word, bandSize int) (*MemorySource, error) {
	if bandSize <= 0 {
		return nil, fmt.Errorf("band size must be > 0, got %d", bandSize)
	}

	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })

	bands := make(map[int]BandContent)
	for _, w := range sorted {
		if w.Rank < 1 {
			return nil, fmt.Errorf("word %q has invalid rank %d", w.Text, w.Rank)
		}
		id := (w.Rank-1)/bandSize + 1
		bc := bands[id]
		bc.BandID = id
		bc.Words = append(bc.Words, w)
		bands[id] = bc
	}

	// Distractors for a band are definitions drawn from every other band,
	// in rank order so the pool ordering is stable.
	for id, bc := range bands {
		for _, w := range sorted {
			other := (w.Rank-1)/bandSize + 1
			if other != id {
				bc.DistractorPool = append(bc.DistractorPool, w.Definition)
			}
		}
		bands[id] = bc
	}

	return &MemorySource{bands: bands}, nil
}

// AddCurated merges per-word curated wrong definitions into the owning
// band's distractor pool. Entries append in the band's word rank order,
// each word's list in its given order, keeping the pool stable. Call
// before the source starts serving surveys; the Source contract fixes
// band content for the life of a session.
func (m *MemorySource) AddCurated(curated map[string][]string) {
	if len(curated) == 0 {
		return
	}
	for id, bc := range m.bands {
		for _, w := range bc.Words {
			bc.DistractorPool = append(bc.DistractorPool, curated[w.Text]...)
		}
		m.bands[id] = bc
	}
}

// BandContent implements Source.
func (m *MemorySource) BandContent(bandID int) (BandContent, error) {
	bc, ok := m.bands[bandID]
	if !ok || len(bc.Words) == 0 {
		return BandContent{}, fmt.Errorf("band %d: %w", bandID, ErrEmptyBand)
	}
	return bc, nil
}
