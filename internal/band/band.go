// Package band defines the frequency band partition of the vocabulary.
// Bands are the unit of sampling granularity for the survey engine: band 1
// covers the most frequent words, higher IDs cover progressively rarer ones.
package band

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a band ID is outside the index range.
var ErrNotFound = errors.New("band not found")

// Band is one contiguous slice of the frequency-ranked vocabulary.
type Band struct {
	// ID is the 1-based ordinal of the band. Difficulty strictly
	// increases with ID.
	ID int

	// LowRank and HighRank bound the frequency ranks covered by this
	// band, inclusive on both ends.
	LowRank  int
	HighRank int
}

// Size returns the number of word ranks the band covers.
func (b Band) Size() int {
	return b.HighRank - b.LowRank + 1
}

// Index is an immutable ordered collection of bands covering the full
// frequency-ranked vocabulary. It is safe for concurrent readers; nothing
// mutates it after construction.
type Index struct {
	bands []Band
}

// NewIndex validates the given bands and returns an Index over them.
// Bands must be sorted by ID starting at 1, contiguous in rank coverage,
// and non-empty.
func NewIndex(bands []Band) (*Index, error) {
	if err := validateBands(bands); err != nil {
		return nil, err
	}
	cp := make([]Band, len(bands))
	copy(cp, bands)
	return &Index{bands: cp}, nil
}

// NewUniformIndex builds an index of n bands of wordsPerBand ranks each,
// the common "most frequent 1,000 / next 1,000 / ..." partition.
func NewUniformIndex(n, wordsPerBand int) (*Index, error) {
	if n <= 0 || wordsPerBand <= 0 {
		return nil, fmt.Errorf("uniform index: n and wordsPerBand must be > 0, got %d and %d", n, wordsPerBand)
	}
	bands := make([]Band, n)
	for i := range bands {
		bands[i] = Band{
			ID:       i + 1,
			LowRank:  i*wordsPerBand + 1,
			HighRank: (i + 1) * wordsPerBand,
		}
	}
	return NewIndex(bands)
}

// Band returns the band with the given ID.
func (ix *Index) Band(id int) (Band, error) {
	if id < 1 || id > len(ix.bands) {
		return Band{}, fmt.Errorf("%w: id %d (index has %d bands)", ErrNotFound, id, len(ix.bands))
	}
	return ix.bands[id-1], nil
}

// NumBands returns the number of bands in the index.
func (ix *Index) NumBands() int {
	return len(ix.bands)
}

// First returns the easiest band ID.
func (ix *Index) First() int { return 1 }

// Last returns the hardest band ID.
func (ix *Index) Last() int { return len(ix.bands) }

// TotalWords returns the total rank coverage across all bands.
func (ix *Index) TotalWords() int {
	total := 0
	for _, b := range ix.bands {
		total += b.Size()
	}
	return total
}

// Bands returns a copy of the ordered band list.
func (ix *Index) Bands() []Band {
	cp := make([]Band, len(ix.bands))
	copy(cp, ix.bands)
	return cp
}

// BandForRank returns the band covering the given frequency rank.
func (ix *Index) BandForRank(rank int) (Band, error) {
	for _, b := range ix.bands {
		if rank >= b.LowRank && rank <= b.HighRank {
			return b, nil
		}
	}
	return Band{}, fmt.Errorf("%w: no band covers rank %d", ErrNotFound, rank)
}

// validateBands performs all structural checks on the given band list.
// Returns a combined error describing all problems found, or nil if valid.
func validateBands(bands []Band) error {
	var errs []string

	if len(bands) == 0 {
		return errors.New("band index validation failed: no bands")
	}

	for i, b := range bands {
		if b.ID != i+1 {
			errs = append(errs, fmt.Sprintf("band at position %d has ID %d, want %d", i, b.ID, i+1))
		}
		if b.HighRank < b.LowRank {
			errs = append(errs, fmt.Sprintf("band %d: HighRank %d < LowRank %d", b.ID, b.HighRank, b.LowRank))
		}
	}

	// Contiguity: each band starts where the previous one ended.
	if bands[0].LowRank != 1 {
		errs = append(errs, fmt.Sprintf("band 1 must start at rank 1, got %d", bands[0].LowRank))
	}
	for i := 1; i < len(bands); i++ {
		prev, cur := bands[i-1], bands[i]
		if cur.LowRank != prev.HighRank+1 {
			errs = append(errs, fmt.Sprintf("band %d starts at rank %d, want %d (end of band %d + 1)",
				cur.ID, cur.LowRank, prev.HighRank+1, prev.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("band index validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
