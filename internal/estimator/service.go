package estimator

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnderflow is returned when reading an estimate for a band with no
// observations. Callers must check sample counts before reading; hitting
// this error is a programming-contract violation, not a learner condition.
var ErrUnderflow = errors.New("estimator underflow: band has no observations")

// Service tracks BandEstimates for all bands touched during one session.
// It is not safe for concurrent use; each session owns its own Service.
type Service struct {
	estimates map[int]*BandEstimate
}

// NewService creates an empty estimator service.
func NewService() *Service {
	return &Service{estimates: make(map[int]*BandEstimate)}
}

// Ensure returns the estimate for a band, creating the zero-observation
// record on first touch. Issued questions call this so the band's record
// exists before its first answer arrives.
func (s *Service) Ensure(bandID int) *BandEstimate {
	if e, ok := s.estimates[bandID]; ok {
		return e
	}
	e := newBandEstimate(bandID)
	s.estimates[bandID] = e
	return e
}

// Record absorbs one answer for a band and returns the updated estimate.
func (s *Service) Record(bandID int, correct bool) *BandEstimate {
	e := s.Ensure(bandID)
	e.record(correct)
	return e
}

// Estimate returns the estimate for a band that has at least one
// observation. Returns ErrUnderflow otherwise.
func (s *Service) Estimate(bandID int) (*BandEstimate, error) {
	e, ok := s.estimates[bandID]
	if !ok || e.Asked == 0 {
		return nil, fmt.Errorf("band %d: %w", bandID, ErrUnderflow)
	}
	return e, nil
}

// Sampled reports whether a band has at least one observation.
func (s *Service) Sampled(bandID int) bool {
	e, ok := s.estimates[bandID]
	return ok && e.Asked > 0
}

// SampledBands returns the IDs of all bands with observations, ascending.
func (s *Service) SampledBands() []int {
	ids := make([]int, 0, len(s.estimates))
	for id, e := range s.estimates {
		if e.Asked > 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// HighestAbove returns the highest sampled band whose point estimate
// exceeds the threshold, or 0 if no sampled band clears it. This is the
// Reach primitive shared by the selector and the report.
func (s *Service) HighestAbove(threshold float64) int {
	best := 0
	for id, e := range s.estimates {
		if e.Asked > 0 && e.P > threshold && id > best {
			best = id
		}
	}
	return best
}

// Totals returns the aggregate asked and correct counts across all bands.
func (s *Service) Totals() (asked, correct int) {
	for _, e := range s.estimates {
		asked += e.Asked
		correct += e.Correct
	}
	return asked, correct
}

// All returns the estimates for every touched band keyed by band ID.
// The returned map shares the underlying records; callers must not mutate.
func (s *Service) All() map[int]*BandEstimate {
	out := make(map[int]*BandEstimate, len(s.estimates))
	for id, e := range s.estimates {
		out[id] = e
	}
	return out
}
