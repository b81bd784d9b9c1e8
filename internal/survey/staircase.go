package survey

import (
	"errors"
	"fmt"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/band"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/estimator"
)

// ErrAllBandsExhausted means no band in the index has unused words left.
var ErrAllBandsExhausted = errors.New("all bands exhausted")

// Staircase is the band-selection state of a session: a binary-search
// style walk that starts in the middle of the index, moves harder after
// demonstrated knowledge and easier after failure, and halves its stride
// on every reversal until it collapses into frontier refinement.
type Staircase struct {
	// Dir is the direction of the last move: +1 harder, -1 easier,
	// 0 before the first answer.
	Dir int

	// Step is the current stride in bands.
	Step int

	// Refining is set once the stride has collapsed and selection
	// switches to probing the bands straddling the reach frontier.
	Refining bool

	// PrecisionHits counts consecutive refinement probes after which the
	// frontier half-width met the precision target.
	PrecisionHits int
}

// NewStaircase sizes the initial stride to half the index.
func NewStaircase(numBands int) Staircase {
	step := numBands / 2
	if step < 1 {
		step = 1
	}
	return Staircase{Step: step}
}

// selectNext picks the band for the next question and returns the
// updated staircase. viable reports whether a band still has unused
// words. Fails with ErrAllBandsExhausted when no band does.
func selectNext(s *State, cfg Config, ix *band.Index, viable func(int) bool) (int, Staircase, error) {
	st := s.Staircase
	lo, hi := ix.First(), ix.Last()

	if !st.Refining {
		e, err := s.Estimates.Estimate(s.CurrentBand)
		if err != nil {
			return 0, st, fmt.Errorf("estimate band %d: %w", s.CurrentBand, err)
		}

		dir := 1
		if e.P <= cfg.ReachThreshold {
			dir = -1
		}
		if st.Dir != 0 && dir != st.Dir {
			// Direction reversed: narrow the stride, or collapse into
			// refinement once it cannot narrow further.
			if st.Step == 1 {
				st.Refining = true
			} else {
				st.Step /= 2
			}
		}
		st.Dir = dir

		if !st.Refining {
			target := clampInt(s.CurrentBand+dir*st.Step, lo, hi)
			for target == s.CurrentBand {
				// Clamped in place at a boundary, which bounds the
				// frontier just like a reversal does.
				if st.Step == 1 {
					st.Refining = true
					break
				}
				st.Step /= 2
				target = clampInt(s.CurrentBand+dir*st.Step, lo, hi)
			}
			if !st.Refining {
				next, err := nearestViable(target, dir, lo, hi, viable)
				if err != nil {
					return 0, st, err
				}
				return next, st, nil
			}
		}
	}

	next, err := refineTarget(s, cfg, lo, hi, viable, st.Dir)
	if err != nil {
		return 0, st, err
	}
	return next, st, nil
}

// refineTarget probes the two bands straddling the reach frontier,
// preferring whichever estimate is least certain. Ties go to the band
// closest to the frontier.
func refineTarget(s *State, cfg Config, lo, hi int, viable func(int) bool, dir int) (int, error) {
	reach := s.Estimates.HighestAbove(cfg.ReachThreshold)

	var candidates []int
	for _, id := range []int{reach, reach + 1} {
		if id >= lo && id <= hi && viable(id) {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		// Both frontier bands are out of words; substitute the nearest
		// viable band, searching in the last direction first.
		return nearestViable(clampInt(reach, lo, hi), dir, lo, hi, viable)
	}

	best := candidates[0]
	bestW := refineWidth(s.Estimates, best)
	for _, id := range candidates[1:] {
		w := refineWidth(s.Estimates, id)
		if w > bestW || (w == bestW && absInt(id-reach) < absInt(best-reach)) {
			best, bestW = id, w
		}
	}
	return best, nil
}

// refineWidth ranks refinement candidates. Unsampled bands rank widest.
func refineWidth(est *estimator.Service, id int) float64 {
	e, err := est.Estimate(id)
	if err != nil {
		return estimator.MaxHalfWidth + 1
	}
	return e.HalfWidth
}

// nearestViable finds the closest band to target with unused words,
// scanning in dir first and then the opposite way.
func nearestViable(target, dir, lo, hi int, viable func(int) bool) (int, error) {
	if dir == 0 {
		dir = 1
	}
	for b := target; b >= lo && b <= hi; b += dir {
		if viable(b) {
			return b, nil
		}
	}
	for b := target - dir; b >= lo && b <= hi; b -= dir {
		if viable(b) {
			return b, nil
		}
	}
	return 0, ErrAllBandsExhausted
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
