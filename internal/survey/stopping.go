package survey

// StopReason names the termination clause that ended a survey.
type StopReason string

const (
	StopNone StopReason = ""

	// StopPrecision means the frontier estimate stayed under the
	// precision target for consecutive refinement probes.
	StopPrecision StopReason = "precision"

	// StopCeiling means the hard question ceiling was reached.
	StopCeiling StopReason = "ceiling"

	// StopExhausted means every band ran out of unused words.
	StopExhausted StopReason = "exhausted"
)

// precisionRuns is how many consecutive refinement probes must meet the
// precision target before the survey stops.
const precisionRuns = 2

// shouldStop evaluates the termination clauses in precedence order:
// frontier precision, question ceiling, word exhaustion.
func shouldStop(s *State, cfg Config, anyViable bool) StopReason {
	if s.Staircase.Refining && s.Staircase.PrecisionHits >= precisionRuns {
		return StopPrecision
	}
	if s.Counter >= uint64(cfg.MaxQuestions) {
		return StopCeiling
	}
	if !anyViable {
		return StopExhausted
	}
	return StopNone
}

// updatePrecision refreshes the consecutive-hit counter after a
// refinement probe was answered. Seek-phase answers never count.
func updatePrecision(s *State, cfg Config, lo int) {
	if !s.Staircase.Refining {
		return
	}
	if frontierWithinTarget(s, cfg, lo) {
		s.Staircase.PrecisionHits++
	} else {
		s.Staircase.PrecisionHits = 0
	}
}

// frontierWithinTarget reports whether the reach frontier's half-width
// is under the precision target. When nothing clears the threshold the
// lowest band stands in for the frontier.
func frontierWithinTarget(s *State, cfg Config, lo int) bool {
	frontier := s.Estimates.HighestAbove(cfg.ReachThreshold)
	if frontier == 0 {
		frontier = lo
	}
	e, err := s.Estimates.Estimate(frontier)
	if err != nil {
		return false
	}
	return e.HalfWidth < cfg.PrecisionTarget
}
