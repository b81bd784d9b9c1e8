package survey

import (
	"testing"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/estimator"
)

func TestShouldStop_PrecedenceOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxQuestions = 5

	s := &State{
		Estimates: estimator.NewService(),
		Counter:   5,
		Staircase: Staircase{Refining: true, PrecisionHits: precisionRuns},
	}

	// Precision wins even when the ceiling and exhaustion also hold.
	if got := shouldStop(s, cfg, false); got != StopPrecision {
		t.Errorf("shouldStop = %q, want %q", got, StopPrecision)
	}

	s.Staircase.PrecisionHits = 0
	if got := shouldStop(s, cfg, false); got != StopCeiling {
		t.Errorf("shouldStop = %q, want %q", got, StopCeiling)
	}

	s.Counter = 3
	if got := shouldStop(s, cfg, false); got != StopExhausted {
		t.Errorf("shouldStop = %q, want %q", got, StopExhausted)
	}

	if got := shouldStop(s, cfg, true); got != StopNone {
		t.Errorf("shouldStop = %q, want none", got)
	}
}

func TestShouldStop_PrecisionRequiresRefinement(t *testing.T) {
	s := &State{
		Estimates: estimator.NewService(),
		Counter:   3,
		Staircase: Staircase{PrecisionHits: precisionRuns},
	}
	if got := shouldStop(s, DefaultConfig(), true); got != StopNone {
		t.Errorf("shouldStop = %q, want none while still seeking", got)
	}
}

func TestUpdatePrecision_CountsConsecutiveHits(t *testing.T) {
	cfg := DefaultConfig()
	s := &State{
		Estimates: estimator.NewService(),
		Staircase: Staircase{Refining: true},
	}
	// A long streak in band 3 narrows its interval well under the target.
	for i := 0; i < 10; i++ {
		s.Estimates.Record(3, true)
	}

	updatePrecision(s, cfg, 1)
	updatePrecision(s, cfg, 1)
	if s.Staircase.PrecisionHits != 2 {
		t.Errorf("PrecisionHits = %d, want 2", s.Staircase.PrecisionHits)
	}
}

func TestUpdatePrecision_ResetsOnWideFrontier(t *testing.T) {
	cfg := DefaultConfig()
	s := &State{
		Estimates: estimator.NewService(),
		Staircase: Staircase{Refining: true, PrecisionHits: 1},
	}
	s.Estimates.Record(3, true)

	updatePrecision(s, cfg, 1)
	if s.Staircase.PrecisionHits != 0 {
		t.Errorf("PrecisionHits = %d, want reset to 0", s.Staircase.PrecisionHits)
	}
}

func TestUpdatePrecision_IgnoredWhileSeeking(t *testing.T) {
	cfg := DefaultConfig()
	s := &State{Estimates: estimator.NewService()}
	for i := 0; i < 10; i++ {
		s.Estimates.Record(3, true)
	}

	updatePrecision(s, cfg, 1)
	if s.Staircase.PrecisionHits != 0 {
		t.Errorf("PrecisionHits = %d, want 0 during seek phase", s.Staircase.PrecisionHits)
	}
}

func TestFrontierWithinTarget_ZeroReachUsesFirstBand(t *testing.T) {
	cfg := DefaultConfig()
	s := &State{
		Estimates: estimator.NewService(),
		Staircase: Staircase{Refining: true},
	}
	for i := 0; i < 10; i++ {
		s.Estimates.Record(1, false)
	}

	if !frontierWithinTarget(s, cfg, 1) {
		t.Error("frontierWithinTarget = false, want true for a well-sampled first band")
	}
}
