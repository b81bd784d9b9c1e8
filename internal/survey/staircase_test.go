package survey

import (
	"errors"
	"testing"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/band"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/estimator"
)

func tenBands(t *testing.T) *band.Index {
	t.Helper()
	ix, err := band.NewUniformIndex(10, 10)
	if err != nil {
		t.Fatalf("NewUniformIndex: %v", err)
	}
	return ix
}

func allViable(int) bool { return true }

// seekState builds an in-progress state positioned at cur with the given
// staircase, recording answers so cur has an estimate.
func seekState(cur int, st Staircase, correct, wrong int) *State {
	s := &State{
		Estimates: estimator.NewService(),
		Used:      make(map[string]bool),
		Staircase: st,
	}
	s.CurrentBand = cur
	for i := 0; i < correct; i++ {
		s.Estimates.Record(cur, true)
	}
	for i := 0; i < wrong; i++ {
		s.Estimates.Record(cur, false)
	}
	return s
}

func TestNewStaircase_Stride(t *testing.T) {
	if st := NewStaircase(10); st.Step != 5 {
		t.Errorf("Step = %d, want 5", st.Step)
	}
	if st := NewStaircase(1); st.Step != 1 {
		t.Errorf("Step = %d, want 1", st.Step)
	}
	if st := NewStaircase(3); st.Step != 1 {
		t.Errorf("Step = %d, want 1", st.Step)
	}
}

func TestSelectNext_MovesHarderAfterCorrect(t *testing.T) {
	ix := tenBands(t)
	s := seekState(5, Staircase{Step: 5}, 1, 0)

	next, st, err := selectNext(s, DefaultConfig(), ix, allViable)
	if err != nil {
		t.Fatalf("selectNext: %v", err)
	}
	if next != 10 {
		t.Errorf("next = %d, want 10", next)
	}
	if st.Dir != 1 || st.Step != 5 {
		t.Errorf("staircase = %+v, want Dir 1 Step 5", st)
	}
}

func TestSelectNext_MovesEasierAfterWrong(t *testing.T) {
	ix := tenBands(t)
	s := seekState(5, Staircase{Step: 5}, 0, 1)

	next, st, err := selectNext(s, DefaultConfig(), ix, allViable)
	if err != nil {
		t.Fatalf("selectNext: %v", err)
	}
	// 5 - 5 clamps to the first band.
	if next != 1 {
		t.Errorf("next = %d, want 1", next)
	}
	if st.Dir != -1 {
		t.Errorf("Dir = %d, want -1", st.Dir)
	}
}

func TestSelectNext_ReversalHalvesStep(t *testing.T) {
	ix := tenBands(t)
	s := seekState(10, Staircase{Dir: 1, Step: 5}, 0, 1)

	next, st, err := selectNext(s, DefaultConfig(), ix, allViable)
	if err != nil {
		t.Fatalf("selectNext: %v", err)
	}
	if next != 8 {
		t.Errorf("next = %d, want 8", next)
	}
	if st.Dir != -1 || st.Step != 2 {
		t.Errorf("staircase = %+v, want Dir -1 Step 2", st)
	}
}

func TestSelectNext_ReversalAtUnitStepEntersRefinement(t *testing.T) {
	ix := tenBands(t)
	s := seekState(6, Staircase{Dir: 1, Step: 1}, 0, 1)
	// An easier band already above the threshold marks the frontier.
	s.Estimates.Record(5, true)

	next, st, err := selectNext(s, DefaultConfig(), ix, allViable)
	if err != nil {
		t.Fatalf("selectNext: %v", err)
	}
	if !st.Refining {
		t.Fatalf("staircase = %+v, want Refining", st)
	}
	if next != 5 && next != 6 {
		t.Errorf("next = %d, want a frontier band (5 or 6)", next)
	}
}

func TestSelectNext_BoundaryClampCollapsesToRefinement(t *testing.T) {
	ix := tenBands(t)
	s := seekState(1, Staircase{Dir: -1, Step: 1}, 0, 3)

	next, st, err := selectNext(s, DefaultConfig(), ix, allViable)
	if err != nil {
		t.Fatalf("selectNext: %v", err)
	}
	if !st.Refining {
		t.Fatalf("staircase = %+v, want Refining after boundary clamp", st)
	}
	// Nothing clears the threshold, so refinement probes the first band.
	if next != 1 {
		t.Errorf("next = %d, want 1", next)
	}
}

func TestSelectNext_OutwardClampAtTopEntersRefinement(t *testing.T) {
	ix := tenBands(t)
	s := seekState(10, Staircase{Dir: 1, Step: 4}, 3, 0)

	next, st, err := selectNext(s, DefaultConfig(), ix, allViable)
	if err != nil {
		t.Fatalf("selectNext: %v", err)
	}
	// Wanting to move past the top band pins the frontier there.
	if !st.Refining {
		t.Fatalf("staircase = %+v, want Refining", st)
	}
	if next != 10 {
		t.Errorf("next = %d, want 10", next)
	}
}

func TestRefine_PrefersUnsampledStraddleBand(t *testing.T) {
	ix := tenBands(t)
	s := seekState(5, Staircase{Dir: 1, Step: 1, Refining: true}, 4, 0)
	// Band 6 has no samples yet; it is the least certain frontier side.

	next, _, err := selectNext(s, DefaultConfig(), ix, allViable)
	if err != nil {
		t.Fatalf("selectNext: %v", err)
	}
	if next != 6 {
		t.Errorf("next = %d, want 6", next)
	}
}

func TestRefine_PrefersWiderEstimate(t *testing.T) {
	ix := tenBands(t)
	s := seekState(5, Staircase{Dir: 1, Step: 1, Refining: true}, 5, 1)
	s.Estimates.Record(6, false)
	s.Estimates.Record(6, false)
	// Band 5 has six samples, band 6 only two.

	next, _, err := selectNext(s, DefaultConfig(), ix, allViable)
	if err != nil {
		t.Fatalf("selectNext: %v", err)
	}
	if next != 6 {
		t.Errorf("next = %d, want 6", next)
	}
}

func TestRefine_SubstitutesWhenFrontierExhausted(t *testing.T) {
	ix := tenBands(t)
	s := seekState(5, Staircase{Dir: 1, Step: 1, Refining: true}, 4, 0)
	s.Estimates.Record(6, false)

	noFrontier := func(id int) bool { return id != 5 && id != 6 }
	next, _, err := selectNext(s, DefaultConfig(), ix, noFrontier)
	if err != nil {
		t.Fatalf("selectNext: %v", err)
	}
	if next != 7 {
		t.Errorf("next = %d, want 7", next)
	}
}

func TestNearestViable(t *testing.T) {
	only := func(ids ...int) func(int) bool {
		set := make(map[int]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		return func(id int) bool { return set[id] }
	}

	got, err := nearestViable(5, 1, 1, 10, only(8))
	if err != nil || got != 8 {
		t.Errorf("nearestViable(5, +1) = %d, %v, want 8", got, err)
	}

	got, err = nearestViable(5, 1, 1, 10, only(3))
	if err != nil || got != 3 {
		t.Errorf("nearestViable(5, +1) with easier only = %d, %v, want 3", got, err)
	}

	got, err = nearestViable(5, -1, 1, 10, only(2, 9))
	if err != nil || got != 2 {
		t.Errorf("nearestViable(5, -1) = %d, %v, want 2", got, err)
	}

	if _, err = nearestViable(5, 1, 1, 10, only()); !errors.Is(err, ErrAllBandsExhausted) {
		t.Errorf("err = %v, want ErrAllBandsExhausted", err)
	}
}
