package api

import (
	"testing"
	"time"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/survey"
)

func TestRegistry_PutGet(t *testing.T) {
	r := newRegistry()
	now := time.Now().UTC()

	r.Put(&survey.State{ID: "s1"}, now)

	if _, ok := r.Get("s1", now); !ok {
		t.Error("registered session not found")
	}
	if _, ok := r.Get("s2", now); ok {
		t.Error("unknown session found")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistry_SweepEvictsIdle(t *testing.T) {
	r := newRegistry()
	now := time.Now().UTC()

	r.Put(&survey.State{ID: "stale"}, now.Add(-time.Hour))
	r.Put(&survey.State{ID: "fresh"}, now)

	evicted := r.SweepIdle(30*time.Minute, now)
	if evicted != 1 {
		t.Fatalf("evicted = %d, want 1", evicted)
	}
	if _, ok := r.Get("stale", now); ok {
		t.Error("idle session survived the sweep")
	}
	if _, ok := r.Get("fresh", now); !ok {
		t.Error("active session was evicted")
	}
}

func TestRegistry_SweepEvictsDone(t *testing.T) {
	r := newRegistry()
	now := time.Now().UTC()

	s := r.Put(&survey.State{ID: "finished"}, now)
	s.done.Store(true)

	// done sessions go regardless of how recently they were seen.
	if evicted := r.SweepIdle(time.Hour, now); evicted != 1 {
		t.Fatalf("evicted = %d, want 1", evicted)
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRegistry_GetRefreshesIdleClock(t *testing.T) {
	r := newRegistry()
	now := time.Now().UTC()

	r.Put(&survey.State{ID: "s1"}, now.Add(-time.Hour))

	// A lookup counts as activity, so the session is no longer idle.
	if _, ok := r.Get("s1", now); !ok {
		t.Fatal("session not found")
	}
	if evicted := r.SweepIdle(30*time.Minute, now); evicted != 0 {
		t.Errorf("evicted = %d, want 0 after a refreshing lookup", evicted)
	}
}

func TestSweeper_SweepEvictsCompleted(t *testing.T) {
	h, _ := testServer(t, nil, nil)
	sw := NewSweeper(h, time.Minute, time.Minute, nil)

	now := time.Now().UTC()
	sess := h.sessions.Put(&survey.State{ID: "done-1"}, now)
	sess.done.Store(true)
	h.sessions.Put(&survey.State{ID: "live-1"}, now)

	sw.sweep()

	if _, ok := h.sessions.Get("done-1", now); ok {
		t.Error("completed session survived the sweep")
	}
	if _, ok := h.sessions.Get("live-1", now); !ok {
		t.Error("live session was evicted")
	}
}

func TestSweeper_DefaultsApplied(t *testing.T) {
	h, _ := testServer(t, nil, nil)

	sw := NewSweeper(h, 0, 0, nil)
	if sw.ttl != DefaultIdleTTL {
		t.Errorf("ttl = %v, want %v", sw.ttl, DefaultIdleTTL)
	}
	if sw.every != DefaultSweepEvery {
		t.Errorf("every = %v, want %v", sw.every, DefaultSweepEvery)
	}
}
