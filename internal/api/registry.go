package api

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/survey"
)

// session is one live survey and its serialization lock. Handlers hold
// mu for the whole of a state-touching request, so concurrent
// submissions to the same survey take turns; whichever loses the race
// then fails validation against the already-answered question.
type session struct {
	mu    sync.Mutex
	state *survey.State

	// lastSeen is the unix-nano time of the latest request. Read by the
	// sweeper without taking mu.
	lastSeen atomic.Int64

	// done marks the survey completed with its report persisted. The
	// next sweep evicts it.
	done atomic.Bool
}

// registry is the in-memory session table. The registry lock only
// guards the map; per-session work happens under each session's own
// mutex, never while holding the registry lock.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*session)}
}

// Put registers a freshly started survey.
func (r *registry) Put(st *survey.State, now time.Time) *session {
	s := &session{state: st}
	s.lastSeen.Store(now.UnixNano())

	r.mu.Lock()
	r.sessions[st.ID] = s
	r.mu.Unlock()
	return s
}

// Get looks up a live session and refreshes its idle clock.
func (r *registry) Get(id string, now time.Time) (*session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.lastSeen.Store(now.UnixNano())
	}
	return s, ok
}

// Len returns the number of live sessions.
func (r *registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SweepIdle evicts sessions that are done or have been idle for at
// least ttl, returning how many were removed. A request that raced the
// sweep keeps its session pointer and completes normally; only later
// lookups miss.
func (r *registry) SweepIdle(ttl time.Duration, now time.Time) int {
	cutoff := now.Add(-ttl).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if s.done.Load() || s.lastSeen.Load() <= cutoff {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}
