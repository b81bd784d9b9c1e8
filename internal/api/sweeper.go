package api

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper periodically evicts stale sessions from a handler's registry:
// completed surveys whose report has been persisted, and in-progress
// surveys idle past the TTL. An abandoned browser tab must not pin its
// session forever.
type Sweeper struct {
	scheduler *gocron.Scheduler
	handler   *Handler
	ttl       time.Duration
	every     time.Duration
	logger    *slog.Logger
}

// NewSweeper creates a sweeper over the handler's session registry.
// Non-positive durations fall back to the defaults.
func NewSweeper(h *Handler, ttl, every time.Duration, logger *slog.Logger) *Sweeper {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	if every <= 0 {
		every = DefaultSweepEvery
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		handler:   h,
		ttl:       ttl,
		every:     every,
		logger:    logger,
	}
}

// Start begins the sweep cadence in the background.
func (s *Sweeper) Start() {
	s.scheduler.Every(s.every).Do(s.sweep)
	s.scheduler.StartAsync()
}

// Stop terminates the sweep cadence.
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

func (s *Sweeper) sweep() {
	evicted := s.handler.sessions.SweepIdle(s.ttl, time.Now().UTC())
	if evicted > 0 {
		s.logger.Info("swept stale sessions",
			"evicted", evicted,
			"live", s.handler.sessions.Len(),
		)
	}
}
