package survey

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/band"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/estimator"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/question"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/report"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/vocab"
)

// ErrInvalidSubmission rejects an answer that does not reference the
// outstanding question of an in-progress survey. Rejection leaves the
// session state untouched.
var ErrInvalidSubmission = errors.New("invalid submission")

// Engine administers adaptive vocabulary surveys. The engine itself is
// stateless across sessions and safe for concurrent use; each State must
// only be touched by one goroutine at a time.
type Engine struct {
	index *band.Index
	gen   *question.Generator
	cfg   Config
}

// NewEngine wires a band index and a word source into a survey engine.
func NewEngine(ix *band.Index, source vocab.Source, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ix == nil {
		return nil, errors.New("nil band index")
	}
	return &Engine{
		index: ix,
		gen:   question.NewGenerator(source, cfg.Options),
		cfg:   cfg,
	}, nil
}

// Config returns the engine's tuning.
func (e *Engine) Config() Config {
	return e.cfg
}

// TurnResult is the outcome of one submitted answer: either the next
// question or, on the final turn, the completed report.
type TurnResult struct {
	// Correct reports how the submitted answer was scored.
	Correct bool

	// Next is the next question. Nil on the final turn.
	Next *question.Payload

	// Report is the TriMetric, set only when the survey completed.
	Report *report.TriMetric

	// Stop names the termination clause when Report is set.
	Stop StopReason
}

// StartSession opens a survey for a learner and issues the first
// question from the middle of the band index.
func (e *Engine) StartSession(learnerRef string) (*State, *question.Payload, error) {
	return e.StartSessionSeeded(learnerRef, randomSeed())
}

// StartSessionSeeded is StartSession with a caller-chosen seed, for
// reproducible runs.
func (e *Engine) StartSessionSeeded(learnerRef string, seed uint64) (*State, *question.Payload, error) {
	s := &State{
		ID:         uuid.NewString(),
		LearnerRef: learnerRef,
		Seed:       seed,
		Phase:      PhaseInProgress,
		Estimates:  estimator.NewService(),
		Used:       make(map[string]bool),
		Staircase:  NewStaircase(e.index.NumBands()),
		StartedAt:  time.Now().UTC(),
	}

	lo, hi := e.index.First(), e.index.Last()
	first, err := nearestViable(lo+(hi-lo)/2, 1, lo, hi, e.viableFn(s))
	if err != nil {
		return nil, nil, fmt.Errorf("start session: %w", err)
	}
	q, err := e.issue(s, first)
	if err != nil {
		return nil, nil, fmt.Errorf("start session: %w", err)
	}
	return s, q, nil
}

// SubmitAnswer scores the submission against the outstanding question,
// updates the band estimate, and either issues the next question or
// completes the survey with its report. The state is mutated in place,
// except when the submission is rejected.
func (e *Engine) SubmitAnswer(s *State, sub Submission) (*TurnResult, error) {
	if s.Terminal() {
		return nil, fmt.Errorf("%w: survey already completed", ErrInvalidSubmission)
	}
	out := s.Outstanding()
	if out == nil {
		return nil, fmt.Errorf("%w: no outstanding question", ErrInvalidSubmission)
	}
	if sub.QuestionID != out.Question.ID {
		return nil, fmt.Errorf("%w: question %q is not the outstanding question", ErrInvalidSubmission, sub.QuestionID)
	}
	if !sub.DontKnow && (sub.OptionIndex < 0 || sub.OptionIndex >= len(out.Question.Options)) {
		return nil, fmt.Errorf("%w: option index %d out of range", ErrInvalidSubmission, sub.OptionIndex)
	}

	correct := !sub.DontKnow && out.Question.Options[sub.OptionIndex].Correct
	out.Answer = &sub
	out.Correct = correct
	s.Estimates.Record(out.Question.BandID, correct)
	updatePrecision(s, e.cfg, e.index.First())

	if reason := shouldStop(s, e.cfg, e.anyViable(s)); reason != StopNone {
		return e.complete(s, reason)
	}

	next, st, err := selectNext(s, e.cfg, e.index, e.viableFn(s))
	if err != nil {
		if errors.Is(err, ErrAllBandsExhausted) {
			return e.complete(s, StopExhausted)
		}
		return nil, err
	}
	s.Staircase = st

	q, err := e.issue(s, next)
	if err != nil {
		return nil, err
	}
	return &TurnResult{Correct: correct, Next: q}, nil
}

// issue generates the next question for the band and appends it to the
// session history.
func (e *Engine) issue(s *State, bandID int) (*question.Payload, error) {
	s.Counter++
	q, err := e.gen.Generate(question.Input{
		BandID:  bandID,
		Seed:    s.Seed,
		Counter: s.Counter,
		Used:    s.Used,
	})
	if err != nil {
		s.Counter--
		return nil, fmt.Errorf("issue question for band %d: %w", bandID, err)
	}

	s.Estimates.Ensure(bandID)
	s.Used[q.Word] = true
	s.CurrentBand = bandID
	s.History = append(s.History, Exchange{Question: q, AskedAt: time.Now().UTC()})
	return &q, nil
}

// complete seals the session and derives its report.
func (e *Engine) complete(s *State, reason StopReason) (*TurnResult, error) {
	rep, err := report.Compute(s.Estimates, e.index, e.cfg.ReachThreshold, s.Latencies())
	if err != nil {
		return nil, fmt.Errorf("compute report: %w", err)
	}

	s.Phase = PhaseCompleted
	s.StopReason = reason
	s.Report = rep
	s.CompletedAt = time.Now().UTC()

	last := s.History[len(s.History)-1]
	return &TurnResult{Correct: last.Correct, Report: rep, Stop: reason}, nil
}

// viableFn closes over a session's used words for band viability checks.
func (e *Engine) viableFn(s *State) func(int) bool {
	return func(id int) bool {
		return e.gen.Remaining(id, s.Used) > 0
	}
}

func (e *Engine) anyViable(s *State) bool {
	for id := e.index.First(); id <= e.index.Last(); id++ {
		if e.gen.Remaining(id, s.Used) > 0 {
			return true
		}
	}
	return false
}

func randomSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}
