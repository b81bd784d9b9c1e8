package survey

import (
	"time"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/estimator"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/question"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/report"
)

// Phase tracks the survey lifecycle. Completed is terminal; a session
// never leaves it.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Submission is a learner's answer to the outstanding question.
type Submission struct {
	// QuestionID must match the most recently issued, unanswered
	// question of the session.
	QuestionID string `json:"question_id"`

	// OptionIndex is the selected option. Ignored when DontKnow is set.
	OptionIndex int `json:"option_index"`

	// DontKnow marks an explicit "I don't know this word" answer. It is
	// scored as incorrect.
	DontKnow bool `json:"dont_know,omitempty"`

	// LatencyMs is the learner's response time in milliseconds. It is
	// advisory: reported in the final summary, never used for scoring
	// or band selection.
	LatencyMs float64 `json:"latency_ms,omitempty"`
}

// Exchange is one question/answer pair in the session history.
type Exchange struct {
	Question question.Payload `json:"question"`

	// Answer is nil while the question is outstanding.
	Answer *Submission `json:"answer,omitempty"`

	// Correct records the scoring of Answer.
	Correct bool `json:"correct"`

	AskedAt time.Time `json:"asked_at"`
}

// State is the full mutable state of one survey session. It is not safe
// for concurrent use; callers must serialize access per session.
// Distinct sessions are independent.
type State struct {
	// ID identifies the session.
	ID string

	// LearnerRef is the opaque learner identifier supplied at start.
	LearnerRef string

	// Seed drives every random draw of the session. Replaying a seed
	// with the same answer sequence reproduces the same questions.
	Seed uint64

	// Phase is the lifecycle position.
	Phase Phase

	// Counter counts issued questions. It equals len(History) at every
	// point in the session.
	Counter uint64

	// History is the append-only record of issued questions and their
	// answers, in issue order.
	History []Exchange

	// Estimates holds the per-band knowledge estimates, created lazily
	// as bands receive their first question.
	Estimates *estimator.Service

	// Used records the words already administered, keyed by word text.
	Used map[string]bool

	// Staircase is the band-selection state.
	Staircase Staircase

	// CurrentBand is the band of the outstanding question.
	CurrentBand int

	// StopReason names the termination clause once the survey completes.
	StopReason StopReason

	// Report is the final TriMetric, set on completion.
	Report *report.TriMetric

	StartedAt   time.Time
	CompletedAt time.Time
}

// Terminal reports whether the survey accepts no further answers.
func (s *State) Terminal() bool {
	return s.Phase == PhaseCompleted
}

// Outstanding returns the issued-but-unanswered question, or nil when
// every issued question has been answered.
func (s *State) Outstanding() *Exchange {
	if len(s.History) == 0 {
		return nil
	}
	last := &s.History[len(s.History)-1]
	if last.Answer != nil {
		return nil
	}
	return last
}

// Latencies returns the reported response times of answered questions in
// submission order. Answers that carried no latency are skipped.
func (s *State) Latencies() []float64 {
	var out []float64
	for _, ex := range s.History {
		if ex.Answer != nil && ex.Answer.LatencyMs > 0 {
			out = append(out, ex.Answer.LatencyMs)
		}
	}
	return out
}
