package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound marks lookups for rows that do not exist.
var ErrNotFound = errors.New("store: not found")

// Word is a row of the ranked word inventory.
type Word struct {
	ID         int64     `db:"id"`
	Text       string    `db:"text"`
	Rank       int       `db:"rank"`
	Definition string    `db:"definition"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ImportStats summarizes a word import.
type ImportStats struct {
	Processed int
	Created   int
	Updated   int
	Skipped   int
}

// WordRepo manages the ranked word inventory and its distractor pool.
type WordRepo interface {
	// Upsert inserts or refreshes words keyed by text.
	Upsert(ctx context.Context, words []Word) (ImportStats, error)

	// All returns the inventory ordered by ascending rank.
	All(ctx context.Context) ([]Word, error)

	// Count returns the inventory size.
	Count(ctx context.Context) (int, error)

	// AddDistractors stores curated wrong definitions for a word, skipping
	// ones already present. Returns the number actually inserted.
	AddDistractors(ctx context.Context, word string, definitions []string, source string) (int, error)

	// DistractorsByWord returns every word's curated distractors in
	// insertion order.
	DistractorsByWord(ctx context.Context) (map[string][]string, error)

	// DistractorCount returns the number of curated distractors for a word.
	DistractorCount(ctx context.Context, word string) (int, error)
}

// SurveyRow is the persisted record of a survey session.
type SurveyRow struct {
	ID          string       `db:"id"`
	LearnerRef  string       `db:"learner_ref"`
	Seed        string       `db:"seed"`
	Phase       string       `db:"phase"`
	StopReason  string       `db:"stop_reason"`
	Questions   int          `db:"questions"`
	Volume      int          `db:"volume"`
	Reach       int          `db:"reach"`
	Density     float64      `db:"density"`
	Report      []byte       `db:"report"`
	StartedAt   time.Time    `db:"started_at"`
	CompletedAt sql.NullTime `db:"completed_at"`
}

// AnswerRow is one answered question of a survey.
type AnswerRow struct {
	ID         int64     `db:"id"`
	SurveyID   string    `db:"survey_id"`
	QuestionID string    `db:"question_id"`
	Word       string    `db:"word"`
	BandID     int       `db:"band_id"`
	Correct    bool      `db:"correct"`
	DontKnow   bool      `db:"dont_know"`
	LatencyMs  float64   `db:"latency_ms"`
	AnsweredAt time.Time `db:"answered_at"`
}

// SurveyCompletion carries the terminal values written when a survey
// finishes. Report holds the serialized TriMetric.
type SurveyCompletion struct {
	StopReason  string
	Questions   int
	Volume      int
	Reach       int
	Density     float64
	Report      []byte
	CompletedAt time.Time
}

// SurveyStats aggregates completed surveys for reporting.
type SurveyStats struct {
	Total      int     `db:"total"`
	Completed  int     `db:"completed"`
	AvgVolume  float64 `db:"avg_volume"`
	AvgReach   float64 `db:"avg_reach"`
	AvgDensity float64 `db:"avg_density"`
	AvgLength  float64 `db:"avg_length"`
}

// SurveyRepo persists survey sessions and their answers.
type SurveyRepo interface {
	// Create stores a new in-progress survey.
	Create(ctx context.Context, row *SurveyRow) error

	// AppendAnswer records one answered question.
	AppendAnswer(ctx context.Context, row *AnswerRow) error

	// Complete seals a survey with its terminal metrics.
	Complete(ctx context.Context, id string, c SurveyCompletion) error

	// Get returns a survey by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*SurveyRow, error)

	// Answers returns a survey's answers in submission order.
	Answers(ctx context.Context, id string) ([]AnswerRow, error)

	// ListRecent returns a learner's surveys, newest first.
	ListRecent(ctx context.Context, learnerRef string, limit int) ([]SurveyRow, error)

	// Stats aggregates across all stored surveys.
	Stats(ctx context.Context) (*SurveyStats, error)

	// Completed returns every completed survey, oldest first.
	Completed(ctx context.Context) ([]SurveyRow, error)

	// DeleteAll wipes surveys and their answers.
	DeleteAll(ctx context.Context) error
}

// ReviewRow is a spaced-repetition schedule entry for one word.
type ReviewRow struct {
	ID           int64        `db:"id"`
	LearnerRef   string       `db:"learner_ref"`
	Word         string       `db:"word"`
	BandID       int          `db:"band_id"`
	Ease         float64      `db:"ease"`
	IntervalDays int          `db:"interval_days"`
	Repetition   int          `db:"repetition"`
	DueAt        time.Time    `db:"due_at"`
	ReviewedAt   sql.NullTime `db:"reviewed_at"`
}

// ReviewRepo persists spaced-repetition schedules.
type ReviewRepo interface {
	// Schedule inserts or replaces the entry for (learner, word).
	Schedule(ctx context.Context, row *ReviewRow) error

	// Due returns entries due at or before now, soonest first.
	Due(ctx context.Context, learnerRef string, now time.Time, limit int) ([]ReviewRow, error)

	// Get returns the entry for (learner, word), or ErrNotFound.
	Get(ctx context.Context, learnerRef, word string) (*ReviewRow, error)

	// Count returns the number of scheduled entries for a learner.
	Count(ctx context.Context, learnerRef string) (int, error)

	// DeleteAll wipes every review schedule.
	DeleteAll(ctx context.Context) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMTotals aggregates recorded LLM usage.
type LLMTotals struct {
	Requests     int   `db:"requests"`
	Failures     int   `db:"failures"`
	InputTokens  int64 `db:"input_tokens"`
	OutputTokens int64 `db:"output_tokens"`
}

// LLMModelUsage aggregates recorded usage for one model.
type LLMModelUsage struct {
	Model        string `db:"model"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
}

// EventRepo provides append access to LLM usage events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMTotals aggregates all recorded events.
	LLMTotals(ctx context.Context) (*LLMTotals, error)

	// LLMUsageByModel groups recorded usage per model, busiest first.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
