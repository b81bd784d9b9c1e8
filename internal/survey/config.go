// Package survey orchestrates adaptive vocabulary surveys: it issues
// multiple-choice recognition questions, walks a staircase across the
// frequency bands in response to the answers, and stops once the
// learner's vocabulary frontier is located precisely enough.
package survey

import (
	"fmt"
	"strings"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/estimator"
)

// Config tunes a survey engine. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// Options is the number of choices per question, correct definition
	// included.
	Options int

	// MaxQuestions caps the session length regardless of precision.
	MaxQuestions int

	// PrecisionTarget is the confidence half-width the frontier estimate
	// must stay under before the survey may stop early.
	PrecisionTarget float64

	// ReachThreshold is the knowledge probability a band must exceed to
	// count as known territory.
	ReachThreshold float64
}

// DefaultConfig returns the tuning used by the product: four options per
// question, a 30 question ceiling, and a frontier precision that a
// handful of refinement probes can reach.
func DefaultConfig() Config {
	return Config{
		Options:         4,
		MaxQuestions:    30,
		PrecisionTarget: 0.22,
		ReachThreshold:  0.5,
	}
}

// Validate checks the configuration for values the engine cannot run
// with, reporting every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Options < 2 {
		problems = append(problems, fmt.Sprintf("options must be at least 2, got %d", c.Options))
	}
	if c.MaxQuestions < 1 {
		problems = append(problems, fmt.Sprintf("max questions must be positive, got %d", c.MaxQuestions))
	}
	if c.PrecisionTarget <= 0 || c.PrecisionTarget > estimator.MaxHalfWidth {
		problems = append(problems, fmt.Sprintf("precision target must be in (0, %g], got %g",
			estimator.MaxHalfWidth, c.PrecisionTarget))
	}
	if c.ReachThreshold <= 0 || c.ReachThreshold >= 1 {
		problems = append(problems, fmt.Sprintf("reach threshold must be in (0, 1), got %g", c.ReachThreshold))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid survey config: %s", strings.Join(problems, "; "))
	}
	return nil
}
