// Package estimator maintains the per-band probability-of-knowledge
// estimates that drive band selection, stopping, and the final report.
// Each answer is a Bernoulli observation against the band the question was
// drawn from.
package estimator

import (
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// NeutralPrior is the point estimate assigned to a band before any
	// observation arrives. A band with no data does not inherit from its
	// neighbors; it starts neutral.
	NeutralPrior = 0.5

	// MaxHalfWidth is the confidence half-width at zero observations.
	MaxHalfWidth = 0.5

	// jeffreys is the prior pseudo-count added to each Bernoulli outcome.
	jeffreys = 0.5

	// confidenceLevel is the mass of the central credible interval.
	confidenceLevel = 0.95
)

// BandEstimate holds the knowledge estimate for a single band.
// Created lazily when the first question is issued for the band, mutated
// only by the estimator Service, never deleted during a session.
type BandEstimate struct {
	BandID  int
	Asked   int
	Correct int

	// P is the point estimate of the probability that the learner knows a
	// random word in this band: the running average Correct/Asked, or
	// NeutralPrior before any observation.
	P float64

	// HalfWidth is half the central 95% credible interval of the Jeffreys
	// posterior over P. MaxHalfWidth at zero observations, shrinking on
	// the order of 1/sqrt(n) as observations accumulate.
	HalfWidth float64
}

// newBandEstimate returns the zero-observation estimate for a band.
func newBandEstimate(bandID int) *BandEstimate {
	return &BandEstimate{
		BandID:    bandID,
		P:         NeutralPrior,
		HalfWidth: MaxHalfWidth,
	}
}

// record absorbs one Bernoulli observation and recomputes the estimate.
func (e *BandEstimate) record(correct bool) {
	e.Asked++
	if correct {
		e.Correct++
	}
	e.P = float64(e.Correct) / float64(e.Asked)
	e.HalfWidth = halfWidth(e.Correct, e.Asked-e.Correct)
}

// halfWidth computes half the central credible interval of the Jeffreys
// posterior Beta(0.5+correct, 0.5+wrong). An all-wrong band degenerates
// toward zero while its width keeps shrinking, so a confidently-unknown
// band never blocks termination.
func halfWidth(correct, wrong int) float64 {
	if correct+wrong == 0 {
		return MaxHalfWidth
	}
	post := distuv.Beta{
		Alpha: jeffreys + float64(correct),
		Beta:  jeffreys + float64(wrong),
	}
	tail := (1 - confidenceLevel) / 2
	lo := post.Quantile(tail)
	hi := post.Quantile(1 - tail)
	w := (hi - lo) / 2
	if w > MaxHalfWidth {
		w = MaxHalfWidth
	}
	return w
}
