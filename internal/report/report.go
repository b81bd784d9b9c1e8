// Package report derives the TriMetricReport from a finished survey:
// Volume (estimated known-word count), Reach (the frontier band), and
// Density (answer consistency). The report is computed once at termination
// and never mutated afterward.
package report

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/band"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/estimator"
)

// BandStat is the per-band view included in the report.
type BandStat struct {
	BandID    int     `json:"band_id"`
	Asked     int     `json:"asked"`
	Correct   int     `json:"correct"`
	P         float64 `json:"p"`
	HalfWidth float64 `json:"half_width"`
}

// LatencySummary aggregates the advisory response latencies of a session.
type LatencySummary struct {
	MeanMs   float64 `json:"mean_ms"`
	MedianMs float64 `json:"median_ms"`
	P90Ms    float64 `json:"p90_ms"`
}

// TriMetric is the final survey output. It carries point estimates only;
// residual uncertainty is implicit in how much evidence was gathered.
type TriMetric struct {
	// Volume is the estimated total count of known words, extrapolated
	// from per-band knowledge probabilities times band sizes.
	Volume int `json:"volume"`

	// Reach is the highest band whose sampled knowledge estimate exceeds
	// the threshold: the frontier of the learner's vocabulary. Zero when
	// no sampled band clears the threshold.
	Reach int `json:"reach"`

	// Density is the ratio of correct answers to questions asked within
	// the bands actually sampled, in [0, 1].
	Density float64 `json:"density"`

	// Questions is the number of questions administered.
	Questions int `json:"questions"`

	// Bands lists the sampled bands in ascending order.
	Bands []BandStat `json:"bands"`

	// Latency summarizes response times when submissions carried them.
	// Nil when no latency was reported.
	Latency *LatencySummary `json:"latency,omitempty"`
}

// Compute derives the TriMetric from the final per-band estimates.
// latenciesMs holds the advisory response times of the answered questions,
// in submission order; it may be empty.
func Compute(est *estimator.Service, ix *band.Index, threshold float64, latenciesMs []float64) (*TriMetric, error) {
	asked, correct := est.Totals()

	r := &TriMetric{
		Reach:     est.HighestAbove(threshold),
		Questions: asked,
	}
	if asked > 0 {
		r.Density = float64(correct) / float64(asked)
	}

	for _, id := range est.SampledBands() {
		e, err := est.Estimate(id)
		if err != nil {
			return nil, fmt.Errorf("read estimate for band %d: %w", id, err)
		}
		r.Bands = append(r.Bands, BandStat{
			BandID:    id,
			Asked:     e.Asked,
			Correct:   e.Correct,
			P:         e.P,
			HalfWidth: e.HalfWidth,
		})
	}

	r.Volume = volume(r.Bands, ix)

	if len(latenciesMs) > 0 {
		ls, err := summarizeLatency(latenciesMs)
		if err != nil {
			return nil, fmt.Errorf("summarize latency: %w", err)
		}
		r.Latency = ls
	}

	return r, nil
}

// volume extrapolates the known-word count across the full index. Sampled
// bands contribute their observed estimate; an unsampled band interpolates
// linearly between its nearest sampled neighbors, or takes the nearest
// sampled estimate when it has neighbors on one side only.
func volume(sampled []BandStat, ix *band.Index) int {
	if len(sampled) == 0 {
		return 0
	}

	total := 0.0
	for _, b := range ix.Bands() {
		total += bandProbability(b.ID, sampled) * float64(b.Size())
	}

	v := int(math.Round(total))
	if v < 0 {
		v = 0
	}
	if max := ix.TotalWords(); v > max {
		v = max
	}
	return v
}

// bandProbability returns the extrapolated knowledge probability for a
// band given the sampled band stats in ascending ID order.
func bandProbability(id int, sampled []BandStat) float64 {
	// Nearest sampled band at or below, and at or above.
	var lower, upper *BandStat
	for i := range sampled {
		s := &sampled[i]
		if s.BandID <= id {
			lower = s
		}
		if s.BandID >= id && upper == nil {
			upper = s
		}
	}

	switch {
	case lower != nil && lower.BandID == id:
		return lower.P
	case lower == nil:
		return upper.P
	case upper == nil:
		return lower.P
	default:
		span := float64(upper.BandID - lower.BandID)
		frac := float64(id-lower.BandID) / span
		return lower.P + (upper.P-lower.P)*frac
	}
}

func summarizeLatency(ms []float64) (*LatencySummary, error) {
	mean, err := stats.Mean(ms)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(ms)
	if err != nil {
		return nil, err
	}
	p90, err := stats.Percentile(ms, 90)
	if err != nil {
		return nil, err
	}
	return &LatencySummary{MeanMs: mean, MedianMs: median, P90Ms: p90}, nil
}
