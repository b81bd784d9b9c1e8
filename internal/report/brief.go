package report

import (
	"fmt"
	"strings"
)

// MarkdownBrief renders the report as a short human-readable markdown
// document, suitable for terminal display or HTML conversion.
func (r *TriMetric) MarkdownBrief() string {
	var b strings.Builder

	b.WriteString("# Vocabulary Survey Report\n\n")
	fmt.Fprintf(&b, "- **Volume**: ~%d known words\n", r.Volume)
	if r.Reach > 0 {
		fmt.Fprintf(&b, "- **Reach**: band %d\n", r.Reach)
	} else {
		b.WriteString("- **Reach**: below the first band\n")
	}
	fmt.Fprintf(&b, "- **Density**: %.0f%% correct in sampled bands\n", r.Density*100)
	fmt.Fprintf(&b, "- **Questions**: %d\n", r.Questions)

	if len(r.Bands) > 0 {
		b.WriteString("\n## Sampled bands\n\n")
		b.WriteString("| Band | Asked | Correct | Estimate | ±95% |\n")
		b.WriteString("|-----:|------:|--------:|---------:|-----:|\n")
		for _, s := range r.Bands {
			fmt.Fprintf(&b, "| %d | %d | %d | %.2f | %.2f |\n",
				s.BandID, s.Asked, s.Correct, s.P, s.HalfWidth)
		}
	}

	if r.Latency != nil {
		b.WriteString("\n## Response time\n\n")
		fmt.Fprintf(&b, "mean %.0f ms, median %.0f ms, p90 %.0f ms\n",
			r.Latency.MeanMs, r.Latency.MedianMs, r.Latency.P90Ms)
	}

	return b.String()
}
