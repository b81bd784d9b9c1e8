package cmd

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate stored survey results",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		agg, err := s.SurveyRepo().Stats(ctx)
		if err != nil {
			return fmt.Errorf("aggregate surveys: %w", err)
		}

		fmt.Printf("Surveys:    %d total, %d completed\n", agg.Total, agg.Completed)
		if agg.Completed == 0 {
			return nil
		}
		fmt.Printf("Avg length: %.1f questions\n", agg.AvgLength)
		fmt.Printf("Avg density: %.2f\n", agg.AvgDensity)

		completed, err := s.SurveyRepo().Completed(ctx)
		if err != nil {
			return fmt.Errorf("load completed surveys: %w", err)
		}

		volumes := make([]float64, 0, len(completed))
		reachHist := make(map[int]int)
		for _, row := range completed {
			volumes = append(volumes, float64(row.Volume))
			reachHist[row.Reach]++
		}

		mean, err := stats.Mean(volumes)
		if err != nil {
			return fmt.Errorf("volume mean: %w", err)
		}
		median, err := stats.Median(volumes)
		if err != nil {
			return fmt.Errorf("volume median: %w", err)
		}
		p90, err := stats.Percentile(volumes, 90)
		if err != nil {
			return fmt.Errorf("volume p90: %w", err)
		}
		fmt.Printf("Volume:     mean %.0f, median %.0f, p90 %.0f\n", mean, median, p90)

		reaches := make([]int, 0, len(reachHist))
		for r := range reachHist {
			reaches = append(reaches, r)
		}
		sort.Ints(reaches)

		fmt.Println("Reach:")
		for _, r := range reaches {
			fmt.Printf("  band %2d  %d\n", r, reachHist[r])
		}

		totals, err := s.EventRepo().LLMTotals(ctx)
		if err != nil {
			return fmt.Errorf("aggregate LLM usage: %w", err)
		}
		if totals.Requests > 0 {
			fmt.Printf("Authoring:  %d LLM calls (%d failed), %d in / %d out tokens\n",
				totals.Requests, totals.Failures, totals.InputTokens, totals.OutputTokens)
		}
		return nil
	},
}
