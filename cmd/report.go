package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/report"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report <survey-id>",
	Short: "Print the stored report of a completed survey",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asHTML, _ := cmd.Flags().GetBool("html")
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		row, err := s.SurveyRepo().Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("survey %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("get survey: %w", err)
		}
		if len(row.Report) == 0 {
			return fmt.Errorf("survey %s has not completed", args[0])
		}

		var r report.TriMetric
		if err := json.Unmarshal(row.Report, &r); err != nil {
			return fmt.Errorf("decode stored report: %w", err)
		}

		switch {
		case asJSON:
			out, err := json.MarshalIndent(&r, "", "  ")
			if err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			fmt.Println(string(out))
		case asHTML:
			os.Stdout.Write(r.HTMLBrief())
		default:
			fmt.Print(r.MarkdownBrief())
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().Bool("html", false, "Render the brief as HTML")
	reportCmd.Flags().Bool("json", false, "Print the raw report JSON")
}
