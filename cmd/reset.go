package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all learner data (surveys, answers, reviews)",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to delete learner data without --yes")
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		if err := s.SurveyRepo().DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete surveys: %w", err)
		}
		if err := s.ReviewRepo().DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}

		fmt.Println("Learner data deleted. The word inventory is untouched.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
