package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/store"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/vocab"
)

var importCmd = &cobra.Command{
	Use:   "import <workbook.xlsx>",
	Short: "Import a ranked word list into the inventory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := vocab.ReadXLSX(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		rows := make([]store.Word, 0, len(words))
		for _, w := range words {
			rows = append(rows, store.Word{
				Text:       w.Text,
				Rank:       w.Rank,
				Definition: w.Definition,
			})
		}

		stats, err := s.WordRepo().Upsert(cmd.Context(), rows)
		if err != nil {
			return fmt.Errorf("import words: %w", err)
		}

		fmt.Printf("Imported %d words: %d created, %d updated, %d skipped.\n",
			stats.Processed, stats.Created, stats.Updated, stats.Skipped)
		return nil
	},
}
