package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/authoring"
)

var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Author missing distractor definitions via LLM",
	Long: "Author walks the word inventory and asks the configured LLM provider for\n" +
		"plausible-but-wrong definitions wherever a word has fewer curated distractors\n" +
		"than the target. Configure with LEXI_LLM_PROVIDER and the provider key vars.",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetInt("target")
		limit, _ := cmd.Flags().GetInt("limit")

		cfg := authoring.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			discovered, ok := authoring.DiscoverConfig()
			if !ok {
				return fmt.Errorf("no usable LLM configuration: %w", err)
			}
			cfg = discovered
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		provider, err := authoring.NewProvider(ctx, cfg, s.EventRepo())
		if err != nil {
			return fmt.Errorf("create provider: %w", err)
		}

		svc := authoring.NewService(provider, s.WordRepo(), authoring.DefaultServiceConfig())
		words, err := s.WordRepo().All(ctx)
		if err != nil {
			return fmt.Errorf("load word inventory: %w", err)
		}
		if len(words) == 0 {
			return errors.New("word inventory is empty; run `lexisurvey import` first")
		}

		authored := 0
		for _, w := range words {
			if limit > 0 && authored >= limit {
				break
			}
			have, err := s.WordRepo().DistractorCount(ctx, w.Text)
			if err != nil {
				return fmt.Errorf("count distractors for %q: %w", w.Text, err)
			}
			if have >= target {
				continue
			}

			ds, err := svc.AuthorDistractors(ctx, w.Text, w.Definition, target-have)
			if err != nil {
				return fmt.Errorf("author distractors for %q: %w", w.Text, err)
			}
			authored++
			fmt.Printf("%-20s  +%d distractors (model %s)\n", w.Text, len(ds), provider.ModelID())
		}

		if authored == 0 {
			fmt.Printf("Every word already has %d distractors.\n", target)
		} else {
			fmt.Printf("Authored distractors for %d words.\n", authored)
		}
		return nil
	},
}

func init() {
	authorCmd.Flags().Int("target", 3, "Curated distractors each word should have")
	authorCmd.Flags().Int("limit", 0, "Stop after authoring this many words (0 = no limit)")
}
