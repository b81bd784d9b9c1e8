package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/api"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/band"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/store"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/survey"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/vocab"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the survey HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		bandSize, _ := cmd.Flags().GetInt("band-size")
		maxQuestions, _ := cmd.Flags().GetInt("max-questions")
		idleTTL, _ := cmd.Flags().GetDuration("idle-ttl")

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		engine, err := buildEngine(cmd.Context(), s, bandSize, maxQuestions)
		if err != nil {
			return err
		}

		h := api.NewHandler(engine, s.SurveyRepo(), s.ReviewRepo(), logger)
		sweeper := api.NewSweeper(h, idleTTL, api.DefaultSweepEvery, logger)
		sweeper.Start()
		defer sweeper.Stop()

		srv := &http.Server{
			Addr:              addr,
			Handler:           h.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			logger.Info("survey service listening", "addr", addr)
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			return fmt.Errorf("serve: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().Int("band-size", 1000, "Frequency ranks per band")
	serveCmd.Flags().Int("max-questions", survey.DefaultConfig().MaxQuestions, "Hard ceiling on questions per survey")
	serveCmd.Flags().Duration("idle-ttl", api.DefaultIdleTTL, "Evict in-progress surveys idle longer than this")
}

// buildEngine assembles a survey engine over the stored word inventory:
// the band index from the rank range, the vocab source from the words and
// their curated distractors.
func buildEngine(ctx context.Context, s *store.Store, bandSize, maxQuestions int) (*survey.Engine, error) {
	rows, err := s.WordRepo().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load word inventory: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("word inventory is empty; run `lexisurvey import` first")
	}

	words := store.ToVocabWords(rows)
	source, err := vocab.NewMemorySource(words, bandSize)
	if err != nil {
		return nil, fmt.Errorf("build vocab source: %w", err)
	}

	curated, err := s.WordRepo().DistractorsByWord(ctx)
	if err != nil {
		return nil, fmt.Errorf("load distractors: %w", err)
	}
	source.AddCurated(curated)

	// Rows are rank-ordered, so the last row carries the highest rank.
	ix, err := rankIndex(rows[len(rows)-1].Rank, bandSize)
	if err != nil {
		return nil, fmt.Errorf("build band index: %w", err)
	}

	cfg := survey.DefaultConfig()
	if maxQuestions > 0 {
		cfg.MaxQuestions = maxQuestions
	}
	return survey.NewEngine(ix, source, cfg)
}

// rankIndex partitions ranks 1..maxRank into bands of bandSize, with the
// last band truncated at maxRank so Volume never counts ranks that hold
// no words.
func rankIndex(maxRank, bandSize int) (*band.Index, error) {
	if maxRank < 1 || bandSize < 1 {
		return nil, fmt.Errorf("need maxRank and bandSize >= 1, got %d and %d", maxRank, bandSize)
	}
	n := (maxRank + bandSize - 1) / bandSize
	bands := make([]band.Band, 0, n)
	for i := 1; i <= n; i++ {
		hi := i * bandSize
		if hi > maxRank {
			hi = maxRank
		}
		bands = append(bands, band.Band{
			ID:       i,
			LowRank:  (i-1)*bandSize + 1,
			HighRank: hi,
		})
	}
	return band.NewIndex(bands)
}
