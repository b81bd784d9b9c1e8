package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/band"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/store"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/survey"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/vocab"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run scripted survey sessions against a synthetic corpus",
	Long: "Simulate drives concurrent survey sessions with deterministic learner profiles.\n" +
		"Each simulated learner knows every word up to their frontier band and nothing\n" +
		"beyond it; identical flags reproduce identical reports.",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, _ := cmd.Flags().GetInt("sessions")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		bands, _ := cmd.Flags().GetInt("bands")
		perBand, _ := cmd.Flags().GetInt("band-words")
		baseSeed, _ := cmd.Flags().GetUint64("seed")
		persist, _ := cmd.Flags().GetBool("persist")

		if sessions < 1 {
			return fmt.Errorf("sessions must be >= 1, got %d", sessions)
		}

		engine, err := syntheticEngine(bands, perBand)
		if err != nil {
			return err
		}

		var surveys store.SurveyRepo
		if persist {
			s, err := openStore(cmd)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer s.Close()
			surveys = s.SurveyRepo()
		}

		results := make([]*survey.State, sessions)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(concurrency)

		for i := 0; i < sessions; i++ {
			g.Go(func() error {
				// Frontiers spread evenly across the band range so a batch
				// exercises every convergence target.
				known := 1 + i%bands
				st, err := runProfile(engine, baseSeed+uint64(i), i, known)
				if err != nil {
					return err
				}
				results[i] = st
				if surveys != nil {
					if err := persistSimulated(ctx, surveys, st); err != nil {
						return err
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Printf("%-14s  %-7s  %-9s  %-7s  %-8s  %-9s  %s\n",
			"LEARNER", "KNOWN", "QUESTIONS", "VOLUME", "REACH", "DENSITY", "STOP")
		for i, st := range results {
			r := st.Report
			fmt.Printf("%-14s  %-7d  %-9d  %-7d  %-8d  %-9.2f  %s\n",
				st.LearnerRef, 1+i%bands, r.Questions, r.Volume, r.Reach, r.Density, st.StopReason)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().Int("sessions", 10, "Number of sessions to run")
	simulateCmd.Flags().Int("concurrency", 4, "Sessions in flight at once")
	simulateCmd.Flags().Int("bands", 10, "Bands in the synthetic corpus")
	simulateCmd.Flags().Int("band-words", 50, "Words per synthetic band")
	simulateCmd.Flags().Uint64("seed", 1, "Base seed; session i uses seed+i")
	simulateCmd.Flags().Bool("persist", false, "Write completed surveys to the database")
}

// syntheticEngine builds an engine over a generated corpus where every
// rank r is the word "word<r>" defined as "definition of word<r>".
func syntheticEngine(bands, perBand int) (*survey.Engine, error) {
	words := make([]vocab.Word, 0, bands*perBand)
	for rank := 1; rank <= bands*perBand; rank++ {
		words = append(words, vocab.Word{
			Text:       fmt.Sprintf("word%04d", rank),
			Rank:       rank,
			Definition: fmt.Sprintf("definition of word%04d", rank),
		})
	}
	source, err := vocab.NewMemorySource(words, perBand)
	if err != nil {
		return nil, fmt.Errorf("build synthetic corpus: %w", err)
	}
	ix, err := band.NewUniformIndex(bands, perBand)
	if err != nil {
		return nil, fmt.Errorf("build band index: %w", err)
	}
	return survey.NewEngine(ix, source, survey.DefaultConfig())
}

// runProfile plays one scripted learner to completion: correct inside the
// known bands, "don't know" beyond them.
func runProfile(e *survey.Engine, seed uint64, ordinal, knownBands int) (*survey.State, error) {
	learner := "sim-" + strconv.Itoa(ordinal)
	st, q, err := e.StartSessionSeeded(learner, seed)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", learner, err)
	}

	for {
		sub := survey.Submission{QuestionID: q.ID, OptionIndex: -1, DontKnow: true}
		if q.BandID <= knownBands {
			sub = survey.Submission{QuestionID: q.ID, OptionIndex: q.CorrectIndex()}
		}
		res, err := e.SubmitAnswer(st, sub)
		if err != nil {
			return nil, fmt.Errorf("submit for %s: %w", learner, err)
		}
		if res.Report != nil {
			return st, nil
		}
		q = res.Next
	}
}

// persistSimulated writes a finished session the way the HTTP service
// does: the survey row, its answers, then the terminal metrics.
func persistSimulated(ctx context.Context, surveys store.SurveyRepo, st *survey.State) error {
	row := &store.SurveyRow{
		ID:         st.ID,
		LearnerRef: st.LearnerRef,
		Seed:       strconv.FormatUint(st.Seed, 10),
		Phase:      survey.PhaseInProgress.String(),
		StartedAt:  st.StartedAt,
	}
	if err := surveys.Create(ctx, row); err != nil {
		return fmt.Errorf("persist survey %s: %w", st.ID, err)
	}

	for _, ex := range st.History {
		if ex.Answer == nil {
			continue
		}
		a := &store.AnswerRow{
			SurveyID:   st.ID,
			QuestionID: ex.Question.ID,
			Word:       ex.Question.Word,
			BandID:     ex.Question.BandID,
			Correct:    ex.Correct,
			DontKnow:   ex.Answer.DontKnow,
			LatencyMs:  ex.Answer.LatencyMs,
			AnsweredAt: time.Now().UTC(),
		}
		if err := surveys.AppendAnswer(ctx, a); err != nil {
			return fmt.Errorf("persist answers for %s: %w", st.ID, err)
		}
	}

	raw, err := json.Marshal(st.Report)
	if err != nil {
		return fmt.Errorf("marshal report for %s: %w", st.ID, err)
	}
	c := store.SurveyCompletion{
		StopReason:  string(st.StopReason),
		Questions:   st.Report.Questions,
		Volume:      st.Report.Volume,
		Reach:       st.Report.Reach,
		Density:     st.Report.Density,
		Report:      raw,
		CompletedAt: st.CompletedAt,
	}
	if err := surveys.Complete(ctx, st.ID, c); err != nil {
		return fmt.Errorf("complete survey %s: %w", st.ID, err)
	}
	return nil
}
