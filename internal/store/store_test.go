package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
	if s.Driver() != DriverSQLite {
		t.Errorf("driver = %q, want %q", s.Driver(), DriverSQLite)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "dsn"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is only checked with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"words", "distractors", "surveys", "answers", "reviews", "llm_events"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
			continue
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestWordUpsert(t *testing.T) {
	s := openTestStore(t)
	repo := s.WordRepo()
	ctx := context.Background()

	first := []Word{
		{Text: "the", Rank: 1, Definition: "definite article"},
		{Text: "be", Rank: 2, Definition: "to exist"},
	}
	stats, err := repo.Upsert(ctx, first)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if stats.Created != 2 || stats.Updated != 0 || stats.Skipped != 0 {
		t.Errorf("stats = %+v, want 2 created", stats)
	}

	// Re-import with one changed definition.
	second := []Word{
		{Text: "the", Rank: 1, Definition: "definite article"},
		{Text: "be", Rank: 2, Definition: "to exist or live"},
		{Text: "of", Rank: 3, Definition: "belonging to"},
	}
	stats, err = repo.Upsert(ctx, second)
	if err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	if stats.Created != 1 || stats.Updated != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 created, 1 updated, 1 skipped", stats)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestWordAllOrderedByRank(t *testing.T) {
	s := openTestStore(t)
	repo := s.WordRepo()
	ctx := context.Background()

	_, err := repo.Upsert(ctx, []Word{
		{Text: "of", Rank: 3, Definition: "belonging to"},
		{Text: "the", Rank: 1, Definition: "definite article"},
		{Text: "be", Rank: 2, Definition: "to exist"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	words, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("len = %d, want 3", len(words))
	}
	for i, want := range []string{"the", "be", "of"} {
		if words[i].Text != want {
			t.Errorf("words[%d] = %q, want %q", i, words[i].Text, want)
		}
	}

	vw := ToVocabWords(words)
	if len(vw) != 3 || vw[0].Rank != 1 || vw[0].Text != "the" {
		t.Errorf("ToVocabWords = %+v, want rank-ordered copy", vw)
	}
}

func TestDistractorPool(t *testing.T) {
	s := openTestStore(t)
	repo := s.WordRepo()
	ctx := context.Background()

	added, err := repo.AddDistractors(ctx, "estuary", []string{
		"a shallow dish used for serving food",
		"a narrow strip of land between two rivers",
	}, "llm:test")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	// Re-adding one existing and one new definition inserts only the new one.
	added, err = repo.AddDistractors(ctx, "estuary", []string{
		"a shallow dish used for serving food",
		"to speak quickly and indistinctly",
	}, "llm:test")
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1 after dedupe", added)
	}

	n, err := repo.DistractorCount(ctx, "estuary")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}

	if _, err := repo.AddDistractors(ctx, "lucid", []string{"easily bent"}, "manual"); err != nil {
		t.Fatalf("add second word: %v", err)
	}

	byWord, err := repo.DistractorsByWord(ctx)
	if err != nil {
		t.Fatalf("by word: %v", err)
	}
	if len(byWord) != 2 {
		t.Fatalf("words with distractors = %d, want 2", len(byWord))
	}
	if len(byWord["estuary"]) != 3 {
		t.Errorf("estuary distractors = %d, want 3", len(byWord["estuary"]))
	}
	if byWord["estuary"][0] != "a shallow dish used for serving food" {
		t.Errorf("insertion order lost: %q first", byWord["estuary"][0])
	}
}

func TestSurveyLifecycle(t *testing.T) {
	s := openTestStore(t)
	repo := s.SurveyRepo()
	ctx := context.Background()

	started := time.Now().UTC()
	row := &SurveyRow{
		ID:         "svy-1",
		LearnerRef: "learner-1",
		Seed:       "12345",
		Phase:      "in_progress",
		StartedAt:  started,
	}
	if err := repo.Create(ctx, row); err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 3; i++ {
		err := repo.AppendAnswer(ctx, &AnswerRow{
			SurveyID:   "svy-1",
			QuestionID: fmt.Sprintf("q%d", i+1),
			Word:       fmt.Sprintf("word%d", i+1),
			BandID:     5,
			Correct:    i%2 == 0,
			LatencyMs:  1200,
			AnsweredAt: started.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append answer %d: %v", i, err)
		}
	}

	reportJSON, _ := json.Marshal(map[string]int{"volume": 4200})
	err := repo.Complete(ctx, "svy-1", SurveyCompletion{
		StopReason:  "precision",
		Questions:   3,
		Volume:      4200,
		Reach:       5,
		Density:     0.66,
		Report:      reportJSON,
		CompletedAt: started.Add(5 * time.Minute),
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, err := repo.Get(ctx, "svy-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Phase != "completed" || got.StopReason != "precision" {
		t.Errorf("phase = %q, stop = %q, want completed/precision", got.Phase, got.StopReason)
	}
	if got.Volume != 4200 || got.Reach != 5 {
		t.Errorf("volume = %d, reach = %d, want 4200 and 5", got.Volume, got.Reach)
	}
	if !got.CompletedAt.Valid {
		t.Error("completed_at not set")
	}
	if len(got.Report) == 0 {
		t.Error("report JSON not stored")
	}

	answers, err := repo.Answers(ctx, "svy-1")
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(answers) != 3 {
		t.Fatalf("answers = %d, want 3", len(answers))
	}
	if answers[0].QuestionID != "q1" || answers[2].QuestionID != "q3" {
		t.Errorf("answers out of order: %q ... %q", answers[0].QuestionID, answers[2].QuestionID)
	}
}

func TestSurveyGetMissing(t *testing.T) {
	s := openTestStore(t)
	repo := s.SurveyRepo()

	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	err = repo.Complete(context.Background(), "nope", SurveyCompletion{CompletedAt: time.Now()})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("complete err = %v, want ErrNotFound", err)
	}
}

func TestSurveyStatsAndReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.SurveyRepo()
	ctx := context.Background()

	started := time.Now().UTC()
	for i, id := range []string{"a", "b", "c"} {
		err := repo.Create(ctx, &SurveyRow{
			ID: id, LearnerRef: "learner-1", Seed: "1", Phase: "in_progress",
			StartedAt: started.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	for _, c := range []struct {
		id     string
		volume int
	}{{"a", 1000}, {"b", 3000}} {
		err := repo.Complete(ctx, c.id, SurveyCompletion{
			StopReason: "ceiling", Questions: 20, Volume: c.volume, Reach: 4,
			Density: 0.5, CompletedAt: started.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("complete %s: %v", c.id, err)
		}
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Completed != 2 {
		t.Errorf("total = %d, completed = %d, want 3 and 2", stats.Total, stats.Completed)
	}
	if stats.AvgVolume != 2000 {
		t.Errorf("avg volume = %f, want 2000", stats.AvgVolume)
	}

	completed, err := repo.Completed(ctx)
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if len(completed) != 2 {
		t.Fatalf("completed = %d rows, want 2", len(completed))
	}

	recent, err := repo.ListRecent(ctx, "learner-1", 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "c" {
		t.Errorf("recent = %+v, want newest first, limit 2", recent)
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	stats, err = repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats after reset: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("total after reset = %d, want 0", stats.Total)
	}
}

func TestReviewScheduleAndDue(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReviewRepo()
	ctx := context.Background()

	now := time.Now().UTC()
	entries := []ReviewRow{
		{LearnerRef: "learner-1", Word: "ephemeral", BandID: 7, Ease: 2.5, IntervalDays: 1, Repetition: 1, DueAt: now.Add(-2 * time.Hour)},
		{LearnerRef: "learner-1", Word: "ubiquitous", BandID: 8, Ease: 2.5, IntervalDays: 1, Repetition: 1, DueAt: now.Add(-1 * time.Hour)},
		{LearnerRef: "learner-1", Word: "lucid", BandID: 6, Ease: 2.5, IntervalDays: 6, Repetition: 2, DueAt: now.Add(48 * time.Hour)},
		{LearnerRef: "learner-2", Word: "ephemeral", BandID: 7, Ease: 2.5, IntervalDays: 1, Repetition: 1, DueAt: now.Add(-1 * time.Hour)},
	}
	for i := range entries {
		if err := repo.Schedule(ctx, &entries[i]); err != nil {
			t.Fatalf("schedule %d: %v", i, err)
		}
	}

	due, err := repo.Due(ctx, "learner-1", now, 10)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("due = %d entries, want 2", len(due))
	}
	if due[0].Word != "ephemeral" || due[1].Word != "ubiquitous" {
		t.Errorf("due order = %q, %q, want soonest first", due[0].Word, due[1].Word)
	}

	// Rescheduling the same word replaces, not duplicates.
	entries[0].IntervalDays = 6
	entries[0].Repetition = 2
	entries[0].DueAt = now.Add(6 * 24 * time.Hour)
	if err := repo.Schedule(ctx, &entries[0]); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	n, err := repo.Count(ctx, "learner-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3 after reschedule", n)
	}

	got, err := repo.Get(ctx, "learner-1", "ephemeral")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IntervalDays != 6 || got.Repetition != 2 {
		t.Errorf("entry = %+v, want interval 6, repetition 2", got)
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	n, err = repo.Count(ctx, "learner-1")
	if err != nil {
		t.Fatalf("count after reset: %v", err)
	}
	if n != 0 {
		t.Errorf("count after reset = %d, want 0", n)
	}
}

func TestLLMEventTotals(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "m", Purpose: "distractors", InputTokens: 100, OutputTokens: 50, LatencyMs: 900, Success: true},
		{Provider: "anthropic", Model: "m", Purpose: "distractors", InputTokens: 120, OutputTokens: 0, LatencyMs: 300, Success: false, ErrorMessage: "rate limited"},
	}
	for i, ev := range events {
		if err := repo.AppendLLMRequest(ctx, ev); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	totals, err := repo.LLMTotals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Requests != 2 || totals.Failures != 1 {
		t.Errorf("requests = %d, failures = %d, want 2 and 1", totals.Requests, totals.Failures)
	}
	if totals.InputTokens != 220 || totals.OutputTokens != 50 {
		t.Errorf("tokens = %d in, %d out, want 220 and 50", totals.InputTokens, totals.OutputTokens)
	}
}

func TestLLMUsageByModel(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "distractors", InputTokens: 100, OutputTokens: 40, Success: true},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "distractors", InputTokens: 110, OutputTokens: 45, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "distractors", InputTokens: 90, OutputTokens: 35, Success: true},
	}
	for i, ev := range events {
		if err := repo.AppendLLMRequest(ctx, ev); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	usage, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("models = %d, want 2", len(usage))
	}
	if usage[0].Model != "claude-haiku-4-5" || usage[0].Calls != 2 {
		t.Errorf("usage[0] = %+v, want claude-haiku-4-5 with 2 calls", usage[0])
	}
	if usage[0].InputTokens != 210 || usage[0].OutputTokens != 85 {
		t.Errorf("usage[0] tokens = %d in, %d out, want 210 and 85", usage[0].InputTokens, usage[0].OutputTokens)
	}
}
