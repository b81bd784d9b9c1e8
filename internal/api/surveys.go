package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/question"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/report"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/review"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/store"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/survey"
)

// wireQuestion is the client-facing view of a question. The correct
// option is never marked on the wire.
type wireQuestion struct {
	ID      string   `json:"id"`
	Word    string   `json:"word"`
	BandID  int      `json:"band_id"`
	Options []string `json:"options"`
}

func toWireQuestion(q *question.Payload) *wireQuestion {
	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = o.Text
	}
	return &wireQuestion{ID: q.ID, Word: q.Word, BandID: q.BandID, Options: opts}
}

type startSurveyRequest struct {
	LearnerRef string `json:"learner_ref"`
}

type startSurveyResponse struct {
	SessionID string        `json:"session_id"`
	Phase     string        `json:"phase"`
	Asked     int           `json:"asked"`
	Question  *wireQuestion `json:"question"`
}

type answerResponse struct {
	Correct    bool              `json:"correct"`
	Phase      string            `json:"phase"`
	Asked      int               `json:"asked,omitempty"`
	Question   *wireQuestion     `json:"question,omitempty"`
	StopReason string            `json:"stop_reason,omitempty"`
	Report     *report.TriMetric `json:"report,omitempty"`
}

type surveySummary struct {
	SessionID   string        `json:"session_id"`
	LearnerRef  string        `json:"learner_ref,omitempty"`
	Phase       string        `json:"phase"`
	Asked       int           `json:"asked"`
	Answered    int           `json:"answered"`
	StopReason  string        `json:"stop_reason,omitempty"`
	Question    *wireQuestion `json:"question,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// POST /v1/surveys
func (h *Handler) startSurvey(w http.ResponseWriter, r *http.Request) {
	// An empty body starts an anonymous survey.
	var req startSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return
	}
	r.Body.Close()

	st, q, err := h.engine.StartSession(req.LearnerRef)
	if err != nil {
		h.logger.Error("start survey", "error", err)
		respondError(w, http.StatusInternalServerError, "could not start survey")
		return
	}
	h.sessions.Put(st, time.Now().UTC())
	h.persistStart(r.Context(), st)

	respondJSON(w, http.StatusCreated, startSurveyResponse{
		SessionID: st.ID,
		Phase:     st.Phase.String(),
		Asked:     len(st.History),
		Question:  toWireQuestion(q),
	})
}

// POST /v1/surveys/{surveyID}/answers
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "surveyID")
	sess, ok := h.sessions.Get(id, time.Now().UTC())
	if !ok {
		respondError(w, http.StatusNotFound, "survey not found")
		return
	}

	var sub survey.Submission
	if !decodeJSON(w, r, &sub) {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	st := sess.state
	if st.Terminal() {
		respondError(w, http.StatusConflict, "survey already completed")
		return
	}

	out := st.Outstanding()
	res, err := h.engine.SubmitAnswer(st, sub)
	if err != nil {
		if errors.Is(err, survey.ErrInvalidSubmission) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error("submit answer", "survey", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not process answer")
		return
	}

	// out is the exchange the engine just scored.
	h.persistAnswer(r.Context(), st, out)

	if res.Report == nil {
		respondJSON(w, http.StatusOK, answerResponse{
			Correct:  res.Correct,
			Phase:    st.Phase.String(),
			Asked:    len(st.History),
			Question: toWireQuestion(res.Next),
		})
		return
	}

	if h.persistCompletion(r.Context(), st) {
		sess.done.Store(true)
	}
	h.seedReviews(r.Context(), st)

	respondJSON(w, http.StatusOK, answerResponse{
		Correct:    res.Correct,
		Phase:      st.Phase.String(),
		StopReason: string(res.Stop),
		Report:     res.Report,
	})
}

// GET /v1/surveys/{surveyID}
func (h *Handler) getSurvey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "surveyID")

	if sess, ok := h.sessions.Get(id, time.Now().UTC()); ok {
		sess.mu.Lock()
		sum := liveSummary(sess.state)
		sess.mu.Unlock()
		respondJSON(w, http.StatusOK, sum)
		return
	}

	if h.surveys != nil {
		row, err := h.surveys.Get(r.Context(), id)
		switch {
		case err == nil:
			respondJSON(w, http.StatusOK, storedSummary(row))
			return
		case !errors.Is(err, store.ErrNotFound):
			h.logger.Error("load survey", "survey", id, "error", err)
			respondError(w, http.StatusInternalServerError, "could not load survey")
			return
		}
	}
	respondError(w, http.StatusNotFound, "survey not found")
}

// GET /v1/surveys/{surveyID}/report
func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "surveyID")

	rep, found, err := h.loadReport(r.Context(), id)
	if err != nil {
		h.logger.Error("load report", "survey", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not load report")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "survey not found")
		return
	}
	if rep == nil {
		respondError(w, http.StatusConflict, "survey still in progress")
		return
	}

	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(rep.HTMLBrief())
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// loadReport finds a survey's report in the registry or the store.
// found distinguishes "no such survey" from "survey exists but has no
// report yet".
func (h *Handler) loadReport(ctx context.Context, id string) (rep *report.TriMetric, found bool, err error) {
	if sess, ok := h.sessions.Get(id, time.Now().UTC()); ok {
		sess.mu.Lock()
		rep = sess.state.Report
		sess.mu.Unlock()
		return rep, true, nil
	}

	if h.surveys == nil {
		return nil, false, nil
	}
	row, err := h.surveys.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(row.Report) == 0 {
		return nil, true, nil
	}
	var stored report.TriMetric
	if err := json.Unmarshal(row.Report, &stored); err != nil {
		return nil, false, err
	}
	return &stored, true, nil
}

func liveSummary(st *survey.State) surveySummary {
	answered := 0
	for _, ex := range st.History {
		if ex.Answer != nil {
			answered++
		}
	}
	sum := surveySummary{
		SessionID:  st.ID,
		LearnerRef: st.LearnerRef,
		Phase:      st.Phase.String(),
		Asked:      len(st.History),
		Answered:   answered,
		StopReason: string(st.StopReason),
		StartedAt:  st.StartedAt,
	}
	if st.Terminal() {
		t := st.CompletedAt
		sum.CompletedAt = &t
	}
	if out := st.Outstanding(); out != nil {
		sum.Question = toWireQuestion(&out.Question)
	}
	return sum
}

func storedSummary(row *store.SurveyRow) surveySummary {
	sum := surveySummary{
		SessionID:  row.ID,
		LearnerRef: row.LearnerRef,
		Phase:      row.Phase,
		Asked:      row.Questions,
		Answered:   row.Questions,
		StopReason: row.StopReason,
		StartedAt:  row.StartedAt,
	}
	if row.CompletedAt.Valid {
		t := row.CompletedAt.Time
		sum.CompletedAt = &t
	}
	return sum
}

// persistStart is best-effort: a storage failure is logged and the
// in-memory session carries on.
func (h *Handler) persistStart(ctx context.Context, st *survey.State) {
	if h.surveys == nil {
		return
	}
	row := &store.SurveyRow{
		ID:         st.ID,
		LearnerRef: st.LearnerRef,
		Seed:       strconv.FormatUint(st.Seed, 10),
		Phase:      st.Phase.String(),
		StartedAt:  st.StartedAt,
	}
	if err := h.surveys.Create(ctx, row); err != nil {
		h.logger.Error("persist survey start", "survey", st.ID, "error", err)
	}
}

func (h *Handler) persistAnswer(ctx context.Context, st *survey.State, ex *survey.Exchange) {
	if h.surveys == nil || ex == nil || ex.Answer == nil {
		return
	}
	row := &store.AnswerRow{
		SurveyID:   st.ID,
		QuestionID: ex.Question.ID,
		Word:       ex.Question.Word,
		BandID:     ex.Question.BandID,
		Correct:    ex.Correct,
		DontKnow:   ex.Answer.DontKnow,
		LatencyMs:  ex.Answer.LatencyMs,
		AnsweredAt: time.Now().UTC(),
	}
	if err := h.surveys.AppendAnswer(ctx, row); err != nil {
		h.logger.Error("persist answer", "survey", st.ID, "question", ex.Question.ID, "error", err)
	}
}

// persistCompletion writes the terminal row and reports whether it
// landed. Until it has, the sweeper leaves the session in memory.
func (h *Handler) persistCompletion(ctx context.Context, st *survey.State) bool {
	if h.surveys == nil {
		return false
	}
	raw, err := json.Marshal(st.Report)
	if err != nil {
		h.logger.Error("marshal report", "survey", st.ID, "error", err)
		return false
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
	if err := h.surveys.Complete(ctx, st.ID, c); err != nil {
		h.logger.Error("persist survey completion", "survey", st.ID, "error", err)
		return false
	}
	return true
}

// seedReviews turns the words missed during the survey into review
// cards that are due immediately.
func (h *Handler) seedReviews(ctx context.Context, st *survey.State) {
	if h.reviews == nil {
		return
	}
	for _, e := range review.SeedFromSurvey(st, st.CompletedAt) {
		row := &store.ReviewRow{
			LearnerRef:   st.LearnerRef,
			Word:         e.Word,
			BandID:       e.BandID,
			Ease:         e.Ease,
			IntervalDays: e.IntervalDays,
			Repetition:   e.Repetition,
			DueAt:        e.DueAt,
		}
		if err := h.reviews.Schedule(ctx, row); err != nil {
			h.logger.Error("schedule review", "survey", st.ID, "word", e.Word, "error", err)
		}
	}
}
