// Package api exposes the survey engine over HTTP. Sessions live in an
// in-memory registry while in progress; answers and reports are written
// through to the store as they happen, and a background sweeper reclaims
// sessions that were completed or abandoned.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/store"
	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/survey"
)

const (
	// DefaultIdleTTL is how long an in-progress survey may sit without a
	// request before the sweeper reclaims it.
	DefaultIdleTTL = 30 * time.Minute

	// DefaultSweepEvery is the sweep cadence.
	DefaultSweepEvery = 5 * time.Minute
)

// Handler serves the survey API. Either repo may be nil, in which case
// the service runs purely in memory and nothing survives a restart.
type Handler struct {
	engine   *survey.Engine
	sessions *registry
	surveys  store.SurveyRepo
	reviews  store.ReviewRepo
	logger   *slog.Logger
}

// NewHandler wires a survey engine and its persistence into an HTTP
// handler set.
func NewHandler(engine *survey.Engine, surveys store.SurveyRepo, reviews store.ReviewRepo, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		engine:   engine,
		sessions: newRegistry(),
		surveys:  surveys,
		reviews:  reviews,
		logger:   logger,
	}
}

// Router assembles the chi router for the survey API.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(requestLogger(h.logger))

	r.Get("/healthz", h.health)
	r.Route("/v1/surveys", func(r chi.Router) {
		r.Post("/", h.startSurvey)
		r.Post("/{surveyID}/answers", h.submitAnswer)
		r.Get("/{surveyID}", h.getSurvey)
		r.Get("/{surveyID}/report", h.getReport)
	})
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	})
}
