package store

import (
	"context"
	"fmt"
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS words (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    text       TEXT NOT NULL UNIQUE,
    rank       INTEGER NOT NULL UNIQUE,
    definition TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_words_rank ON words(rank);

CREATE TABLE IF NOT EXISTS distractors (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    word       TEXT NOT NULL,
    definition TEXT NOT NULL,
    source     TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    UNIQUE(word, definition)
);
CREATE INDEX IF NOT EXISTS idx_distractors_word ON distractors(word);

CREATE TABLE IF NOT EXISTS surveys (
    id           TEXT PRIMARY KEY,
    learner_ref  TEXT NOT NULL,
    seed         TEXT NOT NULL,
    phase        TEXT NOT NULL,
    stop_reason  TEXT NOT NULL DEFAULT '',
    questions    INTEGER NOT NULL DEFAULT 0,
    volume       INTEGER NOT NULL DEFAULT 0,
    reach        INTEGER NOT NULL DEFAULT 0,
    density      REAL NOT NULL DEFAULT 0,
    report       TEXT,
    started_at   TIMESTAMP NOT NULL,
    completed_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_surveys_learner ON surveys(learner_ref);

CREATE TABLE IF NOT EXISTS answers (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    survey_id   TEXT NOT NULL REFERENCES surveys(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL,
    word        TEXT NOT NULL,
    band_id     INTEGER NOT NULL,
    correct     BOOLEAN NOT NULL,
    dont_know   BOOLEAN NOT NULL DEFAULT FALSE,
    latency_ms  REAL NOT NULL DEFAULT 0,
    answered_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_answers_survey ON answers(survey_id);

CREATE TABLE IF NOT EXISTS reviews (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    learner_ref   TEXT NOT NULL,
    word          TEXT NOT NULL,
    band_id       INTEGER NOT NULL DEFAULT 0,
    ease          REAL NOT NULL,
    interval_days INTEGER NOT NULL,
    repetition    INTEGER NOT NULL,
    due_at        TIMESTAMP NOT NULL,
    reviewed_at   TIMESTAMP,
    UNIQUE(learner_ref, word)
);
CREATE INDEX IF NOT EXISTS idx_reviews_due ON reviews(learner_ref, due_at);

CREATE TABLE IF NOT EXISTS llm_events (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    provider      TEXT NOT NULL,
    model         TEXT NOT NULL,
    purpose       TEXT NOT NULL,
    input_tokens  INTEGER NOT NULL DEFAULT 0,
    output_tokens INTEGER NOT NULL DEFAULT 0,
    latency_ms    INTEGER NOT NULL DEFAULT 0,
    success       BOOLEAN NOT NULL,
    error_message TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMP NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS words (
    id         BIGSERIAL PRIMARY KEY,
    text       TEXT NOT NULL UNIQUE,
    rank       INTEGER NOT NULL UNIQUE,
    definition TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_words_rank ON words(rank);

CREATE TABLE IF NOT EXISTS distractors (
    id         BIGSERIAL PRIMARY KEY,
    word       TEXT NOT NULL,
    definition TEXT NOT NULL,
    source     TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    UNIQUE(word, definition)
);
CREATE INDEX IF NOT EXISTS idx_distractors_word ON distractors(word);

CREATE TABLE IF NOT EXISTS surveys (
    id           TEXT PRIMARY KEY,
    learner_ref  TEXT NOT NULL,
    seed         TEXT NOT NULL,
    phase        TEXT NOT NULL,
    stop_reason  TEXT NOT NULL DEFAULT '',
    questions    INTEGER NOT NULL DEFAULT 0,
    volume       INTEGER NOT NULL DEFAULT 0,
    reach        INTEGER NOT NULL DEFAULT 0,
    density      DOUBLE PRECISION NOT NULL DEFAULT 0,
    report       TEXT,
    started_at   TIMESTAMPTZ NOT NULL,
    completed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_surveys_learner ON surveys(learner_ref);

CREATE TABLE IF NOT EXISTS answers (
    id          BIGSERIAL PRIMARY KEY,
    survey_id   TEXT NOT NULL REFERENCES surveys(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL,
    word        TEXT NOT NULL,
    band_id     INTEGER NOT NULL,
    correct     BOOLEAN NOT NULL,
    dont_know   BOOLEAN NOT NULL DEFAULT FALSE,
    latency_ms  DOUBLE PRECISION NOT NULL DEFAULT 0,
    answered_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_answers_survey ON answers(survey_id);

CREATE TABLE IF NOT EXISTS reviews (
    id            BIGSERIAL PRIMARY KEY,
    learner_ref   TEXT NOT NULL,
    word          TEXT NOT NULL,
    band_id       INTEGER NOT NULL DEFAULT 0,
    ease          DOUBLE PRECISION NOT NULL,
    interval_days INTEGER NOT NULL,
    repetition    INTEGER NOT NULL,
    due_at        TIMESTAMPTZ NOT NULL,
    reviewed_at   TIMESTAMPTZ,
    UNIQUE(learner_ref, word)
);
CREATE INDEX IF NOT EXISTS idx_reviews_due ON reviews(learner_ref, due_at);

CREATE TABLE IF NOT EXISTS llm_events (
    id            BIGSERIAL PRIMARY KEY,
    provider      TEXT NOT NULL,
    model         TEXT NOT NULL,
    purpose       TEXT NOT NULL,
    input_tokens  INTEGER NOT NULL DEFAULT 0,
    output_tokens INTEGER NOT NULL DEFAULT 0,
    latency_ms    INTEGER NOT NULL DEFAULT 0,
    success       BOOLEAN NOT NULL,
    error_message TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL
);
`

// migrate creates any missing tables. The DDL is idempotent, so running
// it on every open is safe.
func (s *Store) migrate(ctx context.Context) error {
	ddl := schemaSQLite
	if s.driver == DriverPostgres {
		ddl = schemaPostgres
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
