package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type surveyRepo struct {
	db *sqlx.DB
}

func (r *surveyRepo) Create(ctx context.Context, row *SurveyRow) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO surveys (id, learner_ref, seed, phase, stop_reason, questions, volume, reach, density, started_at)
		 VALUES (:id, :learner_ref, :seed, :phase, :stop_reason, :questions, :volume, :reach, :density, :started_at)`,
		row)
	if err != nil {
		return fmt.Errorf("create survey %s: %w", row.ID, err)
	}
	return nil
}

func (r *surveyRepo) AppendAnswer(ctx context.Context, row *AnswerRow) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO answers (survey_id, question_id, word, band_id, correct, dont_know, latency_ms, answered_at)
		 VALUES (:survey_id, :question_id, :word, :band_id, :correct, :dont_know, :latency_ms, :answered_at)`,
		row)
	if err != nil {
		return fmt.Errorf("append answer for survey %s: %w", row.SurveyID, err)
	}
	return nil
}

func (r *surveyRepo) Complete(ctx context.Context, id string, c SurveyCompletion) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE surveys
			SET phase = 'completed', stop_reason = ?, questions = ?, volume = ?, reach = ?, density = ?, report = ?, completed_at = ?
			WHERE id = ?`),
		c.StopReason, c.Questions, c.Volume, c.Reach, c.Density, c.Report, c.CompletedAt, id)
	if err != nil {
		return fmt.Errorf("complete survey %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("complete survey %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *surveyRepo) Get(ctx context.Context, id string) (*SurveyRow, error) {
	var row SurveyRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT * FROM surveys WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("survey %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get survey %s: %w", id, err)
	}
	return &row, nil
}

func (r *surveyRepo) Answers(ctx context.Context, id string) ([]AnswerRow, error) {
	var rows []AnswerRow
	err := r.db.SelectContext(ctx, &rows,
		r.db.Rebind(`SELECT * FROM answers WHERE survey_id = ? ORDER BY id ASC`), id)
	if err != nil {
		return nil, fmt.Errorf("answers for survey %s: %w", id, err)
	}
	return rows, nil
}

func (r *surveyRepo) ListRecent(ctx context.Context, learnerRef string, limit int) ([]SurveyRow, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []SurveyRow
	err := r.db.SelectContext(ctx, &rows,
		r.db.Rebind(`SELECT * FROM surveys WHERE learner_ref = ? ORDER BY started_at DESC LIMIT ?`),
		learnerRef, limit)
	if err != nil {
		return nil, fmt.Errorf("list surveys for %s: %w", learnerRef, err)
	}
	return rows, nil
}

func (r *surveyRepo) Completed(ctx context.Context) ([]SurveyRow, error) {
	var rows []SurveyRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM surveys WHERE phase = 'completed' ORDER BY completed_at`)
	if err != nil {
		return nil, fmt.Errorf("list completed surveys: %w", err)
	}
	return rows, nil
}

func (r *surveyRepo) Stats(ctx context.Context) (*SurveyStats, error) {
	var stats SurveyStats
	if err := r.db.GetContext(ctx, &stats.Total, `SELECT COUNT(*) FROM surveys`); err != nil {
		return nil, fmt.Errorf("count surveys: %w", err)
	}
	err := r.db.GetContext(ctx, &stats,
		`SELECT COUNT(*) AS completed,
		        COALESCE(AVG(volume), 0) AS avg_volume,
		        COALESCE(AVG(reach), 0) AS avg_reach,
		        COALESCE(AVG(density), 0) AS avg_density,
		        COALESCE(AVG(questions), 0) AS avg_length
		 FROM surveys WHERE phase = 'completed'`)
	if err != nil {
		return nil, fmt.Errorf("aggregate surveys: %w", err)
	}
	return &stats, nil
}

func (r *surveyRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM answers`); err != nil {
		return fmt.Errorf("delete answers: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM surveys`); err != nil {
		return fmt.Errorf("delete surveys: %w", err)
	}
	return nil
}
