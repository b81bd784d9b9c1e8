package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type reviewRepo struct {
	db *sqlx.DB
}

func (r *reviewRepo) Schedule(ctx context.Context, row *ReviewRow) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO reviews (learner_ref, word, band_id, ease, interval_days, repetition, due_at, reviewed_at)
		 VALUES (:learner_ref, :word, :band_id, :ease, :interval_days, :repetition, :due_at, :reviewed_at)
		 ON CONFLICT(learner_ref, word) DO UPDATE SET
		   band_id = excluded.band_id,
		   ease = excluded.ease,
		   interval_days = excluded.interval_days,
		   repetition = excluded.repetition,
		   due_at = excluded.due_at,
		   reviewed_at = excluded.reviewed_at`,
		row)
	if err != nil {
		return fmt.Errorf("schedule review of %q: %w", row.Word, err)
	}
	return nil
}

func (r *reviewRepo) Due(ctx context.Context, learnerRef string, now time.Time, limit int) ([]ReviewRow, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []ReviewRow
	err := r.db.SelectContext(ctx, &rows,
		r.db.Rebind(`SELECT * FROM reviews WHERE learner_ref = ? AND due_at <= ? ORDER BY due_at ASC LIMIT ?`),
		learnerRef, now, limit)
	if err != nil {
		return nil, fmt.Errorf("due reviews for %s: %w", learnerRef, err)
	}
	return rows, nil
}

func (r *reviewRepo) Get(ctx context.Context, learnerRef, word string) (*ReviewRow, error) {
	var row ReviewRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT * FROM reviews WHERE learner_ref = ? AND word = ?`), learnerRef, word)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("review of %q: %w", word, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review of %q: %w", word, err)
	}
	return &row, nil
}

func (r *reviewRepo) Count(ctx context.Context, learnerRef string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		r.db.Rebind(`SELECT COUNT(*) FROM reviews WHERE learner_ref = ?`), learnerRef)
	if err != nil {
		return 0, fmt.Errorf("count reviews for %s: %w", learnerRef, err)
	}
	return n, nil
}

func (r *reviewRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reviews`); err != nil {
		return fmt.Errorf("delete reviews: %w", err)
	}
	return nil
}
