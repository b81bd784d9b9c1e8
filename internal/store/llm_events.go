package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type eventRepo struct {
	db *sqlx.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO llm_events (provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
		data.LatencyMs, data.Success, data.ErrorMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMTotals(ctx context.Context) (*LLMTotals, error) {
	var totals LLMTotals
	err := r.db.GetContext(ctx, &totals,
		`SELECT COUNT(*) AS requests,
		        COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0) AS failures,
		        COALESCE(SUM(input_tokens), 0) AS input_tokens,
		        COALESCE(SUM(output_tokens), 0) AS output_tokens
		 FROM llm_events`)
	if err != nil {
		return nil, fmt.Errorf("aggregate LLM events: %w", err)
	}
	return &totals, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	var usage []LLMModelUsage
	err := r.db.SelectContext(ctx, &usage,
		`SELECT model,
		        COUNT(*) AS calls,
		        COALESCE(SUM(input_tokens), 0) AS input_tokens,
		        COALESCE(SUM(output_tokens), 0) AS output_tokens
		 FROM llm_events
		 GROUP BY model
		 ORDER BY calls DESC, model`)
	if err != nil {
		return nil, fmt.Errorf("aggregate LLM usage by model: %w", err)
	}
	return usage, nil
}
