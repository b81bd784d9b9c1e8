package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/vocab"
)

type wordRepo struct {
	db *sqlx.DB
}

func (r *wordRepo) Upsert(ctx context.Context, words []Word) (ImportStats, error) {
	var stats ImportStats

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, w := range words {
		stats.Processed++

		var existing Word
		err := tx.GetContext(ctx, &existing,
			tx.Rebind(`SELECT * FROM words WHERE text = ?`), w.Text)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx,
				tx.Rebind(`INSERT INTO words (text, rank, definition, created_at, updated_at)
					VALUES (?, ?, ?, ?, ?)`),
				w.Text, w.Rank, w.Definition, now, now)
			if err != nil {
				return stats, fmt.Errorf("insert word %q: %w", w.Text, err)
			}
			stats.Created++

		case err != nil:
			return stats, fmt.Errorf("lookup word %q: %w", w.Text, err)

		case existing.Rank == w.Rank && existing.Definition == w.Definition:
			stats.Skipped++

		default:
			_, err = tx.ExecContext(ctx,
				tx.Rebind(`UPDATE words SET rank = ?, definition = ?, updated_at = ? WHERE text = ?`),
				w.Rank, w.Definition, now, w.Text)
			if err != nil {
				return stats, fmt.Errorf("update word %q: %w", w.Text, err)
			}
			stats.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit: %w", err)
	}
	return stats, nil
}

func (r *wordRepo) All(ctx context.Context) ([]Word, error) {
	var words []Word
	err := r.db.SelectContext(ctx, &words, `SELECT * FROM words ORDER BY rank ASC`)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	return words, nil
}

func (r *wordRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM words`); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}

func (r *wordRepo) AddDistractors(ctx context.Context, word string, definitions []string, source string) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	added := 0
	for _, def := range definitions {
		res, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO distractors (word, definition, source, created_at)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (word, definition) DO NOTHING`),
			word, def, source, now)
		if err != nil {
			return 0, fmt.Errorf("insert distractor for %q: %w", word, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

func (r *wordRepo) DistractorsByWord(ctx context.Context) (map[string][]string, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT word, definition FROM distractors ORDER BY word, id`)
	if err != nil {
		return nil, fmt.Errorf("load distractors: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var word, def string
		if err := rows.Scan(&word, &def); err != nil {
			return nil, fmt.Errorf("scan distractor: %w", err)
		}
		out[word] = append(out[word], def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distractors: %w", err)
	}
	return out, nil
}

func (r *wordRepo) DistractorCount(ctx context.Context, word string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		r.db.Rebind(`SELECT COUNT(*) FROM distractors WHERE word = ?`), word)
	if err != nil {
		return 0, fmt.Errorf("count distractors for %q: %w", word, err)
	}
	return n, nil
}

// ToVocabWords converts stored rows into engine vocabulary words.
func ToVocabWords(rows []Word) []vocab.Word {
	out := make([]vocab.Word, 0, len(rows))
	for _, w := range rows {
		out = append(out, vocab.Word{
			Text:       w.Text,
			Rank:       w.Rank,
			Definition: w.Definition,
		})
	}
	return out
}
