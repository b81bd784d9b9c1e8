// Package authoring produces survey content with LLM assistance. Its one
// job today is writing distractor definitions: the plausible-but-wrong
// options shown next to a word's correct definition. Generated sets are
// schema-validated, cleaned of near-duplicates, and persisted to the
// distractor pool.
package authoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// ServiceConfig holds generation settings for authoring calls.
type ServiceConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultServiceConfig returns sensible defaults for distractor authoring.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxTokens:   512,
		Temperature: 0.7,
	}
}

// DistractorSink receives authored distractors for persistence. The store's
// word repository implements it; a nil sink skips persistence.
type DistractorSink interface {
	AddDistractors(ctx context.Context, word string, definitions []string, source string) (int, error)
}

// Distractor is one authored wrong definition.
type Distractor struct {
	Definition string
	Kind       string
}

// Service authors distractor definitions for survey words.
type Service struct {
	provider Provider
	sink     DistractorSink
	cfg      ServiceConfig
}

// NewService creates an authoring service. sink may be nil, in which case
// authored distractors are returned but not persisted.
func NewService(provider Provider, sink DistractorSink, cfg ServiceConfig) *Service {
	return &Service{provider: provider, sink: sink, cfg: cfg}
}

type distractorSetOutput struct {
	Distractors []distractorOutput `json:"distractors"`
}

type distractorOutput struct {
	Definition string `json:"definition"`
	Kind       string `json:"kind"`
}

// AuthorDistractors generates n wrong definitions for the given word,
// drops any that restate the correct definition or each other, persists
// the survivors, and returns them. Returns an error when the provider
// fails or every candidate was filtered out.
func (s *Service) AuthorDistractors(ctx context.Context, word, definition string, n int) ([]Distractor, error) {
	if n < 1 {
		return nil, fmt.Errorf("distractor count must be >= 1, got %d", n)
	}

	ctx = WithPurpose(ctx, "distractors")

	req := Request{
		System: distractorSystemPrompt,
		Messages: []Message{
			{Role: RoleUser, Content: buildDistractorUserMessage(word, definition, n)},
		},
		Schema:      DistractorSetSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("author distractors for %q: %w", word, err)
	}

	var out distractorSetOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse distractor response for %q: %w", word, err)
	}

	kept := filterDistractors(out.Distractors, definition)
	if len(kept) == 0 {
		return nil, fmt.Errorf("no usable distractors for %q: all %d candidates rejected",
			word, len(out.Distractors))
	}

	if s.sink != nil {
		defs := make([]string, len(kept))
		for i, d := range kept {
			defs[i] = d.Definition
		}
		if _, err := s.sink.AddDistractors(ctx, word, defs, "llm:"+s.provider.ModelID()); err != nil {
			return nil, fmt.Errorf("persist distractors for %q: %w", word, err)
		}
	}

	return kept, nil
}

// filterDistractors drops blank candidates, near-duplicates of the correct
// definition, and near-duplicates of earlier candidates. Order is preserved.
func filterDistractors(candidates []distractorOutput, correct string) []Distractor {
	var kept []Distractor
	for _, c := range candidates {
		def := strings.TrimSpace(c.Definition)
		if def == "" {
			continue
		}
		if nearDuplicate(def, correct) {
			continue
		}
		dup := false
		for _, k := range kept {
			if nearDuplicate(def, k.Definition) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		kept = append(kept, Distractor{Definition: def, Kind: c.Kind})
	}
	return kept
}

// nearDuplicate reports whether two definitions are the same after
// normalization, or one contains the other. Containment catches the
// common failure where the model pads the correct definition with an
// extra clause and calls it wrong.
func nearDuplicate(a, b string) bool {
	na, nb := normalizeDefinition(a), normalizeDefinition(b)
	if na == "" || nb == "" {
		return na == nb
	}
	if na == nb {
		return true
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// normalizeDefinition lowercases, strips punctuation, and collapses runs
// of whitespace so cosmetic differences do not defeat duplicate checks.
func normalizeDefinition(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
