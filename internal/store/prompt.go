package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type promptRepo struct{ s *Store }

func (r *promptRepo) Record(ctx context.Context, p ServedPrompt) error {
	opts, err := json.Marshal(p.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	if p.Source == "" {
		p.Source = "llm"
	}
	q := builder().Insert(PromptsTable).
		Columns("subject", "topic", "sentence", "prompt", "options", "answer", "source", "created_at").
		Values(p.Subject, p.Topic, p.Sentence, p.Prompt, string(opts), p.Answer, p.Source, r.s.now())
	if _, err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("record prompt: %w", err)
	}
	return nil
}

type askedRow struct {
	Sentence string `sql:"sentence"`
	Prompt   string `sql:"prompt"`
}

func (r *promptRepo) Recent(ctx context.Context, subject, topic string, limit int) ([]ServedPrompt, error) {
	sel := builder().Select("sentence", "prompt").
		From(entsql.Table(PromptsTable)).
		Where(entsql.And(entsql.EQ("subject", subject), entsql.EQ("topic", topic))).
		OrderBy(entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	var rows []askedRow
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("recent prompts: %w", err)
	}
	out := make([]ServedPrompt, len(rows))
	for i, row := range rows {
		out[i] = ServedPrompt{Subject: subject, Topic: topic, Sentence: row.Sentence, Prompt: row.Prompt}
	}
	return out, nil
}
