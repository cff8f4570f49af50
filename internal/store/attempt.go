package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type attemptRepo struct{ s *Store }

type attemptRow struct {
	ID        int          `sql:"id"`
	RunID     string       `sql:"run_id"`
	Sentence  string       `sql:"sentence"`
	Topic     string       `sql:"topic"`
	Prompt    string       `sql:"prompt"`
	Chosen    string       `sql:"chosen"`
	Answer    string       `sql:"answer"`
	Correct   bool         `sql:"correct"`
	CreatedAt sql.NullTime `sql:"created_at"`
}

func (r *attemptRepo) Log(ctx context.Context, a Attempt) error {
	q := builder().Insert(AttemptsTable).
		Columns("run_id", "sentence", "topic", "prompt", "chosen", "answer", "correct", "created_at").
		Values(a.RunID, a.Sentence, a.Topic, a.Prompt, a.Chosen, a.Answer, a.Correct, r.s.now())
	if _, err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("log attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	sel := builder().Select("id", "run_id", "sentence", "topic", "prompt", "chosen", "answer", "correct", "created_at").
		From(entsql.Table(AttemptsTable)).
		OrderBy(entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	var rows []attemptRow
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("recent attempts: %w", err)
	}
	out := make([]Attempt, len(rows))
	for i, row := range rows {
		out[i] = Attempt{
			ID:        row.ID,
			RunID:     row.RunID,
			Sentence:  row.Sentence,
			Topic:     row.Topic,
			Prompt:    row.Prompt,
			Chosen:    row.Chosen,
			Answer:    row.Answer,
			Correct:   row.Correct,
			CreatedAt: row.CreatedAt.Time,
		}
	}
	return out, nil
}

type attemptStatsRow struct {
	Topic   string `sql:"topic"`
	Total   int    `sql:"total"`
	Correct int    `sql:"correct"`
}

func (r *attemptRepo) Stats(ctx context.Context, topic string) ([]AttemptStats, error) {
	sel := builder().Select(
		"topic",
		entsql.As(entsql.Count("*"), "total"),
		entsql.As("COALESCE(SUM(`correct`), 0)", "correct"),
	).
		From(entsql.Table(AttemptsTable)).
		GroupBy("topic").
		OrderBy("topic")
	if topic != "" {
		sel.Where(entsql.EQ("topic", topic))
	}

	var rows []attemptStatsRow
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("attempt stats: %w", err)
	}
	out := make([]AttemptStats, len(rows))
	for i, row := range rows {
		out[i] = AttemptStats(row)
	}
	return out, nil
}
