package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type conceptMapRepo struct{ s *Store }

type conceptMapRow struct {
	ID            int    `sql:"id"`
	Subject       string `sql:"subject"`
	Category      string `sql:"category"`
	Topic         string `sql:"topic"`
	QuestionFocus string `sql:"question_focus"`
}

func (r conceptMapRow) entry() ConceptMapEntry {
	return ConceptMapEntry(r)
}

var conceptMapColumnNames = []string{"id", "subject", "category", "topic", "question_focus"}

func (r *conceptMapRepo) Upsert(ctx context.Context, e ConceptMapEntry) error {
	if e.Subject == "" || e.Topic == "" {
		return fmt.Errorf("upsert concept map entry: subject and topic are required")
	}
	q := builder().Insert(ConceptMapTable).
		Columns("subject", "category", "topic", "question_focus").
		Values(e.Subject, e.Category, e.Topic, e.QuestionFocus).
		OnConflict(
			entsql.ConflictColumns("subject", "topic"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("category")
				u.SetExcluded("question_focus")
			}),
		)
	if _, err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("upsert concept map entry %s/%s: %w", e.Subject, e.Topic, err)
	}
	return nil
}

func (r *conceptMapRepo) List(ctx context.Context, subject string) ([]ConceptMapEntry, error) {
	sel := builder().Select(conceptMapColumnNames...).From(entsql.Table(ConceptMapTable))
	if subject != "" {
		sel.Where(entsql.EQ("subject", subject))
	}
	sel.OrderBy("category", "topic")
	return r.scan(ctx, sel)
}

func (r *conceptMapRepo) LookupExact(ctx context.Context, subject string, variants []string) (*ConceptMapEntry, error) {
	if len(variants) == 0 {
		return nil, ErrNotFound
	}
	sel := builder().Select(conceptMapColumnNames...).
		From(entsql.Table(ConceptMapTable)).
		Where(entsql.And(
			entsql.EQ("subject", subject),
			entsql.In(entsql.Lower("topic"), toArgs(variants)...),
		)).
		OrderBy("id").
		Limit(1)
	return r.first(ctx, sel)
}

func (r *conceptMapRepo) LookupFuzzy(ctx context.Context, subject string, variants []string) (*ConceptMapEntry, error) {
	if len(variants) == 0 {
		return nil, ErrNotFound
	}
	sel := builder().Select(conceptMapColumnNames...).
		From(entsql.Table(ConceptMapTable)).
		Where(entsql.And(
			entsql.EQ("subject", subject),
			likeAny(entsql.Lower("topic"), variants),
		)).
		OrderBy("id").
		Limit(1)
	return r.first(ctx, sel)
}

type joinedRow struct {
	ID            int    `sql:"id"`
	Subject       string `sql:"subject"`
	Category      string `sql:"category"`
	Topic         string `sql:"topic"`
	QuestionFocus string `sql:"question_focus"`
	GradeLevel    int    `sql:"grade_level"`
	Notes         string `sql:"notes"`
}

func (r *conceptMapRepo) LookupJoined(ctx context.Context, subject string, variants []string) (*JoinedConcept, error) {
	if len(variants) == 0 {
		return nil, ErrNotFound
	}
	b := builder()
	cm := b.Table(ConceptMapTable).As("cm")
	tp := b.Table(TopicsTable).As("t")
	co := b.Table(ConceptsTable).As("c")

	matches := func(col string) *entsql.Predicate {
		return entsql.Or(
			entsql.ColumnsEQ(entsql.Lower(col), entsql.Lower(cm.C("topic"))),
			likeAny(entsql.Lower(col), variants),
		)
	}

	sel := b.Select(
		cm.C("id"),
		cm.C("subject"),
		cm.C("category"),
		cm.C("topic"),
		cm.C("question_focus"),
		entsql.As("COALESCE("+tp.C("grade_level")+", 0)", "grade_level"),
		entsql.As("COALESCE("+co.C("notes")+", '')", "notes"),
	).
		From(cm).
		LeftJoin(tp).
		OnP(entsql.And(
			entsql.ColumnsEQ(tp.C("subject"), cm.C("subject")),
			matches(tp.C("name")),
		)).
		LeftJoin(co).
		OnP(entsql.And(
			entsql.ColumnsEQ(co.C("subject"), cm.C("subject")),
			matches(co.C("topic")),
		)).
		Where(entsql.And(
			entsql.EQ(cm.C("subject"), subject),
			likeAny(entsql.Lower(cm.C("topic")), variants),
		)).
		OrderBy(cm.C("id")).
		Limit(1)

	var rows []joinedRow
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("joined concept lookup: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	row := rows[0]
	return &JoinedConcept{
		ConceptMapEntry: ConceptMapEntry{
			ID:            row.ID,
			Subject:       row.Subject,
			Category:      row.Category,
			Topic:         row.Topic,
			QuestionFocus: row.QuestionFocus,
		},
		GradeLevel: row.GradeLevel,
		Notes:      row.Notes,
	}, nil
}

func (r *conceptMapRepo) scan(ctx context.Context, sel *entsql.Selector) ([]ConceptMapEntry, error) {
	var rows []conceptMapRow
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("query concept map: %w", err)
	}
	out := make([]ConceptMapEntry, len(rows))
	for i, row := range rows {
		out[i] = row.entry()
	}
	return out, nil
}

func (r *conceptMapRepo) first(ctx context.Context, sel *entsql.Selector) (*ConceptMapEntry, error) {
	entries, err := r.scan(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return &entries[0], nil
}

// likeAny matches col LIKE %v% for any of the values.
func likeAny(col string, values []string) *entsql.Predicate {
	preds := make([]*entsql.Predicate, len(values))
	for i, v := range values {
		preds[i] = entsql.Like(col, "%"+v+"%")
	}
	return entsql.Or(preds...)
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
