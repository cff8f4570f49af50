package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

type conceptRepo struct{ s *Store }

type conceptRow struct {
	ID        int          `sql:"id"`
	DateStart string       `sql:"date_start"`
	DateEnd   string       `sql:"date_end"`
	Subject   string       `sql:"subject"`
	Topic     string       `sql:"topic"`
	Type      string       `sql:"type"`
	Notes     string       `sql:"notes"`
	CreatedAt sql.NullTime `sql:"created_at"`
}

var conceptColumns = []string{"id", "date_start", "date_end", "subject", "topic", "type", "notes", "created_at"}

func (r *conceptRepo) Add(ctx context.Context, c Concept) (int, error) {
	c.Subject = strings.TrimSpace(c.Subject)
	c.Topic = strings.TrimSpace(c.Topic)
	if c.Subject == "" || c.Topic == "" {
		return 0, fmt.Errorf("add concept: subject and topic are required")
	}
	if c.Type == "" {
		c.Type = "other"
	}
	q := builder().Insert(ConceptsTable).
		Columns("date_start", "date_end", "subject", "topic", "type", "notes", "created_at").
		Values(c.DateStart, c.DateEnd, c.Subject, c.Topic, c.Type, c.Notes, r.s.now())
	id, err := r.s.insert(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("add concept: %w", err)
	}
	return id, nil
}

type conceptIDRow struct {
	ID int `sql:"id"`
}

func (r *conceptRepo) Exists(ctx context.Context, dateStart, subject, topic string) (bool, error) {
	sel := builder().Select("id").
		From(entsql.Table(ConceptsTable)).
		Where(entsql.And(
			entsql.EQ("date_start", dateStart),
			entsql.EQ("subject", strings.TrimSpace(subject)),
			entsql.EQ("topic", strings.TrimSpace(topic)),
		)).
		Limit(1)
	var rows []conceptIDRow
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return false, fmt.Errorf("find concept: %w", err)
	}
	return len(rows) > 0, nil
}

func (r *conceptRepo) Recent(ctx context.Context, limit int) ([]Concept, error) {
	sel := builder().Select(conceptColumns...).
		From(entsql.Table(ConceptsTable)).
		OrderBy(entsql.Desc("date_start"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	return r.scan(ctx, sel)
}

func (r *conceptRepo) Delete(ctx context.Context, id int) error {
	res, err := r.s.exec(ctx, builder().Delete(ConceptsTable).Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("delete concept %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("concept %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *conceptRepo) ListRange(ctx context.Context, from, to string) ([]Concept, error) {
	sel := builder().Select(conceptColumns...).From(entsql.Table(ConceptsTable))
	var preds []*entsql.Predicate
	if from != "" {
		preds = append(preds, entsql.GTE("date_start", from))
	}
	if to != "" {
		preds = append(preds, entsql.LTE("date_start", to))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy("date_start", "id")
	return r.scan(ctx, sel)
}

func (r *conceptRepo) scan(ctx context.Context, sel *entsql.Selector) ([]Concept, error) {
	var rows []conceptRow
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("query concepts: %w", err)
	}
	out := make([]Concept, len(rows))
	for i, row := range rows {
		out[i] = Concept{
			ID:        row.ID,
			DateStart: row.DateStart,
			DateEnd:   row.DateEnd,
			Subject:   row.Subject,
			Topic:     row.Topic,
			Type:      row.Type,
			Notes:     row.Notes,
			CreatedAt: row.CreatedAt.Time,
		}
	}
	return out, nil
}
