package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

// Topic defaults applied when a field is left empty.
const (
	DefaultSubject    = "grammar"
	DefaultGradeLevel = 5
)

type topicRepo struct{ s *Store }

type topicRow struct {
	ID           int          `sql:"id"`
	Name         string       `sql:"name"`
	Subject      string       `sql:"subject"`
	GradeLevel   int          `sql:"grade_level"`
	Active       bool         `sql:"active"`
	LastSeenDate string       `sql:"last_seen_date"`
	CreatedAt    sql.NullTime `sql:"created_at"`
	UpdatedAt    sql.NullTime `sql:"updated_at"`
}

func (r topicRow) topic() Topic {
	return Topic{
		ID:           r.ID,
		Name:         r.Name,
		Subject:      r.Subject,
		GradeLevel:   r.GradeLevel,
		Active:       r.Active,
		LastSeenDate: r.LastSeenDate,
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
	}
}

var topicColumns = []string{"id", "name", "subject", "grade_level", "active", "last_seen_date", "created_at", "updated_at"}

func (r *topicRepo) Upsert(ctx context.Context, t Topic) error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return fmt.Errorf("upsert topic: empty name")
	}
	if t.Subject == "" {
		t.Subject = DefaultSubject
	}
	if t.GradeLevel == 0 {
		t.GradeLevel = DefaultGradeLevel
	}
	now := r.s.now()

	q := builder().Insert(TopicsTable).
		Columns("name", "subject", "grade_level", "active", "last_seen_date", "created_at", "updated_at").
		Values(name, t.Subject, t.GradeLevel, t.Active, t.LastSeenDate, now, now).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("subject")
				u.SetExcluded("grade_level")
				u.SetExcluded("active")
				u.SetExcluded("last_seen_date")
				u.SetExcluded("updated_at")
			}),
		)
	if _, err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("upsert topic %q: %w", name, err)
	}
	return nil
}

func (r *topicRepo) List(ctx context.Context, f TopicFilter) ([]Topic, error) {
	sel := builder().Select(topicColumns...).From(entsql.Table(TopicsTable))
	var preds []*entsql.Predicate
	if f.Subject != "" {
		preds = append(preds, entsql.EQ("subject", f.Subject))
	}
	if f.ActiveOnly {
		preds = append(preds, entsql.EQ("active", true))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy("subject", "name")

	var rows []topicRow
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	out := make([]Topic, len(rows))
	for i, row := range rows {
		out[i] = row.topic()
	}
	return out, nil
}

func (r *topicRepo) Get(ctx context.Context, name string) (*Topic, error) {
	sel := builder().Select(topicColumns...).
		From(entsql.Table(TopicsTable)).
		Where(entsql.EQ("name", name)).
		Limit(1)

	var rows []topicRow
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("get topic %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("topic %q: %w", name, ErrNotFound)
	}
	t := rows[0].topic()
	return &t, nil
}

func (r *topicRepo) SetActive(ctx context.Context, name string, active bool) error {
	q := builder().Update(TopicsTable).
		Set("active", active).
		Set("updated_at", r.s.now()).
		Where(entsql.EQ("name", name))
	res, err := r.s.exec(ctx, q)
	if err != nil {
		return fmt.Errorf("set topic %q active: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("topic %q: %w", name, ErrNotFound)
	}
	return nil
}
