package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

type historyRepo struct{ s *Store }

type sessionRow struct {
	ID        int          `sql:"id"`
	Topic     string       `sql:"topic"`
	CreatedAt sql.NullTime `sql:"created_at"`
}

type passageRow struct {
	ID             int          `sql:"id"`
	SessionID      int          `sql:"session_id"`
	OriginalText   string       `sql:"original_text"`
	SimplifiedText string       `sql:"simplified_text"`
	Summary        string       `sql:"summary"`
	CreatedAt      sql.NullTime `sql:"created_at"`
}

func (r passageRow) passage() Passage {
	return Passage{
		ID:             r.ID,
		SessionID:      r.SessionID,
		OriginalText:   r.OriginalText,
		SimplifiedText: r.SimplifiedText,
		Summary:        r.Summary,
		CreatedAt:      r.CreatedAt.Time,
	}
}

type questionRow struct {
	PassageID    int    `sql:"passage_id"`
	QuestionText string `sql:"question_text"`
}

type wordRow struct {
	PassageID   int    `sql:"passage_id"`
	Word        string `sql:"word"`
	Explanation string `sql:"explanation"`
}

var passageColumns = []string{"id", "session_id", "original_text", "simplified_text", "summary", "created_at"}

func (r *historyRepo) CreateSession(ctx context.Context, topic string) (int, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "Untitled"
	}
	id, err := r.s.insert(ctx, builder().Insert(SessionsTable).
		Columns("topic", "created_at").
		Values(topic, r.s.now()))
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

func (r *historyRepo) AddPassage(ctx context.Context, sessionID int, original, simplified string) (int, error) {
	var sid any
	if sessionID > 0 {
		sid = sessionID
	}
	id, err := r.s.insert(ctx, builder().Insert(PassagesTable).
		Columns("session_id", "original_text", "simplified_text", "summary", "created_at").
		Values(sid, original, simplified, "", r.s.now()))
	if err != nil {
		return 0, fmt.Errorf("add passage: %w", err)
	}
	return id, nil
}

func (r *historyRepo) SetSimplified(ctx context.Context, passageID int, simplified string) error {
	return r.setPassageColumn(ctx, passageID, "simplified_text", simplified)
}

func (r *historyRepo) SetSummary(ctx context.Context, passageID int, summary string) error {
	return r.setPassageColumn(ctx, passageID, "summary", summary)
}

func (r *historyRepo) setPassageColumn(ctx context.Context, passageID int, column, value string) error {
	res, err := r.s.exec(ctx, builder().Update(PassagesTable).
		Set(column, value).
		Where(entsql.EQ("id", passageID)))
	if err != nil {
		return fmt.Errorf("update passage %d %s: %w", passageID, column, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("passage %d: %w", passageID, ErrNotFound)
	}
	return nil
}

func (r *historyRepo) AddQuestions(ctx context.Context, passageID int, questions []string) error {
	ins := builder().Insert(QuestionsTable).Columns("passage_id", "question_text")
	n := 0
	for _, q := range questions {
		if q = strings.TrimSpace(q); q == "" {
			continue
		}
		ins.Values(passageID, q)
		n++
	}
	if n == 0 {
		return nil
	}
	if _, err := r.s.exec(ctx, ins); err != nil {
		return fmt.Errorf("add questions to passage %d: %w", passageID, err)
	}
	return nil
}

func (r *historyRepo) AddWord(ctx context.Context, passageID int, word, explanation string) error {
	_, err := r.s.exec(ctx, builder().Insert(WordsTable).
		Columns("passage_id", "word", "explanation").
		Values(passageID, word, explanation))
	if err != nil {
		return fmt.Errorf("add word %q to passage %d: %w", word, passageID, err)
	}
	return nil
}

func (r *historyRepo) LatestPassage(ctx context.Context) (*Passage, error) {
	sel := builder().Select(passageColumns...).
		From(entsql.Table(PassagesTable)).
		OrderBy(entsql.Desc("id")).
		Limit(1)
	var rows []passageRow
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("latest passage: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	p := rows[0].passage()
	return &p, nil
}

func (r *historyRepo) ListSessions(ctx context.Context) ([]Session, error) {
	sel := builder().Select("id", "topic", "created_at").
		From(entsql.Table(SessionsTable)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	var rows []sessionRow
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]Session, len(rows))
	for i, row := range rows {
		out[i] = Session{ID: row.ID, Topic: row.Topic, CreatedAt: row.CreatedAt.Time}
	}
	return out, nil
}

func (r *historyRepo) GetSession(ctx context.Context, id int) (*Session, error) {
	var sessions []sessionRow
	err := r.s.query(ctx, builder().Select("id", "topic", "created_at").
		From(entsql.Table(SessionsTable)).
		Where(entsql.EQ("id", id)), &sessions)
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", id, err)
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	sess := &Session{ID: sessions[0].ID, Topic: sessions[0].Topic, CreatedAt: sessions[0].CreatedAt.Time}

	var prows []passageRow
	err = r.s.query(ctx, builder().Select(passageColumns...).
		From(entsql.Table(PassagesTable)).
		Where(entsql.EQ("session_id", id)).
		OrderBy("id"), &prows)
	if err != nil {
		return nil, fmt.Errorf("session %d passages: %w", id, err)
	}
	if len(prows) == 0 {
		return sess, nil
	}

	ids := make([]any, len(prows))
	index := make(map[int]int, len(prows))
	for i, row := range prows {
		sess.Passages = append(sess.Passages, row.passage())
		ids[i] = row.ID
		index[row.ID] = i
	}

	var qrows []questionRow
	err = r.s.query(ctx, builder().Select("passage_id", "question_text").
		From(entsql.Table(QuestionsTable)).
		Where(entsql.In("passage_id", ids...)).
		OrderBy("id"), &qrows)
	if err != nil {
		return nil, fmt.Errorf("session %d questions: %w", id, err)
	}
	for _, q := range qrows {
		p := &sess.Passages[index[q.PassageID]]
		p.Questions = append(p.Questions, q.QuestionText)
	}

	var wrows []wordRow
	err = r.s.query(ctx, builder().Select("passage_id", "word", "explanation").
		From(entsql.Table(WordsTable)).
		Where(entsql.In("passage_id", ids...)).
		OrderBy("id"), &wrows)
	if err != nil {
		return nil, fmt.Errorf("session %d words: %w", id, err)
	}
	for _, w := range wrows {
		p := &sess.Passages[index[w.PassageID]]
		p.Words = append(p.Words, Word{Word: w.Word, Explanation: w.Explanation})
	}
	return sess, nil
}
