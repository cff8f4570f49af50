package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHistorySessionLifecycle(t *testing.T) {
	s := openTestStore(t)
	s.SetClock(fixedClock(time.Date(2025, 9, 12, 10, 0, 0, 0, time.UTC)))
	repo := s.History()
	ctx := context.Background()

	if _, err := repo.LatestPassage(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("latest on empty = %v, want ErrNotFound", err)
	}

	sid, err := repo.CreateSession(ctx, "  ")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	pid, err := repo.AddPassage(ctx, sid, "The fox ran.", "")
	if err != nil {
		t.Fatalf("add passage: %v", err)
	}
	if err := repo.SetSimplified(ctx, pid, "A fox ran fast."); err != nil {
		t.Fatalf("set simplified: %v", err)
	}
	if err := repo.SetSummary(ctx, pid, "A fox ran."); err != nil {
		t.Fatalf("set summary: %v", err)
	}
	if err := repo.AddQuestions(ctx, pid, []string{"Who ran?", "", "Why?"}); err != nil {
		t.Fatalf("add questions: %v", err)
	}
	if err := repo.AddWord(ctx, pid, "fox", "A wild animal like a dog."); err != nil {
		t.Fatalf("add word: %v", err)
	}

	sess, err := repo.GetSession(ctx, sid)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.Topic != "Untitled" {
		t.Errorf("topic = %q, want Untitled", sess.Topic)
	}
	if len(sess.Passages) != 1 {
		t.Fatalf("len(passages) = %d, want 1", len(sess.Passages))
	}
	p := sess.Passages[0]
	if p.SimplifiedText != "A fox ran fast." || p.Summary != "A fox ran." {
		t.Errorf("passage = %+v", p)
	}
	if len(p.Questions) != 2 || p.Questions[1] != "Why?" {
		t.Errorf("questions = %v, want 2 non-empty", p.Questions)
	}
	if len(p.Words) != 1 || p.Words[0].Word != "fox" {
		t.Errorf("words = %+v", p.Words)
	}

	latest, err := repo.LatestPassage(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != pid || latest.SessionID != sid {
		t.Errorf("latest = %+v, want passage %d in session %d", latest, pid, sid)
	}
}

func TestHistoryListSessionsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	s.SetClock(fixedClock(time.Date(2025, 9, 12, 10, 0, 0, 0, time.UTC)))
	repo := s.History()
	ctx := context.Background()

	for _, topic := range []string{"first", "second", "third"} {
		if _, err := repo.CreateSession(ctx, topic); err != nil {
			t.Fatalf("create %s: %v", topic, err)
		}
	}
	list, err := repo.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Topic != "third" || list[2].Topic != "first" {
		t.Errorf("sessions = %+v, want newest first", list)
	}
}

func TestHistoryUnattachedPassage(t *testing.T) {
	s := openTestStore(t)
	repo := s.History()
	ctx := context.Background()

	pid, err := repo.AddPassage(ctx, 0, "Once upon a time.", "")
	if err != nil {
		t.Fatalf("add passage: %v", err)
	}
	latest, err := repo.LatestPassage(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != pid || latest.SessionID != 0 {
		t.Errorf("latest = %+v, want unattached passage %d", latest, pid)
	}

	if _, err := repo.GetSession(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSession(42) = %v, want ErrNotFound", err)
	}
	if err := repo.SetSimplified(ctx, 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetSimplified(999) = %v, want ErrNotFound", err)
	}
}
