package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/hwhelper/internal/logger"
	"github.com/abhisek/hwhelper/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"ok":true}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 3},
	})
	repo := &recordingRepo{}
	p := WithLogging(mock, "openai", repo, logger.Nop())

	ctx := WithPurpose(context.Background(), PurposeSimplify)
	_, err := p.Generate(ctx, Request{
		System:   "be kind",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
		Schema:   &Schema{Name: "thing", Definition: map[string]any{"type": "object"}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Provider != "openai" || e.Model != "mock" || e.Purpose != PurposeSimplify {
		t.Errorf("event = %+v", e)
	}
	if !e.Success || e.InputTokens != 12 || e.ResponseBody != `{"ok":true}` {
		t.Errorf("event = %+v", e)
	}
	for _, want := range []string{"[system]", "be kind", "[user]", "hello", "[schema: thing]"} {
		if !strings.Contains(e.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, e.RequestBody)
		}
	}
}

func TestLoggingProvider_RecordsFailureAndWarns(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(mock, "openai", repo, logger.FromZap(zap.New(core)))

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected provider error")
	}
	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage == "" {
		t.Fatalf("events = %+v", repo.events)
	}
	if logs.FilterMessage("llm request failed").Len() != 1 {
		t.Error("expected a failure log line")
	}
	if logs.FilterMessage("failed to persist LLM request event").Len() != 1 {
		t.Error("expected a persistence warning")
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	mock := NewMockProvider(TextResponse("plain"))
	p := WithLogging(mock, "mock", nil, nil)
	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text() != "plain" {
		t.Errorf("Text() = %q", resp.Text())
	}
}

func TestTimeoutProvider(t *testing.T) {
	mock := NewMockProvider(TextResponse("ok"))
	if p := WithTimeout(mock, 0); p != Provider(mock) {
		t.Error("zero timeout should return the provider unchanged")
	}
	p := WithTimeout(mock, time.Second)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}
}
