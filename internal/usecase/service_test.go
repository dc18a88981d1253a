package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"docqa/internal/adapter/embedding"
	"docqa/internal/domain"
)

func newTestService(t *testing.T, gen *stubGenerator, chunks []domain.Chunk) *Service {
	t.Helper()
	embedder := embedding.NewHashEmbedder(256)
	corpus := NewCorpusHandle()
	if chunks != nil {
		corpus = buildCorpus(t, embedder, chunks)
	}
	retrieve := NewRetrieveUseCase(embedder, corpus, discardLogger())
	answer := NewAnswerUseCase(gen, time.Second, discardLogger())
	return NewService(retrieve, answer, corpus, embedder, 3)
}

func TestServiceQueryEmpty(t *testing.T) {
	svc := newTestService(t, &stubGenerator{}, nil)

	_, err := svc.Query(context.Background(), "   ", 3)
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestServiceQueryNoIndexRefuses(t *testing.T) {
	gen := &stubGenerator{reply: "should not be called"}
	svc := newTestService(t, gen, nil)

	resp, err := svc.Query(context.Background(), "When are invoices due?", 3)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Grounded {
		t.Error("answer without context must not be grounded")
	}
	if resp.Answer != NoContextAnswer {
		t.Errorf("expected refusal, got %q", resp.Answer)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times without an index", gen.calls)
	}
}

func TestServiceQueryEndToEnd(t *testing.T) {
	gen := &stubGenerator{reply: "Within 30 days of milestone completion."}
	chunks := []domain.Chunk{
		{Text: "Contractors must submit invoices within 30 days of milestone completion.", Source: "terms.txt"},
		{Text: "The cafeteria serves lunch between noon and two.", Source: "facilities.txt"},
	}
	svc := newTestService(t, gen, chunks)

	resp, err := svc.Query(context.Background(), "  When must invoices be submitted?  ", 3)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Query != "When must invoices be submitted?" {
		t.Errorf("query not trimmed: %q", resp.Query)
	}
	if !resp.Grounded {
		t.Error("expected grounded answer")
	}
	if resp.Answer != gen.reply {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
	if len(resp.Context) == 0 {
		t.Fatal("expected retrieved context in the response")
	}
	if resp.Context[0].Source != "terms.txt" {
		t.Errorf("expected the invoice chunk ranked first, got %s", resp.Context[0].Source)
	}
}

func TestServiceStats(t *testing.T) {
	chunks := []domain.Chunk{
		{Text: "one entry", Source: "a.txt"},
		{Text: "two entries", Source: "a.txt"},
	}
	svc := newTestService(t, &stubGenerator{}, chunks)

	stats := svc.Stats()
	if stats.TotalChunks != 2 {
		t.Errorf("expected 2 chunks, got %d", stats.TotalChunks)
	}
	if stats.Dimension != 256 {
		t.Errorf("expected dimension 256, got %d", stats.Dimension)
	}
	if stats.Model == "" {
		t.Error("expected a model name")
	}
	if !svc.Ready() {
		t.Error("expected Ready with a published corpus")
	}
}

func TestServiceNotReadyWithoutCorpus(t *testing.T) {
	svc := newTestService(t, &stubGenerator{}, nil)
	if svc.Ready() {
		t.Error("expected not ready before any corpus is published")
	}
	if svc.Stats().TotalChunks != 0 {
		t.Error("expected zero chunks before any corpus is published")
	}
}
