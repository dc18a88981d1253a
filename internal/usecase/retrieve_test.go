package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"docqa/internal/adapter/embedding"
	"docqa/internal/adapter/index"
	"docqa/internal/domain"
	"docqa/internal/port"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// buildCorpus embeds the chunk texts and publishes the pair on a fresh
// handle.
func buildCorpus(t *testing.T, embedder port.Embedder, chunks []domain.Chunk) *CorpusHandle {
	t.Helper()
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := embedder.Embed(context.Background(), texts)
	if err != nil {
		t.Fatal(err)
	}
	idx := index.NewFlat(embedder.Dimension())
	if err := idx.Add(vectors); err != nil {
		t.Fatal(err)
	}
	corpus := NewCorpusHandle()
	corpus.Swap(idx, chunks)
	return corpus
}

func TestRetrieveEmptyQuery(t *testing.T) {
	embedder := embedding.NewHashEmbedder(64)
	u := NewRetrieveUseCase(embedder, NewCorpusHandle(), discardLogger())

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := u.Retrieve(context.Background(), query, 3)
		if !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", query, err)
		}
	}
}

func TestRetrieveNoCorpus(t *testing.T) {
	embedder := embedding.NewHashEmbedder(64)
	u := NewRetrieveUseCase(embedder, NewCorpusHandle(), discardLogger())

	results, err := u.Retrieve(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("expected empty result without an index, got error %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestRetrieveRanksRelevantChunkFirst(t *testing.T) {
	embedder := embedding.NewHashEmbedder(256)
	chunks := []domain.Chunk{
		{Text: "The parking garage closes at midnight on weekdays.", Source: "facilities.txt"},
		{Text: "Contractors must submit invoices within 30 days of milestone completion.", Source: "terms.txt"},
		{Text: "Our cafeteria serves lunch between noon and two.", Source: "facilities.txt"},
	}
	u := NewRetrieveUseCase(embedder, buildCorpus(t, embedder, chunks), discardLogger())

	results, err := u.Retrieve(context.Background(), "When must invoices be submitted?", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Source != "terms.txt" {
		t.Errorf("expected the invoice chunk first, got %q from %s", results[0].Text, results[0].Source)
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Score < results[i].Score {
			t.Errorf("results not in descending score order at %d", i)
		}
	}
}

func TestRetrieveRespectsTopK(t *testing.T) {
	embedder := embedding.NewHashEmbedder(64)
	chunks := []domain.Chunk{
		{Text: "alpha one", Source: "a.txt"},
		{Text: "bravo two", Source: "a.txt"},
		{Text: "charlie three", Source: "a.txt"},
		{Text: "delta four", Source: "a.txt"},
	}
	u := NewRetrieveUseCase(embedder, buildCorpus(t, embedder, chunks), discardLogger())

	results, err := u.Retrieve(context.Background(), "alpha bravo", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestRetrieveTopKLargerThanCorpus(t *testing.T) {
	embedder := embedding.NewHashEmbedder(64)
	chunks := []domain.Chunk{
		{Text: "only entry", Source: "a.txt"},
	}
	u := NewRetrieveUseCase(embedder, buildCorpus(t, embedder, chunks), discardLogger())

	results, err := u.Retrieve(context.Background(), "entry", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected the whole corpus, got %d results", len(results))
	}
}

func TestRetrieveDropsOutOfRangeRows(t *testing.T) {
	embedder := embedding.NewHashEmbedder(64)
	chunks := []domain.Chunk{
		{Text: "alpha one", Source: "a.txt"},
		{Text: "bravo two", Source: "a.txt"},
	}

	texts := []string{chunks[0].Text, chunks[1].Text, "orphan row"}
	vectors, err := embedder.Embed(context.Background(), texts)
	if err != nil {
		t.Fatal(err)
	}
	idx := index.NewFlat(embedder.Dimension())
	if err := idx.Add(vectors); err != nil {
		t.Fatal(err)
	}

	// Three index rows paired with two chunks: row 2 has no chunk and
	// must be dropped from results.
	corpus := NewCorpusHandle()
	corpus.Swap(idx, chunks)
	u := NewRetrieveUseCase(embedder, corpus, discardLogger())

	results, err := u.Retrieve(context.Background(), "orphan row", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected orphan row dropped, got %d results", len(results))
	}
	for _, r := range results {
		if r.Text == "orphan row" {
			t.Error("orphan row leaked into results")
		}
	}
}
