package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// DefaultTopK is the number of chunks retrieved when the caller does not
// ask for a specific count.
const DefaultTopK = 3

// RetrieveUseCase embeds a query, searches the vector index and hydrates
// row indices back into chunk records.
//
// Precondition: the embedder must be the same one the index was built
// with. A mismatched embedder silently produces meaningless scores; this
// is documented, not enforced at runtime.
type RetrieveUseCase struct {
	embedder port.Embedder
	corpus   *CorpusHandle
	logger   *slog.Logger
}

func NewRetrieveUseCase(embedder port.Embedder, corpus *CorpusHandle, logger *slog.Logger) *RetrieveUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetrieveUseCase{embedder: embedder, corpus: corpus, logger: logger}
}

// Retrieve returns the topK most similar chunks for the query, highest
// score first. No loaded index or an empty corpus yields an empty result,
// not an error: callers treat that as "no context available".
func (u *RetrieveUseCase) Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	idx, chunks, ok := u.corpus.Snapshot()
	if !ok || len(chunks) == 0 {
		return nil, nil
	}

	vectors, err := u.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}

	matches, err := idx.Search(vectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]domain.RetrievalResult, 0, len(matches))
	for _, m := range matches {
		if m.Row < 0 || m.Row >= len(chunks) {
			// Stale or corrupted index; drop the row instead of crashing
			// the query path.
			u.logger.Warn("dropping out-of-range row from search results",
				"row", m.Row, "corpus_size", len(chunks))
			continue
		}
		chunk := chunks[m.Row]
		results = append(results, domain.RetrievalResult{
			Text:   chunk.Text,
			Source: chunk.Source,
			Score:  m.Score,
		})
	}
	return results, nil
}
