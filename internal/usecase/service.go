package usecase

import (
	"context"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// Service is the query surface of the pipeline: one embedding model, one
// published (index, chunks) pair, one generation backend, owned
// explicitly and passed by reference into every handler. There is no
// ambient global state.
type Service struct {
	retrieve *RetrieveUseCase
	answer   *AnswerUseCase
	corpus   *CorpusHandle
	embedder port.Embedder
	topK     int
}

func NewService(retrieve *RetrieveUseCase, answer *AnswerUseCase, corpus *CorpusHandle, embedder port.Embedder, defaultTopK int) *Service {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &Service{
		retrieve: retrieve,
		answer:   answer,
		corpus:   corpus,
		embedder: embedder,
		topK:     defaultTopK,
	}
}

// Query runs retrieval plus grounded answering for one question. An empty
// query is an input error; everything downstream degrades to a well-formed
// response (refusal on no context, descriptive answer on backend failure).
func (s *Service) Query(ctx context.Context, query string, topK int) (domain.QueryResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.QueryResponse{}, domain.ErrEmptyQuery
	}
	if topK <= 0 {
		topK = s.topK
	}

	results, err := s.retrieve.Retrieve(ctx, query, topK)
	if err != nil {
		return domain.QueryResponse{}, err
	}

	answer := s.answer.Answer(ctx, query, results)
	return domain.QueryResponse{
		Query:    query,
		Answer:   answer.Answer,
		Context:  answer.ContextUsed,
		Grounded: answer.Grounded,
	}, nil
}

// Ready reports whether an index has been published.
func (s *Service) Ready() bool {
	return s.corpus.Loaded()
}

// Stats describes the served corpus and embedding model.
func (s *Service) Stats() domain.Stats {
	return domain.Stats{
		TotalChunks: s.corpus.Size(),
		Dimension:   s.embedder.Dimension(),
		Model:       s.embedder.ModelName(),
	}
}
