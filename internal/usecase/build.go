package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"docqa/internal/adapter/extractor"
	"docqa/internal/adapter/index"
	"docqa/internal/domain"
	"docqa/internal/port"
)

// DefaultMaxTotalChunks caps the corpus size across all documents.
const DefaultMaxTotalChunks = 1000

// BuildUseCase runs the one-shot build phase: discover documents, extract
// text, chunk, embed and persist the (index, chunks) pair.
type BuildUseCase struct {
	walker    port.FileWalker
	extractor *extractor.Registry
	chunker   port.Chunker
	embedder  port.Embedder
	store     port.IndexStore
	maxChunks int
	batchSize int
	logger    *slog.Logger
}

func NewBuildUseCase(
	walker port.FileWalker,
	registry *extractor.Registry,
	chunker port.Chunker,
	embedder port.Embedder,
	store port.IndexStore,
	maxTotalChunks int,
	batchSize int,
	logger *slog.Logger,
) *BuildUseCase {
	if maxTotalChunks <= 0 {
		maxTotalChunks = DefaultMaxTotalChunks
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BuildUseCase{
		walker:    walker,
		extractor: registry,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		maxChunks: maxTotalChunks,
		batchSize: batchSize,
		logger:    logger,
	}
}

// BuildResult summarizes a build run.
type BuildResult struct {
	DocsProcessed int
	DocsSkipped   int
	ChunksCreated int
	Index         port.VectorIndex
	Chunks        []domain.Chunk
	Errors        []string
}

// Build processes every matching document under root and persists a full
// replacement (index, chunks) pair. Once the corpus-level chunk cap is
// hit, remaining documents are skipped; walk order decides which
// documents are retained. progress, if non-nil, is called after each
// embedded batch with (done, total) chunk counts.
func (u *BuildUseCase) Build(ctx context.Context, root string, progress func(done, total int)) (*BuildResult, error) {
	result := &BuildResult{}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}

	var corpus []domain.Chunk
	for _, file := range files {
		if len(corpus) >= u.maxChunks {
			u.logger.Warn("corpus chunk cap reached, skipping remaining documents",
				"cap", u.maxChunks)
			break
		}

		text, err := u.extractor.Extract(file.Path)
		if err != nil {
			result.DocsSkipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.Path, err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			result.DocsSkipped++
			continue
		}

		chunks := u.chunker.Chunk(text, filepath.Base(file.Path))
		if remaining := u.maxChunks - len(corpus); len(chunks) > remaining {
			chunks = chunks[:remaining]
		}
		corpus = append(corpus, chunks...)
		result.DocsProcessed++
		u.logger.Info("document chunked",
			"source", filepath.Base(file.Path), "chunks", len(chunks), "total", len(corpus))
	}

	idx := index.NewFlat(u.embedder.Dimension())
	if len(corpus) > 0 {
		if err := u.embedCorpus(ctx, corpus, idx, progress); err != nil {
			return nil, err
		}
	}

	if err := u.store.Save(idx, corpus); err != nil {
		return nil, fmt.Errorf("failed to persist index: %w", err)
	}

	result.ChunksCreated = len(corpus)
	result.Index = idx
	result.Chunks = corpus
	return result, nil
}

// embedCorpus encodes chunk texts in fixed-size batches and appends the
// vectors in corpus order, preserving the chunk/row pairing.
func (u *BuildUseCase) embedCorpus(ctx context.Context, corpus []domain.Chunk, idx *index.Flat, progress func(done, total int)) error {
	total := len(corpus)
	for i := 0; i < total; i += u.batchSize {
		end := i + u.batchSize
		if end > total {
			end = total
		}

		texts := make([]string, end-i)
		for j := i; j < end; j++ {
			texts[j-i] = corpus[j].Text
		}

		vectors, err := u.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
		}
		if err := idx.Add(vectors); err != nil {
			return fmt.Errorf("failed to index batch: %w", err)
		}

		if progress != nil {
			progress(end, total)
		}
	}
	return nil
}
