package port

import "docqa/internal/domain"

// Chunker splits extracted text into bounded overlapping chunks with
// source provenance. Oversized input is truncated, never rejected, so
// chunking does not fail.
type Chunker interface {
	Chunk(text, source string) []domain.Chunk
}
