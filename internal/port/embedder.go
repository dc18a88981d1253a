package port

import "context"

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text, in input order.
	// Deterministic for a fixed model: the same string always yields the
	// same vector, and batch boundaries never affect the result.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension, fixed for the
	// embedder's lifetime.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
