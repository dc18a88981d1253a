package port

import "docqa/internal/domain"

// VectorIndex stores row-normalized embeddings and answers top-k
// inner-product queries. Append-only during build, read-only while serving.
type VectorIndex interface {
	// Add appends rows, normalizing each vector to unit L2 norm first.
	// Fails on a dimension mismatch.
	Add(vectors [][]float32) error

	// Search normalizes the query and returns the k highest-scoring rows
	// as (score, row) pairs in non-increasing score order. Ties go to the
	// lower row index. k is clamped to the row count; an empty index
	// yields an empty result, never an error.
	Search(query []float32, k int) ([]Match, error)

	// Len returns the number of stored rows.
	Len() int

	// Row returns the stored (normalized) vector at the given row index.
	Row(i int) []float32

	// Dimension returns the vector dimension.
	Dimension() int
}

// Match is a single search hit: inner product of unit vectors and the
// index of the matched row.
type Match struct {
	Score float64
	Row   int
}

// IndexStore persists and loads the paired (VectorIndex, chunk list) as a
// single unit. A load never yields a partially-populated state: either
// both artifacts are present and consistent, or the pair is absent.
type IndexStore interface {
	// Save writes a full replacement (index, chunks) pair.
	Save(index VectorIndex, chunks []domain.Chunk) error

	// Load reads the pair. ok is false when either artifact is missing
	// (caller must run the build step). A present pair whose vector row
	// count disagrees with the chunk count fails with domain.ErrCorrupt.
	Load() (index VectorIndex, chunks []domain.Chunk, ok bool, err error)

	Close() error
}
