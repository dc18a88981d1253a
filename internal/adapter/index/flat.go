// Package index provides a flat inner-product similarity index. Vectors
// are L2-normalized on insert, which turns inner-product search into
// cosine-similarity search. Brute force is fine at this corpus scale.
package index

import (
	"fmt"
	"math"
	"sort"

	"docqa/internal/port"
)

// Flat is an append-only matrix of unit-norm rows. It is not safe for
// concurrent mutation; after build it is read-only and concurrent searches
// need no locking.
type Flat struct {
	dim  int
	rows [][]float32
}

func NewFlat(dimension int) *Flat {
	return &Flat{dim: dimension}
}

// Add appends rows, normalizing each vector to unit length first.
func (f *Flat) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != f.dim {
			return fmt.Errorf("vector %d dimension mismatch: expected %d, got %d", i, f.dim, len(v))
		}
		f.rows = append(f.rows, normalize(v))
	}
	return nil
}

// Search returns the k highest-scoring rows for the query as (score, row)
// pairs sorted by descending score; exact ties go to the lower row index.
// k is clamped to the row count, and an empty index yields an empty result.
func (f *Flat) Search(query []float32, k int) ([]port.Match, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", f.dim, len(query))
	}
	if len(f.rows) == 0 || k <= 0 {
		return nil, nil
	}

	q := normalize(query)
	matches := make([]port.Match, len(f.rows))
	for i, row := range f.rows {
		matches[i] = port.Match{Score: dot(q, row), Row: i}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Row < matches[j].Row
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

func (f *Flat) Len() int { return len(f.rows) }

func (f *Flat) Dimension() int { return f.dim }

// Row returns the stored unit-norm vector at row i.
func (f *Flat) Row(i int) []float32 { return f.rows[i] }

// normalize returns a unit-L2-norm copy of v. A zero vector is returned
// as a zero copy rather than dividing by zero.
func normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		copy(out, v)
		return out
	}
	inv := 1.0 / math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
