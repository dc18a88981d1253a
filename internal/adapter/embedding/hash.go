package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// HashEmbedder maps each text to a bag-of-words vector by hashing every
// word into a fixed number of buckets. It needs no external service and is
// fully deterministic, which makes it useful for tests and offline runs.
// Texts sharing words land in shared buckets and score higher than
// unrelated texts, so relative ranking is meaningful even though the
// vectors carry no learned semantics.
type HashEmbedder struct {
	dimension int
}

func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = 256
	}
	return &HashEmbedder{dimension: dimension}
}

func (e *HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.encode(text)
	}
	return embeddings, nil
}

func (e *HashEmbedder) encode(text string) []float32 {
	vec := make([]float32, e.dimension)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:'\"()[]")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%uint32(e.dimension)]++
	}
	return vec
}

func (e *HashEmbedder) Dimension() int { return e.dimension }

func (e *HashEmbedder) ModelName() string {
	return fmt.Sprintf("hash-fnv32-%d", e.dimension)
}
