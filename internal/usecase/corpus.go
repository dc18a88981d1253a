package usecase

import (
	"sync/atomic"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// CorpusHandle publishes the (index, chunks) pair as one indivisible unit.
// A rebuild swaps in a full replacement pair; concurrent readers see
// either the fully-old or fully-new pair, never a mix, and need no
// locking because both halves are immutable after publication.
type CorpusHandle struct {
	snap atomic.Pointer[corpusSnapshot]
}

type corpusSnapshot struct {
	index  port.VectorIndex
	chunks []domain.Chunk
}

func NewCorpusHandle() *CorpusHandle {
	return &CorpusHandle{}
}

// Swap atomically publishes a new (index, chunks) pair.
func (h *CorpusHandle) Swap(index port.VectorIndex, chunks []domain.Chunk) {
	h.snap.Store(&corpusSnapshot{index: index, chunks: chunks})
}

// Snapshot returns the current pair. ok is false before the first Swap.
func (h *CorpusHandle) Snapshot() (port.VectorIndex, []domain.Chunk, bool) {
	s := h.snap.Load()
	if s == nil {
		return nil, nil, false
	}
	return s.index, s.chunks, true
}

// Loaded reports whether a pair has been published.
func (h *CorpusHandle) Loaded() bool {
	return h.snap.Load() != nil
}

// Size returns the number of chunks in the published corpus, zero when
// nothing is loaded.
func (h *CorpusHandle) Size() int {
	s := h.snap.Load()
	if s == nil {
		return 0
	}
	return len(s.chunks)
}
