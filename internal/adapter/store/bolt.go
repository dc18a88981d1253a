// Package store persists the paired (vector index, chunk list) in a single
// BoltDB file. Both artifacts are written in one transaction and read as
// one unit: a load is either complete and consistent, absent, or corrupt.
package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"go.etcd.io/bbolt"

	"docqa/internal/adapter/index"
	"docqa/internal/domain"
	"docqa/internal/port"
)

var (
	bucketVectors = []byte("vectors")
	bucketChunks  = []byte("chunks")
	bucketMeta    = []byte("meta")
	keyMeta       = []byte("index_meta")
)

type indexMeta struct {
	Count     int `json:"count"`
	Dimension int `json:"dimension"`
}

// Bolt is a BoltDB-backed IndexStore.
type Bolt struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Bolt{db: db}, nil
}

// Save writes a full replacement (index, chunks) pair in one transaction.
// Existing artifacts are dropped first; the pair is never partially
// updated in place.
func (s *Bolt) Save(idx port.VectorIndex, chunks []domain.Chunk) error {
	if idx.Len() != len(chunks) {
		return fmt.Errorf("refusing to save: %d vectors but %d chunks", idx.Len(), len(chunks))
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketVectors, bucketChunks, bucketMeta} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}

		vb := tx.Bucket(bucketVectors)
		for i := 0; i < idx.Len(); i++ {
			if err := vb.Put(rowKey(i), encodeVector(idx.Row(i))); err != nil {
				return err
			}
		}

		cb := tx.Bucket(bucketChunks)
		for i, chunk := range chunks {
			data, err := json.Marshal(chunk)
			if err != nil {
				return err
			}
			if err := cb.Put(rowKey(i), data); err != nil {
				return err
			}
		}

		meta, err := json.Marshal(indexMeta{Count: idx.Len(), Dimension: idx.Dimension()})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyMeta, meta)
	})
}

// Load reads the persisted pair. ok is false when either artifact is
// missing; counts that disagree fail with domain.ErrCorrupt, never a
// silent truncation. On success index.Len() == len(chunks).
func (s *Bolt) Load() (port.VectorIndex, []domain.Chunk, bool, error) {
	var (
		meta    indexMeta
		vectors [][]float32
		chunks  []domain.Chunk
		present bool
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		mb := tx.Bucket(bucketMeta)
		vb := tx.Bucket(bucketVectors)
		cb := tx.Bucket(bucketChunks)
		if mb == nil || vb == nil || cb == nil {
			return nil
		}
		raw := mb.Get(keyMeta)
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &meta); err != nil {
			return fmt.Errorf("unreadable index metadata: %w", err)
		}
		present = true

		if err := vb.ForEach(func(_, v []byte) error {
			vec, err := decodeVector(v)
			if err != nil {
				return err
			}
			vectors = append(vectors, vec)
			return nil
		}); err != nil {
			return err
		}

		return cb.ForEach(func(_, v []byte) error {
			var chunk domain.Chunk
			if err := json.Unmarshal(v, &chunk); err != nil {
				return fmt.Errorf("unreadable chunk record: %w", err)
			}
			chunks = append(chunks, chunk)
			return nil
		})
	})
	if err != nil {
		return nil, nil, false, err
	}
	if !present {
		return nil, nil, false, nil
	}

	if len(vectors) != len(chunks) || len(vectors) != meta.Count {
		return nil, nil, false, fmt.Errorf("%w: %d vectors, %d chunks, meta says %d",
			domain.ErrCorrupt, len(vectors), len(chunks), meta.Count)
	}

	idx := index.NewFlat(meta.Dimension)
	if err := idx.Add(vectors); err != nil {
		return nil, nil, false, fmt.Errorf("%w: %v", domain.ErrCorrupt, err)
	}
	return idx, chunks, true, nil
}

func (s *Bolt) Close() error { return s.db.Close() }

// rowKey is a big-endian row index, so bucket iteration preserves corpus
// order. That ordering is what keeps embedding[i] paired with corpus[i]
// across a persistence round-trip.
func rowKey(i int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(i))
	return key
}

func encodeVector(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(x))
	}
	return out
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: vector record of %d bytes", domain.ErrCorrupt, len(data))
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return v, nil
}
