package index

import (
	"math"
	"testing"
)

func TestAddNormalizesRows(t *testing.T) {
	f := NewFlat(3)

	err := f.Add([][]float32{
		{3, 0, 4},
		{0, 10, 0},
		{1, 1, 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < f.Len(); i++ {
		var norm float64
		for _, x := range f.Row(i) {
			norm += float64(x) * float64(x)
		}
		norm = math.Sqrt(norm)
		if math.Abs(norm-1.0) > 1e-5 {
			t.Errorf("row %d norm = %f, want 1.0", i, norm)
		}
	}
}

func TestAddDimensionMismatch(t *testing.T) {
	f := NewFlat(3)
	if err := f.Add([][]float32{{1, 2}}); err == nil {
		t.Error("expected error for dimension mismatch")
	}
	if f.Len() != 0 {
		t.Errorf("expected no rows after failed add, got %d", f.Len())
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	f := NewFlat(3)
	matches, err := f.Search([]float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("empty index search must not error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected empty result, got %d matches", len(matches))
	}
}

func TestSearchScoreOrdering(t *testing.T) {
	f := NewFlat(2)
	// Rows at increasing angles from the x axis.
	if err := f.Add([][]float32{
		{1, 0},
		{1, 1},
		{0, 1},
		{-1, 0},
	}); err != nil {
		t.Fatal(err)
	}

	matches, err := f.Search([]float32{5, 0}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 4 {
		t.Fatalf("expected 4 matches, got %d", len(matches))
	}

	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("scores not non-increasing: %f before %f", matches[i-1].Score, matches[i].Score)
		}
	}
	if matches[0].Row != 0 {
		t.Errorf("expected row 0 first, got %d", matches[0].Row)
	}
	if matches[3].Row != 3 {
		t.Errorf("expected opposite vector last, got row %d", matches[3].Row)
	}
}

func TestSearchTieBreaksOnLowerRow(t *testing.T) {
	f := NewFlat(2)
	// Identical vectors produce exactly equal scores.
	if err := f.Add([][]float32{
		{0, 1},
		{1, 0},
		{1, 0},
		{1, 0},
	}); err != nil {
		t.Fatal(err)
	}

	matches, err := f.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3}
	for i, m := range matches {
		if m.Row != want[i] {
			t.Errorf("position %d: expected row %d, got %d", i, want[i], m.Row)
		}
	}
}

func TestSearchClampsK(t *testing.T) {
	f := NewFlat(2)
	if err := f.Add([][]float32{{1, 0}, {0, 1}}); err != nil {
		t.Fatal(err)
	}

	matches, err := f.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Errorf("expected k clamped to 2, got %d", len(matches))
	}
}

func TestSearchDimensionMismatch(t *testing.T) {
	f := NewFlat(3)
	if _, err := f.Search([]float32{1, 0}, 1); err == nil {
		t.Error("expected error for query dimension mismatch")
	}
}

func TestSearchScoresAreCosine(t *testing.T) {
	f := NewFlat(2)
	if err := f.Add([][]float32{{2, 0}}); err != nil {
		t.Fatal(err)
	}

	// Same direction, different magnitude: cosine must be 1.
	matches, err := f.Search([]float32{7, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(matches[0].Score-1.0) > 1e-5 {
		t.Errorf("expected cosine 1.0, got %f", matches[0].Score)
	}

	// Orthogonal: cosine must be 0.
	matches, err = f.Search([]float32{0, 3}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(matches[0].Score) > 1e-5 {
		t.Errorf("expected cosine 0.0, got %f", matches[0].Score)
	}
}

func TestZeroVector(t *testing.T) {
	f := NewFlat(2)
	if err := f.Add([][]float32{{0, 0}, {1, 0}}); err != nil {
		t.Fatal(err)
	}
	matches, err := f.Search([]float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if matches[0].Row != 1 {
		t.Errorf("expected non-zero row to win, got row %d", matches[0].Row)
	}
}
