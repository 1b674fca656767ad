package engine

import (
	"math/rand"
	"testing"
)

func abcStore() *Store {
	s := NewStore()
	s.Rebuild([]Entry{
		{ID: 1, Vector: []float32{1, 0}},     // A
		{ID: 2, Vector: []float32{0, 1}},     // B
		{ID: 3, Vector: []float32{0.7, 0.7}}, // C
	})
	return s
}

func TestTopK_ABC(t *testing.T) {
	got := abcStore().Snapshot().TopK([]float32{1, 0}, 3, nil)

	want := []int{1, 3, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %d, got %d", i, id, got[i].ID)
		}
	}
	if !floatEquals(got[0].Score, 1.0, 1e-6) {
		t.Errorf("expected self similarity 1.0, got %f", got[0].Score)
	}
	if !floatEquals(got[1].Score, 0.7071, 1e-3) {
		t.Errorf("expected ~0.707 for C, got %f", got[1].Score)
	}
	if !floatEquals(got[2].Score, 0.0, 1e-6) {
		t.Errorf("expected 0 for B, got %f", got[2].Score)
	}
}

func TestTopK_LengthBounds(t *testing.T) {
	snap := abcStore().Snapshot()

	tests := []struct {
		name string
		k    int
		want int
	}{
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"one", 1, 1},
		{"exact", 3, 3},
		{"larger than store", 10, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := snap.TopK([]float32{1, 1}, tc.k, nil)
			if got == nil {
				t.Fatal("expected non-nil result")
			}
			if len(got) != tc.want {
				t.Errorf("expected %d results, got %d", tc.want, len(got))
			}
		})
	}
}

func TestTopK_Exclusion(t *testing.T) {
	snap := abcStore().Snapshot()
	got := snap.TopK([]float32{1, 0}, 3, map[int]struct{}{1: {}})

	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	for _, r := range got {
		if r.ID == 1 {
			t.Error("excluded id returned")
		}
	}
}

func TestTopK_TiesKeepRowOrder(t *testing.T) {
	s := NewStore()
	s.Rebuild([]Entry{
		{ID: 30, Vector: []float32{1, 0}},
		{ID: 10, Vector: []float32{2, 0}},
		{ID: 20, Vector: []float32{5, 0}},
	})

	got := s.Snapshot().TopK([]float32{1, 0}, 3, nil)
	want := []int{30, 10, 20}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %d, got %d", i, id, got[i].ID)
		}
	}
}

func TestTopK_Degenerate(t *testing.T) {
	if got := NewStore().Snapshot().TopK([]float32{1, 0}, 5, nil); len(got) != 0 {
		t.Errorf("expected empty result for empty store, got %v", got)
	}

	snap := abcStore().Snapshot()
	if got := snap.TopK([]float32{1, 0, 0}, 5, nil); len(got) != 0 {
		t.Errorf("expected empty result for wrong width, got %v", got)
	}
	if got := snap.TopK(nil, 5, nil); len(got) != 0 {
		t.Errorf("expected empty result for nil query, got %v", got)
	}
}

func TestTopK_NonIncreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	entries := make([]Entry, 200)
	for i := range entries {
		v := make([]float32, 16)
		for j := range v {
			v[j] = rng.Float32()*2 - 1
		}
		entries[i] = Entry{ID: i, Vector: v}
	}
	s := NewStore()
	s.Rebuild(entries)

	got := s.Snapshot().TopK(entries[5].Vector, 50, nil)
	if len(got) != 50 {
		t.Fatalf("expected 50 results, got %d", len(got))
	}
	if got[0].ID != 5 {
		t.Errorf("expected query item first, got %d", got[0].ID)
	}
	seen := make(map[int]bool)
	for i, r := range got {
		if i > 0 && r.Score > got[i-1].Score {
			t.Errorf("scores increase at %d: %f > %f", i, r.Score, got[i-1].Score)
		}
		if seen[r.ID] {
			t.Errorf("duplicate id %d", r.ID)
		}
		seen[r.ID] = true
	}
}

func BenchmarkTopK(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	entries := make([]Entry, 5000)
	for i := range entries {
		v := make([]float32, 384)
		for j := range v {
			v[j] = rng.Float32()
		}
		entries[i] = Entry{ID: i, Vector: v}
	}
	s := NewStore()
	s.Rebuild(entries)
	snap := s.Snapshot()
	query := entries[0].Vector

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		snap.TopK(query, 10, nil)
	}
}
