package cache

import (
	"testing"
	"time"

	"reco/internal/domain"
)

func results(ids ...int) []domain.ScoredItem {
	out := make([]domain.ScoredItem, len(ids))
	for i, id := range ids {
		out[i] = domain.ScoredItem{Item: domain.Item{ID: id}, Score: 1}
	}
	return out
}

func TestSearchCache_HitAndMiss(t *testing.T) {
	c := NewSearchCache(10, time.Minute)

	if _, ok := c.Get("eclair", 5, 1); ok {
		t.Error("expected miss on empty cache")
	}

	c.Put("eclair", 5, 1, results(1, 2))
	got, ok := c.Get("eclair", 5, 1)
	if !ok || len(got) != 2 {
		t.Fatalf("expected hit, got %v %v", got, ok)
	}

	if _, ok := c.Get("eclair", 6, 1); ok {
		t.Error("different k must miss")
	}
}

func TestSearchCache_GenerationChange(t *testing.T) {
	c := NewSearchCache(10, time.Minute)
	c.Put("tart", 3, 1, results(4))

	if _, ok := c.Get("tart", 3, 2); ok {
		t.Error("expected miss after rebuild")
	}
	if c.Size() != 0 {
		t.Errorf("expected stale entry evicted, size=%d", c.Size())
	}
}

func TestSearchCache_TTL(t *testing.T) {
	c := NewSearchCache(10, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put("scone", 3, 1, results(1))
	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("scone", 3, 1); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestSearchCache_LRUEviction(t *testing.T) {
	c := NewSearchCache(2, time.Minute)
	c.Put("a", 1, 1, results(1))
	c.Put("b", 1, 1, results(2))

	c.Get("a", 1, 1)
	c.Put("c", 1, 1, results(3))

	if _, ok := c.Get("b", 1, 1); ok {
		t.Error("expected least recently used entry evicted")
	}
	if _, ok := c.Get("a", 1, 1); !ok {
		t.Error("expected recently used entry kept")
	}
	if c.Size() != 2 {
		t.Errorf("expected size 2, got %d", c.Size())
	}

	c.Invalidate()
	if c.Size() != 0 {
		t.Error("expected empty cache after invalidate")
	}
}
