package store

import (
	"path/filepath"
	"testing"

	"reco/config"
	"reco/internal/domain"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "reco.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCatalogSnapshot(t *testing.T) {
	s := newTestStore(t)

	items, err := s.LoadCatalog()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty catalog, got %d", len(items))
	}

	first := []domain.Item{
		{ID: 30, Name: "Eclair", Price: 3.5},
		{ID: 10, Name: "Macaron", Category: "Biscuit"},
		{ID: 20, Name: "Tart"},
	}
	if err := s.SaveCatalog(first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveCatalog(first[:2]); err != nil {
		t.Fatal(err)
	}

	items, err = s.LoadCatalog()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items after overwrite, got %d", len(items))
	}
	if items[0].ID != 30 || items[1].ID != 10 {
		t.Errorf("expected saved order, got %v", items)
	}
	if items[0].Price != 3.5 || items[1].Category != "Biscuit" {
		t.Errorf("fields not preserved: %+v", items)
	}
}

func TestEmbeddingCache(t *testing.T) {
	s := newTestStore(t)

	err := s.PutEmbeddings("model-a", map[string][]float32{
		"eclair": {1, 2},
		"tart":   {3, 4},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEmbeddings("model-a", []string{"eclair", "tart", "scone"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got))
	}
	if got["tart"][1] != 4 {
		t.Errorf("unexpected vector %v", got["tart"])
	}

	other, _ := s.GetEmbeddings("model-b", []string{"eclair"})
	if len(other) != 0 {
		t.Error("expected cache to be scoped by model")
	}

	if err := s.ClearEmbeddings(); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetEmbeddings("model-a", []string{"eclair"})
	if len(got) != 0 {
		t.Error("expected cache cleared")
	}
}

func TestEventRecords(t *testing.T) {
	s := newTestStore(t)

	for _, rec := range []string{`{"a":1}`, `{"a":2}`, `{"a":3}`} {
		if _, err := s.AppendEventRecord([]byte(rec)); err != nil {
			t.Fatal(err)
		}
	}

	var seen []string
	var lastSeq uint64
	err := s.ForEachEventRecord(func(seq uint64, data []byte) error {
		if seq <= lastSeq {
			t.Errorf("sequence not increasing: %d after %d", seq, lastSeq)
		}
		lastSeq = seq
		seen = append(seen, string(data))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 3 || seen[0] != `{"a":1}` || seen[2] != `{"a":3}` {
		t.Errorf("unexpected records %v", seen)
	}

	st, err := s.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Events != 3 {
		t.Errorf("expected 3 events, got %d", st.Events)
	}
}

func TestMigrate(t *testing.T) {
	s := newTestStore(t)
	cfg := config.DefaultConfig()

	result, err := s.CheckMigration(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !result.NeedsMigration {
		t.Error("expected fresh database to need migration")
	}

	if _, err := s.Migrate(cfg); err != nil {
		t.Fatal(err)
	}
	result, _ = s.CheckMigration(cfg)
	if result.NeedsMigration || result.InvalidateEmbedding {
		t.Errorf("expected up-to-date schema, got %+v", result)
	}

	if err := s.PutEmbeddings(cfg.Embedding.Model, map[string][]float32{"x": {1}}); err != nil {
		t.Fatal(err)
	}

	changed := config.DefaultConfig()
	changed.Embedding.Model = "text-embedding-3-large"
	result, err = s.Migrate(changed)
	if err != nil {
		t.Fatal(err)
	}
	if !result.InvalidateEmbedding {
		t.Error("expected model change to invalidate embeddings")
	}
	st, _ := s.Stats()
	if st.Embeddings != 0 {
		t.Errorf("expected embedding cache cleared, got %d entries", st.Embeddings)
	}
}

func TestComputeConfigHash(t *testing.T) {
	a := config.DefaultConfig()
	b := config.DefaultConfig()
	if ComputeConfigHash(a) != ComputeConfigHash(b) {
		t.Error("expected identical configs to hash equally")
	}

	b.Engine.TauDays = 30
	if ComputeConfigHash(a) != ComputeConfigHash(b) {
		t.Error("engine settings should not affect the embedding hash")
	}

	b.Embedding.Dimension = 8
	if ComputeConfigHash(a) == ComputeConfigHash(b) {
		t.Error("expected dimension change to alter hash")
	}
}
