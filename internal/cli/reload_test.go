package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"reco/config"
	"reco/internal/usecase"
)

func newFileApp(t *testing.T) *app {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "catalog"), 0755); err != nil {
		t.Fatal(err)
	}
	products := `[
  {"id": 1, "name": "Chocolate eclair", "category": "Pastry", "description": "Choux with chocolate cream"},
  {"id": 2, "name": "Lemon tart", "category": "Tart", "description": "Shortcrust with lemon curd"}
]`
	if err := os.WriteFile(filepath.Join(root, "catalog", "products.json"), []byte(products), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Catalog.Source = "files"
	cfg.Embedding.Provider = "mock"
	cfg.Embedding.Dimension = 32

	a, err := newApp(cfg, root)
	if err != nil {
		t.Fatalf("failed to wire app: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestReload_ReportsStoreStats(t *testing.T) {
	a := newFileApp(t)
	ctx := context.Background()

	if _, err := a.svc.RecordEvent(ctx, usecase.TrackInput{UserID: 7, ProductID: 1, Event: "view"}); err != nil {
		t.Fatal(err)
	}

	report, err := reload(ctx, a, nil)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if report.Rebuild.Indexed != 2 || report.Rebuild.Embedded != 2 {
		t.Errorf("unexpected rebuild result %+v", report.Rebuild)
	}
	want := struct{ catalog, embeddings, events int }{2, 2, 1}
	got := report.Store
	if got.CatalogItems != want.catalog || got.Embeddings != want.embeddings || got.Events != want.events {
		t.Errorf("store stats = %+v, want %+v", got, want)
	}

	report, err = reload(ctx, a, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Rebuild.CacheHits != 2 || report.Store.Embeddings != 2 {
		t.Errorf("expected second reload served from the embedding cache, got %+v / %+v", report.Rebuild, report.Store)
	}
}
