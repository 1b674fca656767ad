package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"reco/internal/domain"
)

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "Eclair", "category": "Pastry", "description": "Chocolate", "price": 3.2, "stock": 12.0, "imageUrl": "/e.png"},
			{"id": 2, "name": "Scone", "price": null}
		]`))
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL+"/api/", HTTPOptions{Logger: zerolog.Nop()})
	items, err := s.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ImageURL != "/e.png" || items[0].Stock != 12 {
		t.Errorf("unexpected item %+v", items[0])
	}
	if items[1].Category != "" || items[1].Price != 0 {
		t.Errorf("expected missing fields to default, got %+v", items[1])
	}
}

func TestHTTPSource_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL, HTTPOptions{MaxFailures: 2, OpenTimeout: time.Minute, Logger: zerolog.Nop()})
	for i := 0; i < 4; i++ {
		if _, err := s.FetchCatalog(context.Background()); err == nil {
			t.Fatal("expected error")
		}
	}
	if hits.Load() != 2 {
		t.Errorf("expected breaker to stop calls after 2 failures, got %d hits", hits.Load())
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	write("a.json", `[{"id": 1, "name": "Eclair"}]`)
	write("b/cakes.yaml", "- id: 2\n  name: Opera\n  category: Cake\n- id: 3\n  name: Fraisier\n")
	write("drafts/c.json", `[{"id": 9, "name": "Draft"}]`)
	write("notes.txt", "ignored")

	s := NewFileSource(dir, nil, []string{"drafts/**"})
	items, err := s.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ids []int
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("unexpected ids %v", ids)
	}
	if items[1].Category != "Cake" {
		t.Errorf("expected yaml fields decoded, got %+v", items[1])
	}
}

func TestFileSource_ParseError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not a list"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileSource(dir, nil, nil).FetchCatalog(context.Background()); err == nil {
		t.Error("expected parse error")
	}
}

type stubSource struct {
	items []domain.Item
	err   error
}

func (s stubSource) FetchCatalog(ctx context.Context) ([]domain.Item, error) {
	return s.items, s.err
}

type memSnapshots struct {
	items []domain.Item
	saves int
}

func (m *memSnapshots) SaveCatalog(items []domain.Item) error {
	m.items = items
	m.saves++
	return nil
}

func (m *memSnapshots) LoadCatalog() ([]domain.Item, error) {
	return m.items, nil
}

func TestFallbackSource(t *testing.T) {
	ctx := context.Background()
	snaps := &memSnapshots{}
	fresh := []domain.Item{{ID: 1}, {ID: 2}}

	got, err := NewFallbackSource(stubSource{items: fresh}, snaps, zerolog.Nop()).FetchCatalog(ctx)
	if err != nil || len(got) != 2 {
		t.Fatalf("expected upstream items, got %v, %v", got, err)
	}
	if snaps.saves != 1 {
		t.Error("expected snapshot saved after successful fetch")
	}

	got, err = NewFallbackSource(stubSource{err: errors.New("down")}, snaps, zerolog.Nop()).FetchCatalog(ctx)
	if err != nil || len(got) != 2 {
		t.Errorf("expected snapshot items, got %v, %v", got, err)
	}

	got, err = NewFallbackSource(stubSource{}, snaps, zerolog.Nop()).FetchCatalog(ctx)
	if err != nil || len(got) != 2 {
		t.Errorf("expected snapshot for empty upstream, got %v, %v", got, err)
	}
	if snaps.saves != 1 {
		t.Error("empty upstream must not overwrite the snapshot")
	}

	_, err = NewFallbackSource(stubSource{err: errors.New("down")}, &memSnapshots{}, zerolog.Nop()).FetchCatalog(ctx)
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("expected ErrCatalogUnavailable, got %v", err)
	}
}
