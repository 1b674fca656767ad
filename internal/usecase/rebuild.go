package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"reco/internal/domain"
	"reco/internal/engine"
	"reco/internal/metrics"
	"reco/internal/port"
)

// ProgressFunc reports embedding progress during a rebuild.
type ProgressFunc func(done, total int)

// RebuildUseCase turns the current catalog into a freshly published store.
type RebuildUseCase struct {
	engine    *engine.Engine
	catalog   port.CatalogSource
	embedder  port.Embedder
	cache     port.EmbeddingCache
	batchSize int
	logger    zerolog.Logger

	mu sync.Mutex
}

// NewRebuildUseCase creates a rebuild use case. cache may be nil.
func NewRebuildUseCase(
	eng *engine.Engine,
	catalog port.CatalogSource,
	embedder port.Embedder,
	cache port.EmbeddingCache,
	batchSize int,
	logger zerolog.Logger,
) *RebuildUseCase {
	if batchSize <= 0 {
		batchSize = 64
	}
	return &RebuildUseCase{
		engine:    eng,
		catalog:   catalog,
		embedder:  embedder,
		cache:     cache,
		batchSize: batchSize,
		logger:    logger.With().Str("component", "rebuild").Logger(),
	}
}

// RebuildResult contains the results of a rebuild.
type RebuildResult struct {
	Fetched    int           `json:"fetched"`
	Indexed    int           `json:"indexed"`
	Duplicates int           `json:"duplicates"`
	Rejected   int           `json:"rejected"`
	Embedded   int           `json:"embedded"`
	CacheHits  int           `json:"cache_hits"`
	Generation uint64        `json:"generation"`
	Duration   time.Duration `json:"duration"`
}

// Rebuild fetches the catalog, embeds item texts that are not cached yet
// and publishes a new store. On any failure the previous store stays in
// place and the error is returned.
func (u *RebuildUseCase) Rebuild(ctx context.Context, progress ProgressFunc) (*RebuildResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	start := time.Now()
	result := &RebuildResult{}

	items, err := u.catalog.FetchCatalog(ctx)
	if err != nil {
		metrics.RebuildFailures.Inc()
		u.logger.Warn().Err(err).Int("current_size", u.engine.Size()).Msg("catalog unavailable, keeping current store")
		return result, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	result.Fetched = len(items)

	unique := make([]domain.Item, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			result.Duplicates++
			continue
		}
		seen[it.ID] = struct{}{}
		unique = append(unique, it)
	}

	texts := make([]string, len(unique))
	for i, it := range unique {
		texts[i] = it.Text()
	}

	vectors, err := u.embedAll(ctx, texts, result, progress)
	if err != nil {
		metrics.RebuildFailures.Inc()
		u.logger.Error().Err(err).Msg("embedding failed, keeping current store")
		return result, fmt.Errorf("failed to embed catalog: %w", err)
	}

	entries := make([]engine.Entry, len(unique))
	for i, it := range unique {
		entries[i] = engine.Entry{ID: it.ID, Vector: vectors[texts[i]], Item: it}
	}

	stats := u.engine.Rebuild(entries)

	result.Indexed = stats.Rows
	result.Rejected = stats.Rejected
	result.Generation = stats.Generation
	result.Duration = time.Since(start)

	metrics.RebuildDuration.Observe(result.Duration.Seconds())
	metrics.CatalogSize.Set(float64(stats.Rows))
	u.logger.Info().
		Int("products", result.Indexed).
		Int("embedded", result.Embedded).
		Int("cache_hits", result.CacheHits).
		Dur("took", result.Duration).
		Msg("catalog rebuilt")

	return result, nil
}

// embedAll returns a vector for every distinct text, reading the cache
// first and embedding the rest in batches.
func (u *RebuildUseCase) embedAll(ctx context.Context, texts []string, result *RebuildResult, progress ProgressFunc) (map[string][]float32, error) {
	model := u.embedder.ModelName()
	vectors := make(map[string][]float32, len(texts))

	if u.cache != nil {
		cached, err := u.cache.GetEmbeddings(model, texts)
		if err != nil {
			u.logger.Warn().Err(err).Msg("embedding cache unreadable, embedding everything")
		} else {
			for text, vec := range cached {
				vectors[text] = vec
			}
		}
	}

	var missing []string
	queued := make(map[string]struct{})
	for _, text := range texts {
		if _, ok := vectors[text]; ok {
			continue
		}
		if _, ok := queued[text]; ok {
			continue
		}
		queued[text] = struct{}{}
		missing = append(missing, text)
	}
	result.CacheHits = len(texts) - len(missing)
	metrics.EmbeddingCacheHits.Add(float64(result.CacheHits))
	metrics.EmbeddingCacheMisses.Add(float64(len(missing)))

	fresh := make(map[string][]float32, len(missing))
	for i := 0; i < len(missing); i += u.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := i + u.batchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[i:end]

		embs, err := u.embedder.Embed(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(embs) != len(batch) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(embs), len(batch))
		}
		for j, text := range batch {
			fresh[text] = embs[j]
			vectors[text] = embs[j]
		}
		if progress != nil {
			progress(end, len(missing))
		}
	}
	result.Embedded = len(missing)

	if u.cache != nil && len(fresh) > 0 {
		if err := u.cache.PutEmbeddings(model, fresh); err != nil {
			u.logger.Warn().Err(err).Msg("failed to store embeddings")
		}
	}

	return vectors, nil
}
