package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"reco/config"
	"reco/internal/adapter/cache"
	"reco/internal/domain"
	"reco/internal/engine"
	"reco/internal/metrics"
	"reco/internal/port"
)

// Service is the entry point used by the HTTP API and the CLI. It owns k
// handling, the clock and the collaborators around the engine.
type Service struct {
	engine   *engine.Engine
	rebuild  *RebuildUseCase
	embedder port.Embedder
	events   port.EventLog
	cache    *cache.SearchCache
	defaultK int
	maxK     int
	clock    func() time.Time
	logger   zerolog.Logger
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock replaces time.Now as the reference time for decay.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) { s.clock = clock }
}

// WithSearchCache enables caching of text-search results.
func WithSearchCache(c *cache.SearchCache) ServiceOption {
	return func(s *Service) { s.cache = c }
}

func NewService(
	eng *engine.Engine,
	rebuild *RebuildUseCase,
	embedder port.Embedder,
	events port.EventLog,
	cfg config.EngineConfig,
	logger zerolog.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		engine:   eng,
		rebuild:  rebuild,
		embedder: embedder,
		events:   events,
		defaultK: cfg.DefaultK,
		maxK:     cfg.MaxK,
		clock:    time.Now,
		logger:   logger.With().Str("component", "service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveK applies the default to an unset k and clamps large values.
func (s *Service) ResolveK(k int) (int, error) {
	switch {
	case k < 0:
		return 0, fmt.Errorf("%w: got %d", domain.ErrInvalidK, k)
	case k == 0:
		return s.defaultK, nil
	case s.maxK > 0 && k > s.maxK:
		return s.maxK, nil
	default:
		return k, nil
	}
}

// Reload rebuilds the store from the catalog source.
func (s *Service) Reload(ctx context.Context, progress ProgressFunc) (*RebuildResult, error) {
	result, err := s.rebuild.Rebuild(ctx, progress)
	if err == nil && s.cache != nil {
		s.cache.Invalidate()
	}
	return result, err
}

// CurrentSize returns the number of indexed products.
func (s *Service) CurrentSize() int {
	return s.engine.Size()
}

// SearchByText embeds query and ranks the catalog against it.
func (s *Service) SearchByText(ctx context.Context, query string, k int) ([]domain.ScoredItem, error) {
	defer observe("search", time.Now())

	k, err := s.ResolveK(k)
	if err != nil {
		metrics.Requests.WithLabelValues("search", "rejected").Inc()
		return nil, err
	}
	// Ranking, metadata and the cache key all come from one snapshot so a
	// concurrent rebuild cannot mix generations.
	snap := s.engine.Snapshot()
	if snap.Size() == 0 {
		metrics.Requests.WithLabelValues("search", "empty").Inc()
		return []domain.ScoredItem{}, nil
	}

	gen := snap.Generation()
	if s.cache != nil {
		if hit, ok := s.cache.Get(query, k, gen); ok {
			metrics.SearchCacheHits.Inc()
			metrics.Requests.WithLabelValues("search", "ok").Inc()
			return hit, nil
		}
		metrics.SearchCacheMisses.Inc()
	}

	vecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		metrics.Requests.WithLabelValues("search", "error").Inc()
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vecs) != 1 {
		metrics.Requests.WithLabelValues("search", "error").Inc()
		return nil, fmt.Errorf("embedder returned %d vectors for 1 query", len(vecs))
	}

	results := withItems(snap, snap.TopK(vecs[0], k, nil))
	if s.cache != nil {
		s.cache.Put(query, k, gen, results)
	}
	metrics.Requests.WithLabelValues("search", "ok").Inc()
	return results, nil
}

// SimilarToItem ranks the catalog against a stored product.
func (s *Service) SimilarToItem(ctx context.Context, id, k int) ([]domain.ScoredItem, error) {
	defer observe("similar", time.Now())

	k, err := s.ResolveK(k)
	if err != nil {
		metrics.Requests.WithLabelValues("similar", "rejected").Inc()
		return nil, err
	}
	snap := s.engine.Snapshot()
	metrics.Requests.WithLabelValues("similar", "ok").Inc()
	return withItems(snap, snap.Similar(id, k)), nil
}

// RecommendInput carries the optional signals for a recommendation.
type RecommendInput struct {
	UserID  *int
	History []string
	K       int
}

// RecommendOutput is a ranked list and the cascade stage behind it.
type RecommendOutput struct {
	Items  []domain.ScoredItem `json:"items"`
	Source engine.Source       `json:"source"`
}

// RecommendForUser builds a recommendation from the user's events, the
// supplied history or, failing both, global popularity.
func (s *Service) RecommendForUser(ctx context.Context, in RecommendInput) (*RecommendOutput, error) {
	defer observe("recommend", time.Now())

	k, err := s.ResolveK(in.K)
	if err != nil {
		metrics.Requests.WithLabelValues("recommend", "rejected").Inc()
		return nil, err
	}

	events, err := s.events.LoadEvents(ctx)
	if err != nil {
		// Without events the cascade still answers from history or catalog order.
		s.logger.Warn().Err(err).Msg("event log unavailable")
		events = nil
	}

	rec := s.engine.RecommendForUser(engine.RecommendRequest{
		UserID:  in.UserID,
		History: in.History,
		K:       k,
	}, events, s.clock())

	metrics.RecommendSource.WithLabelValues(string(rec.Source)).Inc()
	metrics.Requests.WithLabelValues("recommend", "ok").Inc()
	return &RecommendOutput{Items: withItems(rec.Snapshot, rec.Items), Source: rec.Source}, nil
}

// TrackInput is a raw interaction as received from a client.
type TrackInput struct {
	UserID    int
	ProductID int
	Event     string
	TS        string
}

// RecordEvent appends an interaction to the event log. Unknown or empty
// kinds are stored as other. A missing timestamp means now; an unreadable
// one is rejected.
func (s *Service) RecordEvent(ctx context.Context, in TrackInput) (domain.InteractionEvent, error) {
	e := domain.InteractionEvent{
		UserID: in.UserID,
		ItemID: in.ProductID,
		Kind:   domain.ParseEventKind(in.Event),
	}
	if in.TS == "" {
		e.Timestamp = s.clock().UTC()
	} else {
		ts, err := domain.ParseTimestamp(in.TS)
		if err != nil {
			return e, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
		}
		e.Timestamp = ts
	}

	if err := s.events.AppendEvent(ctx, e); err != nil {
		metrics.Requests.WithLabelValues("track", "error").Inc()
		return e, fmt.Errorf("failed to record event: %w", err)
	}
	metrics.EventsAppended.WithLabelValues(e.Kind.String()).Inc()
	metrics.Requests.WithLabelValues("track", "ok").Inc()
	return e, nil
}

// withItems attaches product records from the snapshot that produced the
// ranking.
func withItems(snap *engine.Snapshot, ranked []engine.ScoredID) []domain.ScoredItem {
	out := make([]domain.ScoredItem, len(ranked))
	for i, r := range ranked {
		item, _ := snap.Item(r.ID)
		out[i] = domain.ScoredItem{Item: item, Score: r.Score}
	}
	return out
}

func observe(op string, start time.Time) {
	metrics.RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
