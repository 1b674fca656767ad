package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"reco/internal/domain"
)

// Source names the cascade stage that produced a recommendation.
type Source string

const (
	SourceProfile    Source = "profile"
	SourceHistory    Source = "history"
	SourcePopularity Source = "popularity"
	SourceEmpty      Source = "empty"
)

// Options configures an Engine.
type Options struct {
	Weights        EventWeights
	TauDays        float64
	ProfileEpsilon float64
	Logger         zerolog.Logger
}

// DefaultOptions returns the stock engine settings with a no-op logger.
func DefaultOptions() Options {
	return Options{
		Weights:        DefaultEventWeights(),
		TauDays:        DefaultTauDays,
		ProfileEpsilon: DefaultProfileEpsilon,
		Logger:         zerolog.Nop(),
	}
}

// Engine ranks the catalog against text queries, reference items and user
// taste profiles.
type Engine struct {
	store    *Store
	profiles *ProfileBuilder
	logger   zerolog.Logger
}

// New creates an engine with an empty store. Zero-valued weights and a
// non-positive tau fall back to the defaults.
func New(opts Options) *Engine {
	if opts.Weights == (EventWeights{}) {
		opts.Weights = DefaultEventWeights()
	}
	pb := NewProfileBuilder(opts.Weights, opts.TauDays)
	if opts.ProfileEpsilon > 0 {
		pb.Epsilon = opts.ProfileEpsilon
	}
	return &Engine{
		store:    NewStore(),
		profiles: pb,
		logger:   opts.Logger.With().Str("component", "engine").Logger(),
	}
}

// Rebuild replaces the indexed catalog.
func (e *Engine) Rebuild(entries []Entry) RebuildStats {
	stats := e.store.Rebuild(entries)
	ev := e.logger.Info()
	if stats.Duplicates > 0 || stats.Rejected > 0 {
		ev = e.logger.Warn()
	}
	ev.Int("rows", stats.Rows).
		Int("dimension", stats.Dimension).
		Int("duplicates", stats.Duplicates).
		Int("rejected", stats.Rejected).
		Uint64("generation", stats.Generation).
		Msg("store rebuilt")
	return stats
}

// Snapshot returns the current immutable view of the store.
func (e *Engine) Snapshot() *Snapshot { return e.store.Snapshot() }

// Size returns the number of indexed items.
func (e *Engine) Size() int { return e.store.Size() }

// Generation returns the generation of the current snapshot.
func (e *Engine) Generation() uint64 { return e.store.Snapshot().Generation() }

// SearchByVector ranks the catalog against an embedded query.
func (e *Engine) SearchByVector(query []float32, k int) []ScoredID {
	return e.store.Snapshot().TopK(query, k, nil)
}

// SimilarToItem ranks the catalog against the stored vector of id,
// excluding id itself. Unknown ids yield an empty result.
func (e *Engine) SimilarToItem(id, k int) []ScoredID {
	return e.store.Snapshot().Similar(id, k)
}

// RecommendRequest carries the optional signals for a recommendation.
// History entries are raw strings as received from callers.
type RecommendRequest struct {
	UserID  *int
	History []string
	K       int
}

// Recommendation is a ranked list along with the stage that produced it
// and the snapshot it was ranked against.
type Recommendation struct {
	Items    []ScoredID
	Source   Source
	Snapshot *Snapshot
}

// RecommendForUser runs the cascade: user profile, then history centroid,
// then popularity. All stages read the same snapshot.
func (e *Engine) RecommendForUser(req RecommendRequest, events []domain.InteractionEvent, now time.Time) Recommendation {
	snap := e.store.Snapshot()

	if req.UserID != nil {
		profile, stats, ok := e.profiles.Build(*req.UserID, events, snap, now)
		if stats.Unparsed > 0 {
			e.logger.Warn().
				Int("user_id", *req.UserID).
				Int("skipped", stats.Unparsed).
				Msg("skipped events with unparseable timestamps")
		}
		if ok {
			return Recommendation{Items: snap.TopK(profile, req.K, nil), Source: SourceProfile, Snapshot: snap}
		}
	}

	if len(req.History) > 0 {
		ids := e.parseHistory(req.History)
		if profile, ok := HistoryProfile(ids, snap); ok {
			return Recommendation{Items: snap.TopK(profile, req.K, nil), Source: SourceHistory, Snapshot: snap}
		}
	}

	ids, _ := snap.AllRows()
	items := TopPopular(events, ids, req.K)
	if len(items) == 0 {
		return Recommendation{Items: items, Source: SourceEmpty, Snapshot: snap}
	}
	return Recommendation{Items: items, Source: SourcePopularity, Snapshot: snap}
}

func (e *Engine) parseHistory(history []string) []int {
	ids := make([]int, 0, len(history))
	for _, raw := range history {
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			e.logger.Warn().Str("entry", raw).Msg("ignoring non-numeric history entry")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
