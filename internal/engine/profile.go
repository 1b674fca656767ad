package engine

import (
	"math"
	"time"

	"reco/internal/domain"
)

// DefaultTauDays is the decay time constant used when none is configured.
const DefaultTauDays = 14.0

// DefaultProfileEpsilon is the smallest aggregated norm still treated as a
// usable taste signal.
const DefaultProfileEpsilon = 1e-9

// EventWeights holds the base weight per event kind.
type EventWeights struct {
	View      float64
	AddToCart float64
	Purchase  float64
	Default   float64
}

// DefaultEventWeights returns the stock weight table.
func DefaultEventWeights() EventWeights {
	return EventWeights{
		View:      0.3,
		AddToCart: 0.7,
		Purchase:  1.5,
		Default:   0.2,
	}
}

// For returns the base weight of kind.
func (w EventWeights) For(kind domain.EventKind) float64 {
	switch kind {
	case domain.EventView:
		return w.View
	case domain.EventAddToCart:
		return w.AddToCart
	case domain.EventPurchase:
		return w.Purchase
	default:
		return w.Default
	}
}

// DecayWeight returns base * exp(-elapsedDays/tau). Negative elapsed time
// (events stamped in the future) counts as zero.
func DecayWeight(base, elapsedDays, tau float64) float64 {
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	return base * math.Exp(-elapsedDays/tau)
}

// ProfileBuilder turns a user's interaction history into a taste vector.
type ProfileBuilder struct {
	Weights EventWeights
	TauDays float64
	Epsilon float64
}

// NewProfileBuilder creates a builder with the given weights and decay.
// A non-positive tau falls back to DefaultTauDays.
func NewProfileBuilder(weights EventWeights, tauDays float64) *ProfileBuilder {
	if !(tauDays > 0) {
		tauDays = DefaultTauDays
	}
	return &ProfileBuilder{
		Weights: weights,
		TauDays: tauDays,
		Epsilon: DefaultProfileEpsilon,
	}
}

// ProfileStats reports how a profile was assembled.
type ProfileStats struct {
	Events      int
	Contributed int
	Unparsed    int
	UnknownItem int
}

// Build aggregates the decayed, weighted vectors of every item the user
// interacted with. It returns false when the user has no usable signal.
func (b *ProfileBuilder) Build(userID int, events []domain.InteractionEvent, snap *Snapshot, now time.Time) ([]float32, ProfileStats, bool) {
	var stats ProfileStats
	if snap.Size() == 0 {
		return nil, stats, false
	}

	acc := make([]float64, snap.Dimension())
	for _, e := range events {
		if e.UserID != userID {
			continue
		}
		stats.Events++
		if e.Timestamp.IsZero() {
			stats.Unparsed++
			continue
		}
		vec, ok := snap.VectorOf(e.ItemID)
		if !ok {
			stats.UnknownItem++
			continue
		}

		elapsed := now.Sub(e.Timestamp).Hours() / 24
		w := DecayWeight(b.Weights.For(e.Kind), elapsed, b.TauDays)
		for i, x := range vec {
			acc[i] += w * float64(x)
		}
		stats.Contributed++
	}

	if stats.Contributed == 0 {
		return nil, stats, false
	}
	profile := finish(acc, b.Epsilon)
	return profile, stats, profile != nil
}

// HistoryProfile averages the stored vectors of ids and normalizes the mean.
// Ids without a row are ignored.
func HistoryProfile(ids []int, snap *Snapshot) ([]float32, bool) {
	if snap.Size() == 0 || len(ids) == 0 {
		return nil, false
	}

	acc := make([]float64, snap.Dimension())
	n := 0
	for _, id := range ids {
		vec, ok := snap.VectorOf(id)
		if !ok {
			continue
		}
		for i, x := range vec {
			acc[i] += float64(x)
		}
		n++
	}
	if n == 0 {
		return nil, false
	}
	for i := range acc {
		acc[i] /= float64(n)
	}
	profile := finish(acc, DefaultProfileEpsilon)
	return profile, profile != nil
}

// finish normalizes acc, returning nil when its norm is below eps or not
// finite.
func finish(acc []float64, eps float64) []float32 {
	var sum float64
	for _, x := range acc {
		sum += x * x
	}
	n := math.Sqrt(sum)
	if math.IsNaN(n) || math.IsInf(n, 0) || n < eps {
		return nil
	}
	out := make([]float32, len(acc))
	for i, x := range acc {
		out[i] = float32(x / (n + normEpsilon))
	}
	return out
}
