package engine

import (
	"sort"

	"reco/internal/domain"
)

// TopPopular ranks items by raw event count, highest first, with ties going
// to the lower item id. Without any events it returns the first k catalog
// ids in the given order. Every result carries a score of 0.
func TopPopular(events []domain.InteractionEvent, catalogIDs []int, k int) []ScoredID {
	if k <= 0 {
		return []ScoredID{}
	}

	if len(events) == 0 {
		if k > len(catalogIDs) {
			k = len(catalogIDs)
		}
		out := make([]ScoredID, k)
		for i := 0; i < k; i++ {
			out[i] = ScoredID{ID: catalogIDs[i]}
		}
		return out
	}

	counts := make(map[int]int)
	for _, e := range events {
		counts[e.ItemID]++
	}

	type itemCount struct {
		id    int
		count int
	}
	ranked := make([]itemCount, 0, len(counts))
	for id, c := range counts {
		ranked = append(ranked, itemCount{id, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].id < ranked[j].id
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]ScoredID, k)
	for i := 0; i < k; i++ {
		out[i] = ScoredID{ID: ranked[i].id}
	}
	return out
}
