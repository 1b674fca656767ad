package engine

import "sort"

// ScoredID is a catalog id with its cosine score.
type ScoredID struct {
	ID    int
	Score float64
}

// TopK ranks every row by cosine similarity to query and returns at most k
// results, skipping excluded ids. Ties keep row order. An empty snapshot,
// non-positive k, or a query of the wrong width yields an empty result.
func (s *Snapshot) TopK(query []float32, k int, exclude map[int]struct{}) []ScoredID {
	if s.Size() == 0 || k <= 0 || len(query) != s.dim {
		return []ScoredID{}
	}

	q := normalize(query)
	scored := make([]ScoredID, len(s.ids))
	for i, row := range s.rows {
		scored[i] = ScoredID{ID: s.ids[i], Score: dot(q, row)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	results := make([]ScoredID, 0, k)
	emitted := make(map[int]struct{}, k)
	for _, c := range scored {
		if len(results) >= k {
			break
		}
		if _, skip := exclude[c.ID]; skip {
			continue
		}
		if _, dup := emitted[c.ID]; dup {
			continue
		}
		emitted[c.ID] = struct{}{}
		results = append(results, c)
	}
	return results
}

// Similar ranks the snapshot against the row of id, excluding id itself.
// Unknown ids yield an empty result.
func (s *Snapshot) Similar(id, k int) []ScoredID {
	vec, ok := s.VectorOf(id)
	if !ok {
		return []ScoredID{}
	}
	return s.TopK(vec, k, map[int]struct{}{id: {}})
}
