package engine

import (
	"math"
	"sync"
	"sync/atomic"

	"reco/internal/domain"
)

// normEpsilon is added to every L2 norm so zero vectors normalize to zero
// instead of NaN.
const normEpsilon = 1e-12

// Entry is one catalog item with its raw (unnormalized) embedding. Item is
// optional metadata published alongside the row.
type Entry struct {
	ID     int
	Vector []float32
	Item   domain.Item
}

// Snapshot is an immutable view of the catalog embeddings. Readers hold a
// snapshot for the duration of a request; a rebuild never touches it.
type Snapshot struct {
	ids        []int
	rows       [][]float32
	items      []domain.Item
	index      map[int]int
	dim        int
	generation uint64
}

var emptySnapshot = &Snapshot{index: map[int]int{}}

// Size returns the number of rows.
func (s *Snapshot) Size() int { return len(s.ids) }

// Dimension returns the vector width, 0 for an empty snapshot.
func (s *Snapshot) Dimension() int { return s.dim }

// Generation identifies the rebuild that produced the snapshot.
func (s *Snapshot) Generation() uint64 { return s.generation }

// VectorOf returns the normalized row for id. The slice must not be modified.
func (s *Snapshot) VectorOf(id int) ([]float32, bool) {
	row, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.rows[row], true
}

// Item returns the metadata published with id's row. Ids without a row
// yield a record carrying only the id.
func (s *Snapshot) Item(id int) (domain.Item, bool) {
	row, ok := s.index[id]
	if !ok {
		return domain.Item{ID: id}, false
	}
	return s.items[row], true
}

// Contains reports whether id has a row.
func (s *Snapshot) Contains(id int) bool {
	_, ok := s.index[id]
	return ok
}

// AllRows returns ids in row order along with the matching rows. Both
// slices are shared with the snapshot and must not be modified.
func (s *Snapshot) AllRows() ([]int, [][]float32) {
	return s.ids, s.rows
}

// RebuildStats summarizes what a rebuild ingested.
type RebuildStats struct {
	Rows       int
	Dimension  int
	Duplicates int
	Rejected   int
	Generation uint64
}

// Store publishes Snapshots. Reads are lock-free; rebuilds are serialized.
type Store struct {
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex
	gen     uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(emptySnapshot)
	return s
}

// Snapshot returns the currently published snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Size returns the row count of the current snapshot.
func (s *Store) Size() int {
	return s.Snapshot().Size()
}

// VectorOf looks up id in the current snapshot.
func (s *Store) VectorOf(id int) ([]float32, bool) {
	return s.Snapshot().VectorOf(id)
}

// AllRows returns the rows of the current snapshot.
func (s *Store) AllRows() ([]int, [][]float32) {
	return s.Snapshot().AllRows()
}

// Rebuild replaces the store contents wholesale. Duplicate ids keep their
// first occurrence. The dimension is taken from the first vector; entries of
// any other width are rejected.
func (s *Store) Rebuild(entries []Entry) RebuildStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats RebuildStats
	dim := 0
	if len(entries) > 0 {
		dim = len(entries[0].Vector)
	}

	index := make(map[int]int, len(entries))
	ids := make([]int, 0, len(entries))
	items := make([]domain.Item, 0, len(entries))
	flat := make([]float32, 0, len(entries)*dim)

	for _, e := range entries {
		if _, seen := index[e.ID]; seen {
			stats.Duplicates++
			continue
		}
		if len(e.Vector) != dim {
			stats.Rejected++
			continue
		}
		index[e.ID] = len(ids)
		ids = append(ids, e.ID)
		item := e.Item
		item.ID = e.ID
		items = append(items, item)
		flat = append(flat, normalize(e.Vector)...)
	}

	rows := make([][]float32, len(ids))
	for i := range rows {
		rows[i] = flat[i*dim : (i+1)*dim : (i+1)*dim]
	}
	if len(ids) == 0 {
		dim = 0
	}

	s.gen++
	snap := &Snapshot{
		ids:        ids,
		rows:       rows,
		items:      items,
		index:      index,
		dim:        dim,
		generation: s.gen,
	}
	s.current.Store(snap)

	stats.Rows = len(ids)
	stats.Dimension = dim
	stats.Generation = s.gen
	return stats
}

// normalize returns v / (||v|| + epsilon) as a new slice.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	denom := math.Sqrt(sum) + normEpsilon
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / denom)
	}
	return out
}

// norm returns the L2 norm of v.
func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
