package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"reco/internal/domain"
)

// SearchCache is an LRU cache of text-search results with a TTL. Entries
// are tagged with the store generation they were computed against and are
// dropped once the store is rebuilt.
type SearchCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	key        string
	results    []domain.ScoredItem
	timestamp  time.Time
	generation uint64
}

func NewSearchCache(maxSize int, ttl time.Duration) *SearchCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SearchCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(query string, k int) string {
	hash := sha256.Sum256([]byte(strconv.Itoa(k) + "\x00" + query))
	return hex.EncodeToString(hash[:16])
}

// Get returns cached results for (query, k) computed against generation.
func (c *SearchCache) Get(query string, k int, generation uint64) ([]domain.ScoredItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[cacheKey(query, k)]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*cacheEntry)
	if entry.generation != generation || c.now().Sub(entry.timestamp) > c.ttl {
		c.remove(el)
		return nil, false
	}

	c.order.MoveToBack(el)
	return entry.results, true
}

func (c *SearchCache) Put(query string, k int, generation uint64, results []domain.ScoredItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, k)
	entry := &cacheEntry{
		key:        key,
		results:    results,
		timestamp:  c.now(),
		generation: generation,
	}

	if el, ok := c.entries[key]; ok {
		el.Value = entry
		c.order.MoveToBack(el)
		return
	}

	for c.order.Len() >= c.maxSize {
		c.remove(c.order.Front())
	}
	c.entries[key] = c.order.PushBack(entry)
}

// Invalidate drops every entry.
func (c *SearchCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

func (c *SearchCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *SearchCache) remove(el *list.Element) {
	delete(c.entries, el.Value.(*cacheEntry).key)
	c.order.Remove(el)
}
