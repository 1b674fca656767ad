package eventlog

import (
	"context"
	"sync"

	"reco/internal/domain"
	"reco/internal/port"
)

// CachedLog reads the backing log once and serves later loads from memory.
// Appends go to the backing log first and reach the cache only on success.
type CachedLog struct {
	backing port.EventLog

	mu     sync.RWMutex
	loaded bool
	events []domain.InteractionEvent
}

func NewCachedLog(backing port.EventLog) *CachedLog {
	return &CachedLog{backing: backing}
}

// LoadEvents returns the cached history. The returned slice must not be
// modified.
func (c *CachedLog) LoadEvents(ctx context.Context) ([]domain.InteractionEvent, error) {
	c.mu.RLock()
	if c.loaded {
		events := c.events[:len(c.events):len(c.events)]
		c.mu.RUnlock()
		return events, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		events, err := c.backing.LoadEvents(ctx)
		if err != nil {
			return nil, err
		}
		c.events = events
		c.loaded = true
	}
	return c.events[:len(c.events):len(c.events)], nil
}

func (c *CachedLog) AppendEvent(ctx context.Context, e domain.InteractionEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backing.AppendEvent(ctx, e); err != nil {
		return err
	}
	if c.loaded {
		c.events = append(c.events, e)
	}
	return nil
}

// Invalidate forces the next load to re-read the backing log.
func (c *CachedLog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.events = nil
}
