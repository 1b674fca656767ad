package eventlog

import (
	"context"
	"sync"

	"reco/internal/domain"
)

// MemoryLog is a process-local event log.
type MemoryLog struct {
	mu     sync.RWMutex
	events []domain.InteractionEvent
}

func NewMemoryLog(initial ...domain.InteractionEvent) *MemoryLog {
	return &MemoryLog{events: append([]domain.InteractionEvent(nil), initial...)}
}

func (l *MemoryLog) LoadEvents(ctx context.Context) ([]domain.InteractionEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.InteractionEvent(nil), l.events...), nil
}

func (l *MemoryLog) AppendEvent(ctx context.Context, e domain.InteractionEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}
