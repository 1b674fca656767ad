package port

import (
	"context"

	"reco/internal/domain"
)

// EventLog is the durable, append-only interaction history.
type EventLog interface {
	// LoadEvents returns every recorded event in append order.
	LoadEvents(ctx context.Context) ([]domain.InteractionEvent, error)

	// AppendEvent durably records a single event.
	AppendEvent(ctx context.Context, e domain.InteractionEvent) error
}
