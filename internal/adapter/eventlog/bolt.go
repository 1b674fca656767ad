package eventlog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"reco/internal/adapter/store"
	"reco/internal/domain"
)

// BoltLog stores events in the bbolt events bucket, one transaction per
// append.
type BoltLog struct {
	store  *store.BoltStore
	logger zerolog.Logger
}

func NewBoltLog(s *store.BoltStore, logger zerolog.Logger) *BoltLog {
	return &BoltLog{
		store:  s,
		logger: logger.With().Str("component", "eventlog.bolt").Logger(),
	}
}

func (l *BoltLog) LoadEvents(ctx context.Context) ([]domain.InteractionEvent, error) {
	var events []domain.InteractionEvent
	corrupt := 0
	err := l.store.ForEachEventRecord(func(seq uint64, data []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := Decode(data)
		if err != nil {
			corrupt++
			l.logger.Warn().Uint64("seq", seq).Err(err).Msg("skipping corrupt event record")
			return nil
		}
		events = append(events, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	if n := countUnparsed(events); n > 0 {
		l.logger.Warn().Int("count", n).Msg("events with unparseable timestamps")
	}
	l.logger.Debug().Int("events", len(events)).Int("corrupt", corrupt).Msg("events loaded")
	return events, nil
}

func (l *BoltLog) AppendEvent(ctx context.Context, e domain.InteractionEvent) error {
	data, err := Encode(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := l.store.AppendEventRecord(data); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}
