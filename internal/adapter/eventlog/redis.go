package eventlog

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"reco/internal/domain"
)

const defaultRedisKey = "reco:events"

// RedisLog keeps events in a Redis list. Each append is a single RPUSH.
type RedisLog struct {
	client *redis.Client
	key    string
	logger zerolog.Logger
}

func NewRedisLog(client *redis.Client, key string, logger zerolog.Logger) *RedisLog {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisLog{
		client: client,
		key:    key,
		logger: logger.With().Str("component", "eventlog.redis").Logger(),
	}
}

func (l *RedisLog) LoadEvents(ctx context.Context) ([]domain.InteractionEvent, error) {
	vals, err := l.client.LRange(ctx, l.key, 0, -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read events from redis: %w", err)
	}

	events := make([]domain.InteractionEvent, 0, len(vals))
	for i, v := range vals {
		e, err := Decode([]byte(v))
		if err != nil {
			l.logger.Warn().Int("index", i).Err(err).Msg("skipping corrupt event record")
			continue
		}
		events = append(events, e)
	}

	if n := countUnparsed(events); n > 0 {
		l.logger.Warn().Int("count", n).Msg("events with unparseable timestamps")
	}
	return events, nil
}

func (l *RedisLog) AppendEvent(ctx context.Context, e domain.InteractionEvent) error {
	data, err := Encode(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := l.client.RPush(ctx, l.key, data).Err(); err != nil {
		return fmt.Errorf("failed to append event to redis: %w", err)
	}
	return nil
}
