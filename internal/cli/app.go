package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"reco/config"
	"reco/internal/adapter/cache"
	"reco/internal/adapter/catalog"
	"reco/internal/adapter/embedding"
	"reco/internal/adapter/eventlog"
	"reco/internal/adapter/store"
	"reco/internal/domain"
	"reco/internal/engine"
	"reco/internal/logging"
	"reco/internal/port"
	"reco/internal/usecase"
)

// app is the fully wired recommender.
type app struct {
	svc     *usecase.Service
	store   *store.BoltStore
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func newApp(cfg *config.Config, rootDir string) (*app, error) {
	logger := logging.Logger()

	if err := config.EnsureDataDir(rootDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.NewBoltStore(config.StoreDBPath(rootDir))
	if err != nil {
		return nil, err
	}
	a := &app{store: st, closers: []func() error{st.Close}}

	migration, err := st.Migrate(cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}
	if migration.NeedsMigration || migration.InvalidateEmbedding {
		logger.Info().Str("reason", migration.Reason).Msg("store migrated")
	}

	embedder, err := embedding.NewFromConfig(cfg.Embedding)
	if err != nil {
		a.Close()
		return nil, err
	}

	source, err := newCatalogSource(cfg, rootDir, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	source = catalog.NewFallbackSource(source, st, logger)

	events, err := a.newEventLog(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	eng := engine.New(engine.Options{
		Weights: engine.EventWeights{
			View:      cfg.Weights.View,
			AddToCart: cfg.Weights.AddToCart,
			Purchase:  cfg.Weights.Purchase,
			Default:   cfg.Weights.Default,
		},
		TauDays:        cfg.Engine.TauDays,
		ProfileEpsilon: cfg.Engine.ProfileEpsilon,
		Logger:         logger,
	})
	rebuild := usecase.NewRebuildUseCase(eng, source, embedder, st, cfg.Embedding.BatchSize, logger)

	a.svc = usecase.NewService(eng, rebuild, embedder, eventlog.NewCachedLog(events), cfg.Engine, logger,
		usecase.WithSearchCache(cache.NewSearchCache(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second)),
	)
	return a, nil
}

func newCatalogSource(cfg *config.Config, rootDir string, logger zerolog.Logger) (port.CatalogSource, error) {
	c := cfg.Catalog
	switch c.Source {
	case "http", "":
		return catalog.NewHTTPSource(c.BackendBase, catalog.HTTPOptions{
			Timeout:     time.Duration(c.TimeoutSeconds) * time.Second,
			MaxFailures: uint32(c.MaxFailures),
			OpenTimeout: time.Duration(c.OpenSeconds) * time.Second,
			Logger:      logger,
		}), nil
	case "files":
		dir := c.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(rootDir, dir)
		}
		return catalog.NewFileSource(dir, c.Includes, c.Excludes), nil
	default:
		return nil, fmt.Errorf("catalog source %q: %w", c.Source, domain.ErrUnknownProvider)
	}
}

func (a *app) newEventLog(cfg *config.Config, logger zerolog.Logger) (port.EventLog, error) {
	switch cfg.Events.Backend {
	case "bolt", "":
		return eventlog.NewBoltLog(a.store, logger), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Events.RedisAddr,
			DB:   cfg.Events.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Events.RedisAddr, err)
		}
		a.closers = append(a.closers, client.Close)
		return eventlog.NewRedisLog(client, cfg.Events.RedisKey, logger), nil
	case "memory":
		return eventlog.NewMemoryLog(), nil
	default:
		return nil, fmt.Errorf("event backend %q: %w", cfg.Events.Backend, domain.ErrUnknownProvider)
	}
}
