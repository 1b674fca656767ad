package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"reco/internal/domain"
	"reco/internal/port"
)

// FallbackSource serves the upstream catalog when it is reachable and
// non-empty, and the last saved snapshot otherwise. Every good upstream
// fetch refreshes the snapshot.
type FallbackSource struct {
	upstream  port.CatalogSource
	snapshots port.CatalogSnapshotStore
	logger    zerolog.Logger
}

func NewFallbackSource(upstream port.CatalogSource, snapshots port.CatalogSnapshotStore, logger zerolog.Logger) *FallbackSource {
	return &FallbackSource{
		upstream:  upstream,
		snapshots: snapshots,
		logger:    logger.With().Str("component", "catalog").Logger(),
	}
}

func (s *FallbackSource) FetchCatalog(ctx context.Context) ([]domain.Item, error) {
	items, err := s.upstream.FetchCatalog(ctx)
	if err == nil && len(items) > 0 {
		if saveErr := s.snapshots.SaveCatalog(items); saveErr != nil {
			s.logger.Warn().Err(saveErr).Msg("failed to save catalog snapshot")
		}
		return items, nil
	}

	if err != nil {
		s.logger.Warn().Err(err).Msg("catalog fetch failed, trying saved snapshot")
	} else {
		s.logger.Warn().Msg("catalog source returned no products, trying saved snapshot")
	}

	saved, loadErr := s.snapshots.LoadCatalog()
	if loadErr != nil {
		return nil, fmt.Errorf("%w: snapshot unreadable: %v", domain.ErrCatalogUnavailable, loadErr)
	}
	if len(saved) == 0 {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
		return nil, nil
	}

	s.logger.Info().Int("products", len(saved)).Msg("using saved catalog snapshot")
	return saved, nil
}
