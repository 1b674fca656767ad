package port

import (
	"context"

	"reco/internal/domain"
)

// CatalogSource fetches the full product catalog.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]domain.Item, error)
}

// CatalogSnapshotStore persists the last successfully fetched catalog.
type CatalogSnapshotStore interface {
	SaveCatalog(items []domain.Item) error
	LoadCatalog() ([]domain.Item, error)
}
