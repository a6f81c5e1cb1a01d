package ports

import (
	"context"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

// StoreRepository defines persistence and read models for stores.
type StoreRepository interface {
	// Create inserts a store. Returns domain.ErrOwnerHasStore when the owner
	// already owns one and domain.ErrStoreEmailTaken on a duplicate email.
	Create(ctx context.Context, store *domain.Store) (*domain.Store, error)
	// ListForViewer returns every store matching search (name or address),
	// with the all-ratings average and viewerID's own score.
	ListForViewer(ctx context.Context, viewerID, search string) ([]domain.StoreView, error)
	// SearchAdmin matches search against name, email or address and joins
	// the owner's display name.
	SearchAdmin(ctx context.Context, search string) ([]domain.AdminStoreView, error)
	// FindByOwner returns all stores owned by ownerID with their aggregates.
	FindByOwner(ctx context.Context, ownerID string) ([]domain.StoreView, error)
}

// StatsRepository counts platform entities.
type StatsRepository interface {
	Counts(ctx context.Context) (domain.PlatformCounts, error)
}
