package ports

import (
	"context"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

// RatingService is the rating aggregator: per-viewer store listings, the
// rating upsert and the store owner dashboard.
type RatingService interface {
	ListStoresForViewer(ctx context.Context, viewerID, search string) ([]domain.StoreView, error)
	Rate(ctx context.Context, viewerID, storeID string, score int) (domain.RatingOutcome, error)
	DashboardFor(ctx context.Context, ownerID string) (*domain.OwnerDashboard, error)
}

// CreateUserInput carries admin account creation fields.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     string
}

// CreateStoreInput carries admin store creation fields. OwnerID is optional.
type CreateStoreInput struct {
	Name    string
	Email   string
	Address string
	OwnerID string
}

// AdminService backs the administrator routes.
type AdminService interface {
	Counts(ctx context.Context) (domain.PlatformCounts, error)
	SearchUsers(ctx context.Context, search, role string) ([]domain.User, error)
	SearchStores(ctx context.Context, search string) ([]domain.AdminStoreView, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	CreateStore(ctx context.Context, in CreateStoreInput) (*domain.Store, error)
}
