package domain

import "time"

// Store is a rateable business. OwnerID is empty when no account owns it.
type Store struct {
	ID        string
	Name      string
	Email     string
	Address   string
	OwnerID   string
	CreatedAt time.Time
}

// StoreView is a store as seen by one viewer: the aggregate over all ratings
// plus the viewer's own current score, if any.
type StoreView struct {
	Store
	AverageRating float64
	RatingCount   int64
	ViewerRating  *int
}

// AdminStoreView is a store listed for administrators, joined with the
// owning account's display name.
type AdminStoreView struct {
	Store
	OwnerName     string
	AverageRating float64
}

// OwnerDashboard is the store owner's view of the single store they own.
type OwnerDashboard struct {
	Store         Store
	AverageRating float64
	RatingCount   int64
	Ratings       []RatingDetail
}

// PlatformCounts holds the admin dashboard cardinalities.
type PlatformCounts struct {
	TotalUsers   int64
	TotalStores  int64
	TotalRatings int64
}
