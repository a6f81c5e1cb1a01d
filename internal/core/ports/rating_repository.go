package ports

import (
	"context"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

// RatingRepository handles rating persistence.
type RatingRepository interface {
	// Upsert atomically inserts the (userID, storeID) rating or overwrites
	// its score in place. The outcome reports which branch ran. A missing
	// store yields domain.ErrStoreNotFound.
	Upsert(ctx context.Context, userID, storeID string, score int) (domain.RatingOutcome, error)

	// ListForStore returns the store's ratings joined with rater name and
	// email, newest first.
	ListForStore(ctx context.Context, storeID string) ([]domain.RatingDetail, error)
}

// AuditRepository persists rating audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event domain.RatingEvent) error
}

// RatingEventSink accepts rating events for asynchronous auditing.
// Publish must not block the caller.
type RatingEventSink interface {
	Publish(event domain.RatingEvent)
}
