package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storeratings/ratings-api/internal/core/domain"
	"github.com/storeratings/ratings-api/internal/core/ports"
)

// RatingService aggregates ratings per store and records submissions.
type RatingService struct {
	stores  ports.StoreRepository
	ratings ports.RatingRepository
	events  ports.RatingEventSink
	logger  zerolog.Logger
	now     func() time.Time
}

// NewRatingService wires the service. events may be nil to disable auditing.
func NewRatingService(stores ports.StoreRepository, ratings ports.RatingRepository, events ports.RatingEventSink, logger zerolog.Logger) *RatingService {
	return &RatingService{
		stores:  stores,
		ratings: ratings,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// ListStoresForViewer returns stores matching search with the overall
// average and the viewer's own score.
func (s *RatingService) ListStoresForViewer(ctx context.Context, viewerID, search string) ([]domain.StoreView, error) {
	return s.stores.ListForViewer(ctx, viewerID, strings.TrimSpace(search))
}

// Rate creates or overwrites the viewer's rating for storeID.
func (s *RatingService) Rate(ctx context.Context, viewerID, storeID string, score int) (domain.RatingOutcome, error) {
	if !domain.ValidScore(score) {
		return domain.RatingOutcome{}, domain.ErrInvalidScore
	}
	if _, err := uuid.Parse(storeID); err != nil {
		return domain.RatingOutcome{}, domain.ErrStoreNotFound
	}

	outcome, err := s.ratings.Upsert(ctx, viewerID, storeID, score)
	if err != nil {
		return domain.RatingOutcome{}, err
	}

	s.logger.Info().
		Str("user_id", viewerID).
		Str("store_id", storeID).
		Int("rating", score).
		Bool("created", outcome.Created).
		Msg("rating submitted")

	if s.events != nil {
		s.events.Publish(domain.RatingEvent{
			UserID:  viewerID,
			StoreID: storeID,
			Score:   score,
			Created: outcome.Created,
			At:      s.now().UTC(),
		})
	}
	return outcome, nil
}

// DashboardFor returns the owner's single store with its ratings. An owner
// with several stores is a data inconsistency and is reported, not resolved.
func (s *RatingService) DashboardFor(ctx context.Context, ownerID string) (*domain.OwnerDashboard, error) {
	stores, err := s.stores.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	switch len(stores) {
	case 0:
		return nil, domain.ErrStoreNotFound
	case 1:
	default:
		s.logger.Error().Str("owner_id", ownerID).Int("stores", len(stores)).Msg("owner has more than one store")
		return nil, domain.ErrMultipleStoresForOwner
	}

	view := stores[0]
	ratings, err := s.ratings.ListForStore(ctx, view.ID)
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []domain.RatingDetail{}
	}
	return &domain.OwnerDashboard{
		Store:         view.Store,
		AverageRating: view.AverageRating,
		RatingCount:   view.RatingCount,
		Ratings:       ratings,
	}, nil
}
