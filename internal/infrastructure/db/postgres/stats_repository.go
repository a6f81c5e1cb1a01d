package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

type StatsRepository struct {
	db      DBTX
	timeout time.Duration
}

func NewStatsRepository(db DBTX) *StatsRepository {
	return &StatsRepository{db: db, timeout: defaultTimeout}
}

// Counts reads the three platform totals in one round trip.
func (r *StatsRepository) Counts(ctx context.Context) (domain.PlatformCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM stores),
		(SELECT COUNT(*) FROM ratings)`

	var c domain.PlatformCounts
	if err := r.db.QueryRowContext(ctx, query).Scan(&c.TotalUsers, &c.TotalStores, &c.TotalRatings); err != nil {
		return domain.PlatformCounts{}, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}
