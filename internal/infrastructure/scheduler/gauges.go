// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/storeratings/ratings-api/internal/api/metrics"
	"github.com/storeratings/ratings-api/internal/core/ports"
)

const (
	DefaultSpec    = "@every 1m"
	refreshTimeout = 10 * time.Second
)

// GaugeRefresher copies the platform counts into Prometheus gauges on a
// cron schedule.
type GaugeRefresher struct {
	cron  *cron.Cron
	stats ports.StatsRepository
	log   zerolog.Logger
}

// NewGaugeRefresher schedules the refresh job. spec accepts the standard
// five-field syntax and descriptors such as "@every 30s".
func NewGaugeRefresher(spec string, stats ports.StatsRepository, log zerolog.Logger) (*GaugeRefresher, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	r := &GaugeRefresher{
		cron:  cron.New(),
		stats: stats,
		log:   log,
	}
	if _, err := r.cron.AddFunc(spec, r.Refresh); err != nil {
		return nil, fmt.Errorf("schedule gauge refresh %q: %w", spec, err)
	}
	return r, nil
}

// Start refreshes once immediately, then runs on schedule.
func (r *GaugeRefresher) Start() {
	go r.Refresh()
	r.cron.Start()
}

// Stop halts scheduling and returns a context that is done once any running
// refresh has finished.
func (r *GaugeRefresher) Stop() context.Context {
	return r.cron.Stop()
}

// Refresh reads the counts and updates the gauges.
func (r *GaugeRefresher) Refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	counts, err := r.stats.Counts(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("platform gauge refresh failed")
		return
	}
	metrics.PlatformEntities.WithLabelValues("users").Set(float64(counts.TotalUsers))
	metrics.PlatformEntities.WithLabelValues("stores").Set(float64(counts.TotalStores))
	metrics.PlatformEntities.WithLabelValues("ratings").Set(float64(counts.TotalRatings))
}
