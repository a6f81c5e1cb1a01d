package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/storeratings/ratings-api/internal/api/metrics"
	"github.com/storeratings/ratings-api/internal/core/domain"
	"github.com/storeratings/ratings-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Dispatcher routes rating events to a fixed set of workers using consistent
// hashing on the store id, so events for one store are written in order.
type Dispatcher struct {
	workers []chan domain.RatingEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.RatingEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.RatingEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// writes what is still buffered, bounded by drainTimeout, and returns.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands an event to the worker responsible for its store. It never
// blocks: when that worker's buffer is full the event is dropped and counted.
func (d *Dispatcher) Publish(event domain.RatingEvent) {
	idx := d.shardIndex(event.StoreID)
	select {
	case d.workers[idx] <- event:
		d.observeDepth(idx)
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("store_id", event.StoreID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a store id deterministically to a worker index.
func (d *Dispatcher) shardIndex(storeID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(storeID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) observeDepth(idx int) {
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.RatingEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				d.drain(ctx, id, ch, event)
				return
			}
			d.observeDepth(id)
			d.write(ctx, id, event)
		}
	}
}

// drain flushes pending and the events left in ch after shutdown began.
// Whatever cannot be written before drainTimeout is counted as dropped.
func (d *Dispatcher) drain(parent context.Context, id int, ch <-chan domain.RatingEvent, pending ...domain.RatingEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), drainTimeout)
	defer cancel()

	for _, event := range pending {
		d.write(ctx, id, event)
	}

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				metrics.AuditEventsDroppedTotal.Add(float64(1 + len(ch)))
				d.log.Warn().Int("worker_id", id).Msg("audit drain timed out, events dropped")
				return
			}
			d.write(ctx, id, event)
		default:
			d.observeDepth(id)
			return
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, event domain.RatingEvent) {
	if err := d.repo.InsertEvent(ctx, event); err != nil {
		d.log.Error().Err(err).
			Str("store_id", event.StoreID).
			Str("user_id", event.UserID).
			Int("worker_id", id).
			Msg("audit event write failed")
	}
}
