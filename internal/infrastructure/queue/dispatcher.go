package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
	"github.com/moneymanager/money-api/internal/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes events to a fixed set of workers using consistent hashing
// on the username, so one user's events are handled in order.
type Dispatcher struct {
	workers []chan domain.Event
	handler ports.EventHandler
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler ports.EventHandler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Event, numWorkers),
		handler: handler,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Event, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
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

// Enqueue hands ev to the worker responsible for its username. It blocks when
// that worker's buffer is full and gives up when ctx is cancelled.
func (d *Dispatcher) Enqueue(ctx context.Context, ev domain.Event) error {
	i := d.shardIndex(ev.Username)
	select {
	case d.workers[i] <- ev:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Event) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			metrics.EventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			start := time.Now()
			err := d.handler.Handle(ctx, ev)
			metrics.EventProcessingDuration.WithLabelValues(string(ev.Type)).Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.EventsProcessedTotal.WithLabelValues(string(ev.Type), "error").Inc()
				d.log.Error().Err(err).
					Str("event_id", ev.ID).
					Str("username", ev.Username).
					Int("worker_id", id).
					Msg("event processing failed")
				continue
			}
			metrics.EventsProcessedTotal.WithLabelValues(string(ev.Type), "ok").Inc()
		}
	}
}
