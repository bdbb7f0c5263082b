package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/agencyworks/project-system/internal/api/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Delivery is one queued notification.
type Delivery struct {
	UserID  string
	Message string
}

// Sender performs the actual delivery of a notification.
type Sender interface {
	Send(ctx context.Context, userID, message string) error
}

// Dispatcher implements ports.Notifier: it routes notifications to a fixed
// set of workers using consistent hashing on the recipient id, guaranteeing
// per-recipient delivery ordering. Enqueueing never blocks the caller beyond
// channel capacity and delivery failures are logged, never propagated.
type Dispatcher struct {
	workers []chan Delivery
	sender  Sender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender Sender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Delivery, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Delivery, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify queues a message for the worker responsible for the recipient. When
// the worker's queue is full the notification is dropped with a log entry;
// notifications are fire-and-forget and must never fail a transition.
func (d *Dispatcher) Notify(_ context.Context, userID, message string) {
	delivery := Delivery{UserID: userID, Message: message}
	select {
	case d.workers[d.shardIndex(userID)] <- delivery:
	default:
		metrics.NotificationsDroppedTotal.Inc()
		d.log.Warn().Str("user_id", userID).Msg("notification queue full, dropping message")
	}
}

// shardIndex maps a recipient id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sender.Send(ctx, delivery.UserID, delivery.Message); err != nil {
				d.log.Error().Err(err).
					Str("user_id", delivery.UserID).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
		}
	}
}
