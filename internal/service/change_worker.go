package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/models"
)

// ChangePublisher delivers a graph change to subscribers.
type ChangePublisher interface {
	PublishChange(change models.ChangeEvent)
}

// ChangeEnqueuer accepts graph changes for asynchronous delivery.
type ChangeEnqueuer interface {
	Enqueue(change models.ChangeEvent)
}

// ChangeWorker buffers change events and hands them to a publisher from a
// single goroutine, so mutations never wait on subscribers.
type ChangeWorker struct {
	publisher ChangePublisher
	log       *logrus.Logger
	jobs      chan models.ChangeEvent
}

// NewChangeWorker creates a ChangeWorker with the given queue capacity.
func NewChangeWorker(publisher ChangePublisher, log *logrus.Logger, queueSize int) *ChangeWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &ChangeWorker{
		publisher: publisher,
		log:       log,
		jobs:      make(chan models.ChangeEvent, queueSize),
	}
}

// Enqueue adds a change. Non-blocking; drops the change if the queue is full.
func (w *ChangeWorker) Enqueue(change models.ChangeEvent) {
	select {
	case w.jobs <- change:
	default:
		w.log.WithFields(logrus.Fields{
			"table": change.Table,
			"op":    change.Op,
		}).Warn("change queue full, dropping event")
	}
}

// Run publishes changes until the context is cancelled, then drains the queue.
func (w *ChangeWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case change := <-w.jobs:
			w.publisher.PublishChange(change)
		}
	}
}

func (w *ChangeWorker) drain() {
	for {
		select {
		case change := <-w.jobs:
			w.publisher.PublishChange(change)
		default:
			return
		}
	}
}

// enqueueChange is a nil-safe helper for services whose backend publishes
// changes itself.
func enqueueChange(q ChangeEnqueuer, change models.ChangeEvent) {
	if q == nil {
		return
	}
	q.Enqueue(change)
}
