package events

import (
	"context"
	"time"

	"github.com/hilthontt/voicelink/internal/domain"
	"github.com/hilthontt/voicelink/internal/infrastructure/logging"
)

const publishTimeout = 5 * time.Second

// Queue decouples the signaling core from the bus: Enqueue never blocks, and
// a single worker drains events to the Publisher in order.
type Queue struct {
	publisher Publisher
	events    chan domain.RoomEvent
	logger    logging.Logger
	dropped   func()
}

func NewQueue(publisher Publisher, size int, logger logging.Logger) *Queue {
	if size <= 0 {
		size = 256
	}
	return &Queue{
		publisher: publisher,
		events:    make(chan domain.RoomEvent, size),
		logger:    logger,
		dropped:   func() {},
	}
}

// OnDrop registers a hook called whenever the queue is full.
func (q *Queue) OnDrop(fn func()) {
	q.dropped = fn
}

func (q *Queue) Enqueue(event domain.RoomEvent) {
	select {
	case q.events <- event:
	default:
		q.dropped()
		q.logger.Warn(logging.RabbitMQ, logging.Events, "event queue full, dropping event", map[logging.ExtraKey]any{
			logging.RoomCode: event.RoomCode,
			"EventType":      event.EventType,
		})
	}
}

// Run publishes queued events until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-q.events:
			q.publish(ctx, event)
		}
	}
}

func (q *Queue) publish(ctx context.Context, event domain.RoomEvent) {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := q.publisher.Publish(pubCtx, event); err != nil {
		q.logger.Error(logging.RabbitMQ, logging.Events, "failed to publish room event", map[logging.ExtraKey]any{
			logging.RoomCode:     event.RoomCode,
			logging.ErrorMessage: err.Error(),
		})
	}
}
