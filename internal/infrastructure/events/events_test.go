package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/hilthontt/voicelink/internal/domain"
	"github.com/hilthontt/voicelink/internal/infrastructure/contracts"
	"github.com/hilthontt/voicelink/internal/infrastructure/logging"
)

type published struct {
	key string
	msg contracts.AmqpMessage
}

type fakeBus struct {
	mu   sync.Mutex
	sent []published
	got  chan struct{}
}

func newFakeBus() *fakeBus {
	return &fakeBus{got: make(chan struct{}, 16)}
}

func (b *fakeBus) PublishMessage(_ context.Context, key string, msg contracts.AmqpMessage) error {
	b.mu.Lock()
	b.sent = append(b.sent, published{key: key, msg: msg})
	b.mu.Unlock()
	b.got <- struct{}{}
	return nil
}

func TestRoomPublisherRoutesByEventType(t *testing.T) {
	bus := newFakeBus()
	p := NewRoomPublisher(bus)

	if err := p.Publish(context.Background(), domain.NewMemberJoinedEvent("ABCD2345", 2)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(bus.sent) != 1 {
		t.Fatalf("sent=%d, want 1", len(bus.sent))
	}
	got := bus.sent[0]
	if got.key != contracts.EventMemberJoined || got.msg.RoomCode != "ABCD2345" {
		t.Fatalf("published %+v", got)
	}

	var event domain.RoomEvent
	if err := json.Unmarshal(got.msg.Data, &event); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if event.EventType != domain.EventMemberJoined {
		t.Fatalf("eventType=%q", event.EventType)
	}
}

func TestRoutingKeyUnknown(t *testing.T) {
	if _, err := RoutingKey("ownership_transferred"); err == nil {
		t.Fatalf("RoutingKey accepted an unknown type")
	}
}

func TestQueueDrainsInOrder(t *testing.T) {
	bus := newFakeBus()
	q := NewQueue(NewRoomPublisher(bus), 8, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	q.Enqueue(domain.NewRoomCreatedEvent("AAAA2222", false))
	q.Enqueue(domain.NewRoomDeletedEvent("AAAA2222", "empty"))

	for i := 0; i < 2; i++ {
		select {
		case <-bus.got:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.sent[0].key != contracts.EventRoomCreated || bus.sent[1].key != contracts.EventRoomDeleted {
		t.Fatalf("order=%s,%s", bus.sent[0].key, bus.sent[1].key)
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(NewRoomPublisher(newFakeBus()), 1, logging.NewNop())
	drops := 0
	q.OnDrop(func() { drops++ })

	// no worker running: the second enqueue must not block
	q.Enqueue(domain.NewRoomCreatedEvent("AAAA2222", false))
	q.Enqueue(domain.NewRoomCreatedEvent("BBBB2222", false))

	if drops != 1 {
		t.Fatalf("drops=%d, want 1", drops)
	}
}
