package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hilthontt/voicelink/internal/domain"
	"github.com/hilthontt/voicelink/internal/infrastructure/contracts"
)

// Publisher delivers room lifecycle events to an external bus.
type Publisher interface {
	Publish(ctx context.Context, event domain.RoomEvent) error
}

type amqpPublisher interface {
	PublishMessage(ctx context.Context, routingKey string, message contracts.AmqpMessage) error
}

type RoomPublisher struct {
	rabbitmq amqpPublisher
}

func NewRoomPublisher(rabbitmq amqpPublisher) *RoomPublisher {
	return &RoomPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *RoomPublisher) Publish(ctx context.Context, event domain.RoomEvent) error {
	routingKey, err := RoutingKey(event.EventType)
	if err != nil {
		return err
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		RoomCode: event.RoomCode,
		Data:     eventJSON,
	})
}

func RoutingKey(eventType domain.RoomEventType) (string, error) {
	switch eventType {
	case domain.EventRoomCreated:
		return contracts.EventRoomCreated, nil
	case domain.EventRoomDeleted:
		return contracts.EventRoomDeleted, nil
	case domain.EventMemberJoined:
		return contracts.EventMemberJoined, nil
	case domain.EventMemberLeft:
		return contracts.EventMemberLeft, nil
	case domain.EventRoomFull:
		return contracts.EventJoinRejected, nil
	}
	return "", fmt.Errorf("no routing key for event type %q", eventType)
}
