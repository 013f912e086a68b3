package domain

import (
	"time"

	"github.com/google/uuid"
)

type RoomEventType string

const (
	EventRoomCreated  RoomEventType = "room_created"
	EventRoomDeleted  RoomEventType = "room_deleted"
	EventMemberJoined RoomEventType = "member_joined"
	EventMemberLeft   RoomEventType = "member_left"
	EventRoomFull     RoomEventType = "room_full_rejected"
)

// RoomEvent describes a lifecycle transition of a room. It never carries
// negotiation payloads.
type RoomEvent struct {
	ID        string         `json:"id"`
	RoomCode  string         `json:"roomId"`
	EventType RoomEventType  `json:"eventType"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func newRoomEvent(code string, eventType RoomEventType, metadata map[string]any) RoomEvent {
	return RoomEvent{
		ID:        uuid.NewString(),
		RoomCode:  code,
		EventType: eventType,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

func NewRoomCreatedEvent(code string, requested bool) RoomEvent {
	return newRoomEvent(code, EventRoomCreated, map[string]any{
		"requested_code": requested,
	})
}

func NewRoomDeletedEvent(code, reason string) RoomEvent {
	return newRoomEvent(code, EventRoomDeleted, map[string]any{
		"reason": reason, // "empty", "sweep"
	})
}

func NewMemberJoinedEvent(code string, memberCount int) RoomEvent {
	return newRoomEvent(code, EventMemberJoined, map[string]any{
		"member_count": memberCount,
	})
}

func NewMemberLeftEvent(code string, memberCount int, reason string) RoomEvent {
	return newRoomEvent(code, EventMemberLeft, map[string]any{
		"member_count": memberCount,
		"reason":       reason, // "leave", "disconnect", "switch"
	})
}

func NewRoomFullRejectionEvent(code string) RoomEvent {
	return newRoomEvent(code, EventRoomFull, map[string]any{})
}
