package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	RoomCode string `json:"roomId"`
	Data     []byte `json:"data"`
}

// Routing keys - using consistent event patterns
const (
	EventMemberJoined = "member.joined"
	EventMemberLeft   = "member.left"
	EventJoinRejected = "member.rejected"
	EventRoomCreated  = "room.created"
	EventRoomDeleted  = "room.deleted"
)
