package ws

// Client to server.
const (
	CreateRoom = "create-room"
	JoinRoom   = "join-room"
	LeaveRoom  = "leave-room"
)

// Negotiation messages, relayed in both directions.
const (
	Offer        = "offer"
	Answer       = "answer"
	IceCandidate = "ice-candidate"
)

// Server to client.
const (
	RoomCreated  = "room-created"
	RoomJoined   = "room-joined"
	RoomNotFound = "room-not-found"
	RoomFull     = "room-full"
	UserJoined   = "user-joined"
	UserLeft     = "user-left"

	ErrorEvent = "error"
)

// Error codes carried by ErrorEvent.
const (
	CodeMalformed   = "MALFORMED"
	CodeRateLimited = "RATE_LIMITED"
	CodeInternal    = "INTERNAL"
)
