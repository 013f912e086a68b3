package ws

import "encoding/json"

// WSMessage is every frame the server writes.
type WSMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ClientMessage is every frame the server reads. Data is decoded once the
// type is known.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Payload structs
type RoomPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId,omitempty"`
}

type RoomJoinedPayload struct {
	RoomID    string `json:"roomId"`
	UserID    string `json:"userId,omitempty"`
	Initiator bool   `json:"initiator"`
}

type UserPayload struct {
	UserID    string `json:"userId"`
	Initiator bool   `json:"initiator,omitempty"`
}

type SignalPayload struct {
	RoomID  string          `json:"roomId"`
	Payload json.RawMessage `json:"payload"`
	From    string          `json:"from,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry,omitempty"`
}

func NewRoomCreated(roomID, userID string) *WSMessage {
	return &WSMessage{
		Type: RoomCreated,
		Data: RoomPayload{RoomID: roomID, UserID: userID},
	}
}

func NewRoomJoined(roomID, userID string) *WSMessage {
	return &WSMessage{
		Type: RoomJoined,
		Data: RoomJoinedPayload{RoomID: roomID, UserID: userID, Initiator: false},
	}
}

func NewRoomNotFound(roomID string) *WSMessage {
	return &WSMessage{
		Type: RoomNotFound,
		Data: RoomPayload{RoomID: roomID},
	}
}

func NewRoomFull(roomID string) *WSMessage {
	return &WSMessage{
		Type: RoomFull,
		Data: RoomPayload{RoomID: roomID},
	}
}

// NewUserJoined goes to the member already in the room, which becomes the
// initiator of the offer.
func NewUserJoined(userID string) *WSMessage {
	return &WSMessage{
		Type: UserJoined,
		Data: UserPayload{UserID: userID, Initiator: true},
	}
}

func NewUserLeft(userID string) *WSMessage {
	return &WSMessage{
		Type: UserLeft,
		Data: UserPayload{UserID: userID},
	}
}

func NewSignal(kind, roomID, from string, payload json.RawMessage) *WSMessage {
	return &WSMessage{
		Type: kind,
		Data: SignalPayload{RoomID: roomID, Payload: payload, From: from},
	}
}

func NewMalformed(message string) *WSMessage {
	return &WSMessage{
		Type: ErrorEvent,
		Data: ErrorPayload{
			Code:    CodeMalformed,
			Message: message,
		},
	}
}

func NewRateLimited() *WSMessage {
	return &WSMessage{
		Type: ErrorEvent,
		Data: ErrorPayload{
			Code:    CodeRateLimited,
			Message: "too many messages, slow down",
			Retry:   true,
		},
	}
}

func NewInternalError(message string) *WSMessage {
	return &WSMessage{
		Type: ErrorEvent,
		Data: ErrorPayload{
			Code:    CodeInternal,
			Message: message,
			Retry:   true,
		},
	}
}
