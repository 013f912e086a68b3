package signalclient

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Server frame types.
const (
	RoomCreated  = "room-created"
	RoomJoined   = "room-joined"
	RoomNotFound = "room-not-found"
	RoomFull     = "room-full"
	UserJoined   = "user-joined"
	UserLeft     = "user-left"
	ErrorEvent   = "error"

	Offer        = "offer"
	Answer       = "answer"
	IceCandidate = "ice-candidate"
)

// Event is one frame received from the server.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

type RoomData struct {
	RoomID    string `json:"roomId"`
	UserID    string `json:"userId"`
	Initiator bool   `json:"initiator"`
}

type SignalData struct {
	RoomID  string          `json:"roomId"`
	Payload json.RawMessage `json:"payload"`
	From    string          `json:"from"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

// Session is one signaling connection. Frames are read by a background
// goroutine and handed out in order by Next.
type Session struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	events chan Event
	done   chan struct{}
	err    error
	once   sync.Once
}

func newSession(conn *websocket.Conn) *Session {
	s := &Session{
		conn:   conn,
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
	go s.read()
	return s
}

func (s *Session) read() {
	defer close(s.events)
	for {
		var ev Event
		if err := s.conn.ReadJSON(&ev); err != nil {
			s.err = err
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

func (s *Session) write(msgType string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	return s.conn.WriteJSON(map[string]any{"type": msgType, "data": data})
}

// CreateRoom asks for a new room; an empty code lets the server pick one.
func (s *Session) CreateRoom(code string) error {
	data := map[string]string{}
	if code != "" {
		data["roomId"] = code
	}
	return s.write("create-room", data)
}

func (s *Session) JoinRoom(code string) error {
	if code == "" {
		return ErrMissingRoomID
	}
	return s.write("join-room", map[string]string{"roomId": code})
}

func (s *Session) LeaveRoom(code string) error {
	if code == "" {
		return ErrMissingRoomID
	}
	return s.write("leave-room", map[string]string{"roomId": code})
}

// Signal sends an offer, answer or ice-candidate to the other member.
func (s *Session) Signal(kind, code string, payload any) error {
	if code == "" {
		return ErrMissingRoomID
	}
	return s.write(kind, map[string]any{"roomId": code, "payload": payload})
}

// Next returns the next frame from the server.
func (s *Session) Next(ctx context.Context) (Event, error) {
	select {
	case ev, ok := <-s.events:
		if !ok {
			if s.err != nil {
				return Event{}, s.err
			}
			return Event{}, ErrSessionClosed
		}
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Listen calls handler for every frame until the session ends or ctx is done.
func (s *Session) Listen(ctx context.Context, handler func(Event)) error {
	for {
		ev, err := s.Next(ctx)
		if err != nil {
			return err
		}
		handler(ev)
	}
}

func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		close(s.done)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		err = s.conn.Close()
	})
	return err
}
