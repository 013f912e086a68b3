package domain

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
)

const (
	MaxMembers = 2

	DefaultCodeLength = 8

	codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var (
	charsetLen = big.NewInt(int64(len(codeChars)))

	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrMemberNotFound = errors.New("member not found")
	ErrAlreadyInRoom  = errors.New("already in room")
	ErrMalformed      = errors.New("malformed message")
	ErrUnaddressable  = errors.New("no peer to deliver to")
)

// Room is a rendezvous point for at most two connections. Members are kept in
// arrival order: Members[0] is the one that initiates the offer.
type Room struct {
	Code      string    `json:"roomId"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewRoom(code, creator string, now time.Time) *Room {
	room := &Room{
		Code:      code,
		Members:   make([]string, 0, MaxMembers),
		CreatedAt: now,
	}
	room.Members = append(room.Members, creator)
	return room
}

func (r *Room) IsEmpty() bool {
	return len(r.Members) == 0
}

func (r *Room) IsFull() bool {
	return len(r.Members) >= MaxMembers
}

func (r *Room) IsMember(id string) bool {
	for _, m := range r.Members {
		if m == id {
			return true
		}
	}
	return false
}

func (r *Room) AddMember(id string) error {
	if r.IsMember(id) {
		return ErrAlreadyInRoom
	}
	if r.IsFull() {
		return ErrRoomFull
	}
	r.Members = append(r.Members, id)
	return nil
}

// RemoveMember drops id while preserving the arrival order of the rest.
func (r *Room) RemoveMember(id string) error {
	for i, m := range r.Members {
		if m == id {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return nil
		}
	}
	return ErrMemberNotFound
}

// Peer returns the member that is not id.
func (r *Room) Peer(id string) (string, bool) {
	for _, m := range r.Members {
		if m != id {
			return m, true
		}
	}
	return "", false
}

// Initiator is the member that was present before the second one joined.
func (r *Room) Initiator() string {
	if len(r.Members) == 0 {
		return ""
	}
	return r.Members[0]
}

func (r *Room) Snapshot() Room {
	return Room{
		Code:      r.Code,
		Members:   append([]string(nil), r.Members...),
		CreatedAt: r.CreatedAt,
	}
}

// NormalizeCode makes room codes compare case-insensitively.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	var sb strings.Builder
	sb.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeChars[n.Int64()])
	}

	return sb.String(), nil
}
