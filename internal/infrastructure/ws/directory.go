package ws

import (
	"errors"
	"fmt"
	"time"

	"github.com/hilthontt/voicelink/internal/domain"
	"github.com/hilthontt/voicelink/internal/infrastructure/validate"
)

const maxGenerateAttempts = 32

var (
	ErrCodeSpaceExhausted = errors.New("could not generate an unused room code")

	validateRequestedCode = validate.Field("roomId",
		validate.LengthBetween(4, 32),
		validate.Alphanumeric(),
	)
)

// Directory maps room codes to rooms. Records live in an arena of slots
// addressed through a code index; freed slots are reused. Like the Registry
// it belongs to the Core goroutine.
type Directory struct {
	index map[string]int
	slots []*domain.Room
	free  []int

	codeLength int
	now        func() time.Time
	generate   func(length int) (string, error)
}

func NewDirectory(codeLength int) *Directory {
	if codeLength <= 0 {
		codeLength = domain.DefaultCodeLength
	}
	return &Directory{
		index:      make(map[string]int),
		codeLength: codeLength,
		now:        time.Now,
		generate:   domain.GenerateCode,
	}
}

// ValidateCode checks a client-requested code and returns it normalized.
func ValidateCode(requested string) (string, error) {
	code := domain.NormalizeCode(requested)
	if err := validateRequestedCode(code); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	return code, nil
}

// Create opens a room with member as its first occupant. An empty requested
// code asks for a generated one. A code held by a non-empty room is never
// reused; a fresh one is generated instead.
func (d *Directory) Create(requested, member string) (string, error) {
	code := ""
	if requested != "" {
		var err error
		if code, err = ValidateCode(requested); err != nil {
			return "", err
		}
	}

	if code == "" || !d.available(code) {
		var err error
		if code, err = d.Mint(); err != nil {
			return "", err
		}
	}

	room := domain.NewRoom(code, member, d.now())
	if idx, ok := d.index[code]; ok {
		// stale empty record under the same code
		d.slots[idx] = room
		return code, nil
	}
	d.insert(room)
	return code, nil
}

// Mint returns a generated code that no live room holds.
func (d *Directory) Mint() (string, error) {
	for i := 0; i < maxGenerateAttempts; i++ {
		code, err := d.generate(d.codeLength)
		if err != nil {
			return "", err
		}
		if d.available(code) {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

func (d *Directory) available(code string) bool {
	idx, ok := d.index[code]
	return !ok || d.slots[idx].IsEmpty()
}

// Lookup returns the live room under code. Empty records count as absent.
func (d *Directory) Lookup(code string) (*domain.Room, bool) {
	idx, ok := d.index[domain.NormalizeCode(code)]
	if !ok || d.slots[idx].IsEmpty() {
		return nil, false
	}
	return d.slots[idx], true
}

// CanJoin reports what Join would return without mutating anything.
func (d *Directory) CanJoin(code, member string) error {
	room, ok := d.Lookup(code)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if room.IsMember(member) {
		return domain.ErrAlreadyInRoom
	}
	if room.IsFull() {
		return domain.ErrRoomFull
	}
	return nil
}

// Join appends member to the room. On error the room is left untouched.
func (d *Directory) Join(code, member string) (*domain.Room, error) {
	if err := d.CanJoin(code, member); err != nil {
		return nil, err
	}
	room, _ := d.Lookup(code)
	if err := room.AddMember(member); err != nil {
		return nil, err
	}
	return room, nil
}

// Leave removes member from the room and deletes the room once it is empty.
// It returns the member that stays behind, if any.
func (d *Directory) Leave(code, member string) (remaining string, deleted bool, err error) {
	code = domain.NormalizeCode(code)
	idx, ok := d.index[code]
	if !ok {
		return "", false, domain.ErrRoomNotFound
	}

	room := d.slots[idx]
	if err := room.RemoveMember(member); err != nil {
		return "", false, err
	}

	if room.IsEmpty() {
		d.remove(code)
		return "", true, nil
	}
	return room.Initiator(), false, nil
}

// Sweep deletes every room without members and returns their codes.
// Occupied rooms are never touched, however old.
func (d *Directory) Sweep() []string {
	var deleted []string
	for code, idx := range d.index {
		if d.slots[idx].IsEmpty() {
			deleted = append(deleted, code)
		}
	}
	for _, code := range deleted {
		d.remove(code)
	}
	return deleted
}

// Get returns a copy of the room under code.
func (d *Directory) Get(code string) (domain.Room, bool) {
	room, ok := d.Lookup(code)
	if !ok {
		return domain.Room{}, false
	}
	return room.Snapshot(), true
}

func (d *Directory) Len() int {
	return len(d.index)
}

func (d *Directory) insert(room *domain.Room) {
	if n := len(d.free); n > 0 {
		idx := d.free[n-1]
		d.free = d.free[:n-1]
		d.slots[idx] = room
		d.index[room.Code] = idx
		return
	}
	d.slots = append(d.slots, room)
	d.index[room.Code] = len(d.slots) - 1
}

func (d *Directory) remove(code string) {
	idx, ok := d.index[code]
	if !ok {
		return
	}
	delete(d.index, code)
	d.slots[idx] = nil
	d.free = append(d.free, idx)
}
