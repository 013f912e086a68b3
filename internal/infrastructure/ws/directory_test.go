package ws

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/hilthontt/voicelink/internal/domain"
)

func TestDirectoryCreate(t *testing.T) {
	d := NewDirectory(8)

	code, err := d.Create("", "a")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(code) != 8 {
		t.Fatalf("generated code %q, want 8 chars", code)
	}

	code, err = d.Create("myroom", "b")
	if err != nil {
		t.Fatalf("Create(myroom): %v", err)
	}
	if code != "MYROOM" {
		t.Fatalf("code=%q, want MYROOM", code)
	}

	room, ok := d.Get("myRoom")
	if !ok {
		t.Fatalf("Get is not case-insensitive")
	}
	if len(room.Members) != 1 || room.Members[0] != "b" {
		t.Fatalf("members=%v, want [b]", room.Members)
	}
}

func TestDirectoryCreateRejectsBadCodes(t *testing.T) {
	d := NewDirectory(8)

	for _, requested := range []string{"ab", "ab-cd", "room code", "ÄBCDE", "abcdefghijklmnopqrstuvwxyz0123456789"} {
		if _, err := d.Create(requested, "a"); !errors.Is(err, domain.ErrMalformed) {
			t.Fatalf("Create(%q) err=%v, want %v", requested, err, domain.ErrMalformed)
		}
	}
	if d.Len() != 0 {
		t.Fatalf("rejected creates left %d rooms", d.Len())
	}
}

func TestDirectoryCreateNeverOverwritesOccupiedRoom(t *testing.T) {
	d := NewDirectory(8)

	if _, err := d.Create("TAKEN", "a"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	code, err := d.Create("taken", "b")
	if err != nil {
		t.Fatalf("Create(collision): %v", err)
	}
	if code == "TAKEN" {
		t.Fatalf("collision overwrote an occupied room")
	}

	room, _ := d.Get("TAKEN")
	if len(room.Members) != 1 || room.Members[0] != "a" {
		t.Fatalf("TAKEN members=%v, want [a]", room.Members)
	}
}

func TestDirectoryCreateReplacesEmptyRecord(t *testing.T) {
	d := NewDirectory(8)

	if _, err := d.Create("STALE", "a"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// empty the record without going through Leave, as a sweep would find it
	_ = d.slots[d.index["STALE"]].RemoveMember("a")

	code, err := d.Create("STALE", "b")
	if err != nil || code != "STALE" {
		t.Fatalf("Create over empty record=%q,%v want STALE", code, err)
	}
	if d.Len() != 1 {
		t.Fatalf("len=%d, want 1", d.Len())
	}
}

func TestDirectoryMintExhausted(t *testing.T) {
	d := NewDirectory(8)
	d.generate = func(int) (string, error) { return "SAME2222", nil }

	if _, err := d.Create("", "a"); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := d.Create("", "b"); !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Fatalf("second Create err=%v, want %v", err, ErrCodeSpaceExhausted)
	}
}

func TestDirectoryJoin(t *testing.T) {
	d := NewDirectory(8)
	code, _ := d.Create("", "a")

	if _, err := d.Join("NOPE2222", "b"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("Join(absent) err=%v, want %v", err, domain.ErrRoomNotFound)
	}
	if d.Len() != 1 {
		t.Fatalf("Join(absent) created a room")
	}

	room, err := d.Join(code, "b")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if room.Initiator() != "a" {
		t.Fatalf("initiator=%q, want a", room.Initiator())
	}

	if _, err := d.Join(code, "c"); !errors.Is(err, domain.ErrRoomFull) {
		t.Fatalf("Join(full) err=%v, want %v", err, domain.ErrRoomFull)
	}
	snap, _ := d.Get(code)
	if len(snap.Members) != 2 || snap.Members[0] != "a" || snap.Members[1] != "b" {
		t.Fatalf("members after rejected join=%v, want [a b]", snap.Members)
	}
}

func TestDirectoryLeave(t *testing.T) {
	d := NewDirectory(8)
	code, _ := d.Create("", "a")
	_, _ = d.Join(code, "b")

	remaining, deleted, err := d.Leave(code, "a")
	if err != nil || deleted || remaining != "b" {
		t.Fatalf("Leave(a)=%q,%v,%v want b,false,nil", remaining, deleted, err)
	}

	if _, _, err := d.Leave(code, "a"); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("Leave(a) again err=%v, want %v", err, domain.ErrMemberNotFound)
	}

	remaining, deleted, err = d.Leave(code, "b")
	if err != nil || !deleted || remaining != "" {
		t.Fatalf("Leave(b)=%q,%v,%v want \"\",true,nil", remaining, deleted, err)
	}
	if _, ok := d.Get(code); ok {
		t.Fatalf("room still present after both members left")
	}

	if _, _, err := d.Leave(code, "b"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("Leave on deleted room err=%v, want %v", err, domain.ErrRoomNotFound)
	}
}

func TestDirectoryReusesFreedSlots(t *testing.T) {
	d := NewDirectory(8)
	first, _ := d.Create("", "a")
	_, _, _ = d.Leave(first, "a")

	if _, err := d.Create("", "b"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(d.slots) != 1 {
		t.Fatalf("slots=%d, want the freed slot reused", len(d.slots))
	}
	if len(d.free) != 0 {
		t.Fatalf("free=%v, want empty", d.free)
	}
}

func TestDirectorySweep(t *testing.T) {
	d := NewDirectory(8)
	occupied, _ := d.Create("", "a")
	empty, _ := d.Create("", "b")
	_ = d.slots[d.index[empty]].RemoveMember("b")

	deleted := d.Sweep()
	if len(deleted) != 1 || deleted[0] != empty {
		t.Fatalf("Sweep deleted %v, want [%s]", deleted, empty)
	}
	if _, ok := d.Get(occupied); !ok {
		t.Fatalf("Sweep removed an occupied room")
	}

	if again := d.Sweep(); len(again) != 0 {
		t.Fatalf("second Sweep deleted %v, want nothing", again)
	}
}

// TestDirectoryMembershipBounds drives random create/join/leave sequences the
// way the core does (a member is in at most one room) and checks every room
// stays within capacity.
func TestDirectoryMembershipBounds(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	d := NewDirectory(4)

	members := make([]string, 12)
	for i := range members {
		members[i] = fmt.Sprintf("m%d", i)
	}
	in := make(map[string]string)
	var codes []string

	leave := func(m string) {
		if code, ok := in[m]; ok {
			if _, _, err := d.Leave(code, m); err != nil {
				t.Fatalf("Leave(%s, %s): %v", code, m, err)
			}
			delete(in, m)
		}
	}

	for step := 0; step < 5000; step++ {
		m := members[r.Intn(len(members))]

		switch r.Intn(3) {
		case 0:
			leave(m)
			code, err := d.Create("", m)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			in[m] = code
			codes = append(codes, code)
		case 1:
			if len(codes) == 0 {
				continue
			}
			code := codes[r.Intn(len(codes))]
			if in[m] == code {
				continue
			}
			before, existed := d.Get(code)
			if err := d.CanJoin(code, m); err != nil {
				after, _ := d.Get(code)
				if existed && len(after.Members) != len(before.Members) {
					t.Fatalf("rejected join changed %s", code)
				}
				continue
			}
			leave(m)
			if _, err := d.Join(code, m); err != nil {
				t.Fatalf("Join after CanJoin: %v", err)
			}
			in[m] = code
		case 2:
			leave(m)
		}

		for code, idx := range d.index {
			n := len(d.slots[idx].Members)
			if n < 1 || n > domain.MaxMembers {
				t.Fatalf("step %d: room %s has %d members", step, code, n)
			}
		}
	}
}
