package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRoomMembership(t *testing.T) {
	room := NewRoom("ABCD2345", "a", time.Now())

	if err := room.AddMember("a"); !errors.Is(err, ErrAlreadyInRoom) {
		t.Fatalf("AddMember(dup) err=%v, want %v", err, ErrAlreadyInRoom)
	}
	if err := room.AddMember("b"); err != nil {
		t.Fatalf("AddMember(b): %v", err)
	}
	if err := room.AddMember("c"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("AddMember(c) err=%v, want %v", err, ErrRoomFull)
	}
	if got := len(room.Members); got != 2 {
		t.Fatalf("members=%d, want 2", got)
	}
	if got := room.Initiator(); got != "a" {
		t.Fatalf("initiator=%q, want %q", got, "a")
	}

	peer, ok := room.Peer("b")
	if !ok || peer != "a" {
		t.Fatalf("Peer(b)=%q,%v want a,true", peer, ok)
	}

	if err := room.RemoveMember("a"); err != nil {
		t.Fatalf("RemoveMember(a): %v", err)
	}
	if got := room.Initiator(); got != "b" {
		t.Fatalf("initiator after leave=%q, want %q", got, "b")
	}
	if _, ok := room.Peer("b"); ok {
		t.Fatalf("Peer(b) found a peer in a single-member room")
	}
	if err := room.RemoveMember("a"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("RemoveMember(a) again err=%v, want %v", err, ErrMemberNotFound)
	}
	if err := room.RemoveMember("b"); err != nil {
		t.Fatalf("RemoveMember(b): %v", err)
	}
	if !room.IsEmpty() {
		t.Fatalf("room not empty after both members left")
	}
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	room := NewRoom("ABCD2345", "a", time.Now())
	snap := room.Snapshot()
	_ = room.AddMember("b")

	if len(snap.Members) != 1 {
		t.Fatalf("snapshot saw later mutation: %v", snap.Members)
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  abCd12 "); got != "ABCD12" {
		t.Fatalf("NormalizeCode=%q, want %q", got, "ABCD12")
	}
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := GenerateCode(DefaultCodeLength)
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != DefaultCodeLength {
			t.Fatalf("len(%q)=%d, want %d", code, len(code), DefaultCodeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeChars, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
		if NormalizeCode(code) != code {
			t.Fatalf("generated code %q is not normalized", code)
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 190 {
		t.Fatalf("only %d distinct codes out of 200", len(seen))
	}

	code, err := GenerateCode(0)
	if err != nil || len(code) != DefaultCodeLength {
		t.Fatalf("GenerateCode(0)=%q,%v want default length", code, err)
	}
}
