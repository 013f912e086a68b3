package ws

import "testing"

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := &Client{ID: "a"}

	if id := r.Admit(a); id != "a" {
		t.Fatalf("Admit=%q, want a", id)
	}
	r.SetRoom("a", "ROOM1234")
	if got := r.Room("a"); got != "ROOM1234" {
		t.Fatalf("Room=%q", got)
	}

	// admitting again keeps the recorded room
	r.Admit(a)
	if got := r.Room("a"); got != "ROOM1234" {
		t.Fatalf("re-Admit reset room to %q", got)
	}

	room, ok := r.Dismiss("a")
	if !ok || room != "ROOM1234" {
		t.Fatalf("Dismiss=%q,%v", room, ok)
	}
	if _, ok := r.Dismiss("a"); ok {
		t.Fatalf("second Dismiss reported a connection")
	}
	if _, ok := r.Client("a"); ok || r.Len() != 0 {
		t.Fatalf("registry still holds a")
	}

	r.SetRoom("ghost", "X") // unknown ids are ignored
	if r.Room("ghost") != "" {
		t.Fatalf("SetRoom created an entry")
	}
}
