package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hilthontt/voicelink/pkg/signalclient"
)

func event(t *testing.T, msgType string, data any) signalclient.Event {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return signalclient.Event{Type: msgType, Data: raw}
}

func TestRespond(t *testing.T) {
	tests := []struct {
		name string
		ev   signalclient.Event
		kind string
		ok   bool
	}{
		{"initiator offers", event(t, signalclient.UserJoined, map[string]any{"userId": "b", "initiator": true}), signalclient.Offer, true},
		{"offer is answered", event(t, signalclient.Offer, map[string]any{"roomId": "R", "payload": "x"}), signalclient.Answer, true},
		{"answer ends it", event(t, signalclient.Answer, map[string]any{"roomId": "R", "payload": "x"}), "", false},
		{"user-left is ignored", event(t, signalclient.UserLeft, map[string]any{"userId": "b"}), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _, ok := respond(tt.ev)
			if kind != tt.kind || ok != tt.ok {
				t.Fatalf("respond=%q,%v want %q,%v", kind, ok, tt.kind, tt.ok)
			}
		})
	}
}

func TestRoomOf(t *testing.T) {
	if got := roomOf(event(t, signalclient.RoomJoined, map[string]any{"roomId": "ABCD2345"})); got != "ABCD2345" {
		t.Fatalf("roomOf=%q", got)
	}
	if got := roomOf(event(t, signalclient.UserLeft, map[string]any{"userId": "b"})); got != "" {
		t.Fatalf("roomOf(user-left)=%q", got)
	}
}

func TestFormatEvent(t *testing.T) {
	out := formatEvent(event(t, signalclient.RoomFull, map[string]any{"roomId": "ABCD2345"}))
	if !strings.Contains(out, signalclient.RoomFull) || !strings.Contains(out, "ABCD2345") {
		t.Fatalf("formatEvent=%q", out)
	}
}
