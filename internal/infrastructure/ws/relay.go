package ws

import (
	"encoding/json"
	"fmt"

	"github.com/hilthontt/voicelink/internal/domain"
	"github.com/hilthontt/voicelink/internal/infrastructure/logging"
	"github.com/hilthontt/voicelink/internal/infrastructure/metrics"
)

// relay forwards a negotiation message to the sender's peer, untouched and
// tagged with the sender. Messages with nobody to receive them are counted
// and dropped.
func (c *Core) relay(from, kind string, raw json.RawMessage) {
	var sig SignalPayload
	if err := decodeData(raw, &sig); err != nil {
		c.malformed(from, kind, err)
		return
	}
	if sig.RoomID == "" {
		c.malformed(from, kind, fmt.Errorf("%w: roomId is required", domain.ErrMalformed))
		return
	}
	if len(sig.Payload) == 0 || string(sig.Payload) == "null" {
		c.malformed(from, kind, fmt.Errorf("%w: payload is required", domain.ErrMalformed))
		return
	}

	code := domain.NormalizeCode(sig.RoomID)
	to, reason := c.route(code, from)
	if reason != "" {
		c.metrics.RelayDropped.WithLabelValues(reason).Inc()
		c.logger.Debug(logging.Signaling, logging.Relay, domain.ErrUnaddressable.Error(), map[logging.ExtraKey]any{
			logging.ConnID:      from,
			logging.RoomCode:    code,
			logging.MessageType: kind,
			logging.Reason:      reason,
		})
		return
	}

	if c.deliver(to, NewSignal(kind, code, from, sig.Payload)) {
		c.metrics.Relayed.WithLabelValues(kind).Inc()
	}
}

// route finds the receiver of a message sent by from into code, or the reason
// there is none.
func (c *Core) route(code, from string) (to string, dropReason string) {
	room, ok := c.directory.Lookup(code)
	if !ok {
		return "", metrics.DropRoomNotFound
	}
	if !room.IsMember(from) {
		return "", metrics.DropNotMember
	}
	peer, ok := room.Peer(from)
	if !ok {
		return "", metrics.DropNoPeer
	}
	return peer, ""
}
