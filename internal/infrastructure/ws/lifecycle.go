package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hilthontt/voicelink/internal/domain"
	"github.com/hilthontt/voicelink/internal/infrastructure/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Reasons a member leaves a room.
const (
	reasonLeave      = "leave"
	reasonDisconnect = "disconnect"
	reasonSwitch     = "switch"
)

type roomRequest struct {
	RoomID string `json:"roomId"`
}

func decodeData(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: invalid data: %v", domain.ErrMalformed, err)
	}
	return nil
}

func (c *Core) startSpan(name, code string) trace.Span {
	_, span := c.tracer.Start(context.Background(), name,
		trace.WithAttributes(attribute.String("room.code", code)),
	)
	return span
}

func (c *Core) admit(cl *Client) {
	c.registry.Admit(cl)
	c.metrics.ActiveConnections.Set(float64(c.registry.Len()))
	c.logger.Debug(logging.Signaling, logging.Connect, "connection admitted", map[logging.ExtraKey]any{
		logging.ConnID: cl.ID,
	})
}

// dismiss removes every trace of cl. Its room is left through the same path
// as an explicit leave, so the peer is told before dismiss returns.
func (c *Core) dismiss(cl *Client) {
	room, ok := c.registry.Dismiss(cl.ID)
	if !ok {
		return
	}
	if room != "" {
		c.leaveRoom(cl.ID, room, reasonDisconnect)
	}
	close(cl.send)

	c.metrics.ActiveConnections.Set(float64(c.registry.Len()))
	c.logger.Debug(logging.Signaling, logging.Disconnect, "connection dismissed", map[logging.ExtraKey]any{
		logging.ConnID:   cl.ID,
		logging.RoomCode: room,
	})
}

func (c *Core) createRoom(from string, raw json.RawMessage) {
	var req roomRequest
	if err := decodeData(raw, &req); err != nil {
		c.malformed(from, CreateRoom, err)
		return
	}

	requested := strings.TrimSpace(req.RoomID)
	if requested != "" {
		if _, err := ValidateCode(requested); err != nil {
			c.malformed(from, CreateRoom, err)
			return
		}
	}

	span := c.startSpan("room.create", domain.NormalizeCode(requested))
	defer span.End()

	if current := c.registry.Room(from); current != "" {
		c.leaveRoom(from, current, reasonSwitch)
	}

	code, err := c.directory.Create(requested, from)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error(logging.Lifecycle, logging.Create, "failed to create room", map[logging.ExtraKey]any{
			logging.ConnID:       from,
			logging.ErrorMessage: err.Error(),
		})
		c.deliver(from, NewInternalError("could not create room"))
		return
	}
	span.SetAttributes(attribute.String("room.code", code))

	c.registry.SetRoom(from, code)
	c.metrics.RoomsCreated.Inc()
	c.metrics.ActiveRooms.Set(float64(c.directory.Len()))
	c.events.Enqueue(domain.NewRoomCreatedEvent(code, requested != ""))

	c.logger.Info(logging.Lifecycle, logging.Create, "room created", map[logging.ExtraKey]any{
		logging.ConnID:   from,
		logging.RoomCode: code,
	})
	c.deliver(from, NewRoomCreated(code, from))
}

func (c *Core) joinRoom(from string, raw json.RawMessage) {
	var req roomRequest
	if err := decodeData(raw, &req); err != nil {
		c.malformed(from, JoinRoom, err)
		return
	}
	if strings.TrimSpace(req.RoomID) == "" {
		c.malformed(from, JoinRoom, fmt.Errorf("%w: roomId is required", domain.ErrMalformed))
		return
	}

	code := domain.NormalizeCode(req.RoomID)
	span := c.startSpan("room.join", code)
	defer span.End()

	current := c.registry.Room(from)
	if current == code {
		c.deliver(from, NewRoomJoined(code, from))
		return
	}

	// A rejected join must not disturb the room the caller is already in,
	// so capacity is checked before the implicit leave.
	if err := c.directory.CanJoin(code, from); err != nil {
		c.rejectJoin(from, code, err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	if current != "" {
		c.leaveRoom(from, current, reasonSwitch)
	}

	room, err := c.directory.Join(code, from)
	if err != nil {
		c.rejectJoin(from, code, err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	c.registry.SetRoom(from, code)

	if peer, ok := room.Peer(from); ok {
		c.deliver(peer, NewUserJoined(from))
	}
	c.deliver(from, NewRoomJoined(code, from))

	c.events.Enqueue(domain.NewMemberJoinedEvent(code, len(room.Members)))
	c.logger.Info(logging.Lifecycle, logging.Join, "member joined room", map[logging.ExtraKey]any{
		logging.ConnID:      from,
		logging.RoomCode:    code,
		logging.MemberCount: len(room.Members),
	})
}

func (c *Core) rejectJoin(from, code string, err error) {
	extra := map[logging.ExtraKey]any{
		logging.ConnID:   from,
		logging.RoomCode: code,
		logging.Reason:   err.Error(),
	}

	switch {
	case errors.Is(err, domain.ErrRoomFull):
		c.metrics.JoinsRejected.WithLabelValues("full").Inc()
		c.events.Enqueue(domain.NewRoomFullRejectionEvent(code))
		c.logger.Info(logging.Lifecycle, logging.Join, "join rejected", extra)
		c.deliver(from, NewRoomFull(code))
	case errors.Is(err, domain.ErrAlreadyInRoom):
		c.deliver(from, NewRoomJoined(code, from))
	default:
		c.metrics.JoinsRejected.WithLabelValues("not_found").Inc()
		c.logger.Debug(logging.Lifecycle, logging.Join, "join rejected", extra)
		c.deliver(from, NewRoomNotFound(code))
	}
}

func (c *Core) leaveRequest(from string, raw json.RawMessage) {
	var req roomRequest
	if err := decodeData(raw, &req); err != nil {
		c.malformed(from, LeaveRoom, err)
		return
	}
	if strings.TrimSpace(req.RoomID) == "" {
		c.malformed(from, LeaveRoom, fmt.Errorf("%w: roomId is required", domain.ErrMalformed))
		return
	}

	code := domain.NormalizeCode(req.RoomID)
	if c.registry.Room(from) != code {
		c.logger.Debug(logging.Lifecycle, logging.Leave, "leave for a room the connection is not in", map[logging.ExtraKey]any{
			logging.ConnID:   from,
			logging.RoomCode: code,
		})
		return
	}
	c.leaveRoom(from, code, reasonLeave)
}

// leaveRoom takes member out of code, tells the remaining member and deletes
// the room when nobody is left.
func (c *Core) leaveRoom(member, code, reason string) {
	span := c.startSpan("room.leave", code)
	defer span.End()

	remaining, deleted, err := c.directory.Leave(code, member)
	c.registry.SetRoom(member, "")
	if err != nil {
		c.logger.Warn(logging.Lifecycle, logging.Leave, "leave on unknown membership", map[logging.ExtraKey]any{
			logging.ConnID:       member,
			logging.RoomCode:     code,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	count := 0
	if remaining != "" {
		count = 1
		c.deliver(remaining, NewUserLeft(member))
	}
	c.events.Enqueue(domain.NewMemberLeftEvent(code, count, reason))

	c.logger.Info(logging.Lifecycle, logging.Leave, "member left room", map[logging.ExtraKey]any{
		logging.ConnID:      member,
		logging.RoomCode:    code,
		logging.Reason:      reason,
		logging.MemberCount: count,
	})

	if deleted {
		c.roomDeleted(code, "empty")
	}
}

func (c *Core) sweep() {
	deleted := c.directory.Sweep()
	for _, code := range deleted {
		c.roomDeleted(code, "sweep")
	}
	c.logger.Debug(logging.Lifecycle, logging.Sweep, "sweep finished", map[logging.ExtraKey]any{
		"Deleted": len(deleted),
		"Rooms":   c.directory.Len(),
	})
}

func (c *Core) roomDeleted(code, reason string) {
	c.metrics.RoomsDeleted.WithLabelValues(reason).Inc()
	c.metrics.ActiveRooms.Set(float64(c.directory.Len()))
	c.events.Enqueue(domain.NewRoomDeletedEvent(code, reason))
	c.logger.Info(logging.Lifecycle, logging.Sweep, "room deleted", map[logging.ExtraKey]any{
		logging.RoomCode: code,
		logging.Reason:   reason,
	})
}
