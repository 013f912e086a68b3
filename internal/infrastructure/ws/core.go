package ws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hilthontt/voicelink/internal/domain"
	"github.com/hilthontt/voicelink/internal/infrastructure/logging"
	"github.com/hilthontt/voicelink/internal/infrastructure/metrics"
	"github.com/hilthontt/voicelink/internal/infrastructure/tracing"
	"go.opentelemetry.io/otel/trace"
)

const DefaultSweepInterval = 5 * time.Minute

var ErrCoreStopped = errors.New("signaling core stopped")

// EventSink receives room lifecycle events. Enqueue must not block.
type EventSink interface {
	Enqueue(event domain.RoomEvent)
}

type noopSink struct{}

func (noopSink) Enqueue(domain.RoomEvent) {}

type Options struct {
	CodeLength    int
	SweepInterval time.Duration
	Logger        logging.Logger
	Metrics       *metrics.Metrics
	Events        EventSink
}

type dismissal struct {
	client *Client
	done   chan struct{}
}

type inbound struct {
	from string
	msg  ClientMessage
	err  error
}

// Core owns the Registry and the Directory. Every mutation runs on the Run
// goroutine, so each check-and-update on a room is atomic.
type Core struct {
	registry  *Registry
	directory *Directory

	register   chan *Client
	unregister chan dismissal
	inbound    chan inbound
	queries    chan func()
	stopped    chan struct{}

	sweepInterval time.Duration
	logger        logging.Logger
	metrics       *metrics.Metrics
	events        EventSink
	tracer        trace.Tracer
}

func NewCore(opts Options) *Core {
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Events == nil {
		opts.Events = noopSink{}
	}

	return &Core{
		registry:  NewRegistry(),
		directory: NewDirectory(opts.CodeLength),

		// unbuffered: a connection's requests are handled in the order it sent them
		register:   make(chan *Client),
		unregister: make(chan dismissal),
		inbound:    make(chan inbound),
		queries:    make(chan func()),
		stopped:    make(chan struct{}),

		sweepInterval: opts.SweepInterval,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		events:        opts.Events,
		tracer:        tracing.GetTracer("voicelink/ws"),
	}
}

// Run processes requests until ctx is cancelled. On return every remaining
// connection's outbound queue is closed.
func (c *Core) Run(ctx context.Context) {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()
	defer c.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case cl := <-c.register:
			c.admit(cl)

		case d := <-c.unregister:
			c.dismiss(d.client)
			close(d.done)

		case in := <-c.inbound:
			c.handle(in)

		case q := <-c.queries:
			q()

		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Core) shutdown() {
	close(c.stopped)
	c.registry.each(func(cl *Client) {
		close(cl.send)
	})
	c.registry = NewRegistry()
	c.logger.Info(logging.Signaling, logging.Shutdown, "signaling core stopped", nil)
}

// Admit registers a new connection.
func (c *Core) Admit(cl *Client) error {
	select {
	case c.register <- cl:
		return nil
	case <-c.stopped:
		return ErrCoreStopped
	}
}

// Dismiss removes cl and returns once its room has been left and its peer
// notified. Safe to call more than once.
func (c *Core) Dismiss(cl *Client) {
	done := make(chan struct{})
	select {
	case c.unregister <- dismissal{client: cl, done: done}:
	case <-c.stopped:
		return
	}
	<-done
}

func (c *Core) submit(in inbound) bool {
	select {
	case c.inbound <- in:
		return true
	case <-c.stopped:
		return false
	}
}

// do runs fn on the core goroutine and waits for it.
func (c *Core) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	q := func() {
		fn()
		close(done)
	}

	select {
	case c.queries <- q:
	case <-c.stopped:
		return ErrCoreStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	// once received, fn runs before the loop selects again
	<-done
	return nil
}

// MintCode returns a generated code no live room holds. Nothing is reserved.
func (c *Core) MintCode(ctx context.Context) (string, error) {
	var (
		code string
		err  error
	)
	if doErr := c.do(ctx, func() {
		code, err = c.directory.Mint()
	}); doErr != nil {
		return "", doErr
	}
	return code, err
}

// Room returns a snapshot of the room under code.
func (c *Core) Room(ctx context.Context, code string) (domain.Room, error) {
	var (
		room domain.Room
		ok   bool
	)
	if err := c.do(ctx, func() {
		room, ok = c.directory.Get(code)
	}); err != nil {
		return domain.Room{}, err
	}
	if !ok {
		return domain.Room{}, fmt.Errorf("room %s: %w", domain.NormalizeCode(code), domain.ErrRoomNotFound)
	}
	return room, nil
}

// Stats reports live connections and rooms.
func (c *Core) Stats(ctx context.Context) (connections, rooms int, err error) {
	err = c.do(ctx, func() {
		connections = c.registry.Len()
		rooms = c.directory.Len()
	})
	return connections, rooms, err
}

// deliver queues msg for id without blocking. A full queue drops msg.
func (c *Core) deliver(id string, msg *WSMessage) bool {
	cl, ok := c.registry.Client(id)
	if !ok {
		return false
	}

	select {
	case cl.send <- msg:
		return true
	default:
		c.metrics.DeliveryDropped.Inc()
		c.logger.Warn(logging.Signaling, logging.Relay, "outbound buffer full, dropping message", map[logging.ExtraKey]any{
			logging.ConnID:      id,
			logging.MessageType: msg.Type,
		})
		return false
	}
}

func (c *Core) handle(in inbound) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(logging.Signaling, logging.Malformed, "recovered while handling message", map[logging.ExtraKey]any{
				logging.ConnID:       in.from,
				logging.MessageType:  in.msg.Type,
				logging.ErrorMessage: fmt.Sprint(r),
			})
		}
	}()

	if _, ok := c.registry.Client(in.from); !ok {
		return
	}

	if in.err != nil {
		if errors.Is(in.err, errRateLimited) {
			c.metrics.RateLimited.Inc()
			c.deliver(in.from, NewRateLimited())
			return
		}
		c.malformed(in.from, in.msg.Type, in.err)
		return
	}

	switch in.msg.Type {
	case CreateRoom:
		c.createRoom(in.from, in.msg.Data)
	case JoinRoom:
		c.joinRoom(in.from, in.msg.Data)
	case LeaveRoom:
		c.leaveRequest(in.from, in.msg.Data)
	case Offer, Answer, IceCandidate:
		c.relay(in.from, in.msg.Type, in.msg.Data)
	default:
		c.malformed(in.from, in.msg.Type, fmt.Errorf("%w: unknown message type %q", domain.ErrMalformed, in.msg.Type))
	}
}

func (c *Core) malformed(from, msgType string, err error) {
	c.metrics.MalformedMessages.Inc()
	c.logger.Debug(logging.Signaling, logging.Malformed, "malformed message", map[logging.ExtraKey]any{
		logging.ConnID:       from,
		logging.MessageType:  msgType,
		logging.ErrorMessage: err.Error(),
	})
	c.deliver(from, NewMalformed(err.Error()))
}
