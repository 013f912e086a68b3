package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hilthontt/voicelink/internal/domain"
	"github.com/hilthontt/voicelink/internal/infrastructure/logging"
	"golang.org/x/time/rate"
)

var errRateLimited = errors.New("rate limited")

type ClientOptions struct {
	SendBuffer        int
	MaxMessageBytes   int64
	MessagesPerSecond float64
	MessageBurst      int
	WriteWait         time.Duration
	PongWait          time.Duration
}

func (o *ClientOptions) setDefaults() {
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	if o.MaxMessageBytes <= 0 {
		o.MaxMessageBytes = 64 * 1024
	}
	if o.MessagesPerSecond <= 0 {
		o.MessagesPerSecond = 50
	}
	if o.MessageBurst <= 0 {
		o.MessageBurst = 100
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
}

// Client is one live signaling connection. Its outbound queue is written by
// the Core and drained by WritePump; the Core closes it on dismissal.
type Client struct {
	ID string `json:"id"`

	conn    *connWrapper
	send    chan *WSMessage
	core    *Core
	limiter *rate.Limiter
	logger  logging.Logger
	opts    ClientOptions
}

func NewClient(conn *websocket.Conn, core *Core, opts ClientOptions) *Client {
	opts.setDefaults()
	return &Client{
		ID:      uuid.NewString(),
		conn:    newConnWrapper(conn, opts.WriteWait),
		send:    make(chan *WSMessage, opts.SendBuffer), // bounded: a slow reader loses messages, never stalls the core
		core:    core,
		limiter: rate.NewLimiter(rate.Limit(opts.MessagesPerSecond), opts.MessageBurst),
		logger:  core.logger,
		opts:    opts,
	}
}

// ReadPump decodes frames and hands them to the Core in arrival order. When
// the socket fails it dismisses the client before releasing the socket.
func (c *Client) ReadPump() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(logging.Signaling, logging.Disconnect, "recovered in read pump", map[logging.ExtraKey]any{
				logging.ConnID:       c.ID,
				logging.ErrorMessage: fmt.Sprint(r),
			})
		}
		c.core.Dismiss(c)
		_ = c.conn.Close()
	}()

	c.conn.conn.SetReadLimit(c.opts.MaxMessageBytes)
	_ = c.conn.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.conn.conn.SetPongHandler(func(string) error {
		return c.conn.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn(logging.Signaling, logging.Disconnect, "ws read error", map[logging.ExtraKey]any{
					logging.ConnID:       c.ID,
					logging.ErrorMessage: err.Error(),
				})
			}
			return
		}

		if !c.core.submit(c.decode(raw)) {
			return
		}
	}
}

func (c *Client) decode(raw []byte) inbound {
	in := inbound{from: c.ID}

	if !c.limiter.Allow() {
		in.err = errRateLimited
		return in
	}

	if err := json.Unmarshal(raw, &in.msg); err != nil {
		in.err = fmt.Errorf("%w: %v", domain.ErrMalformed, err)
		return in
	}
	if in.msg.Type == "" {
		in.err = fmt.Errorf("%w: type is required", domain.ErrMalformed)
	}
	return in
}

// WritePump drains the outbound queue and keeps the connection alive with
// pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.opts.PongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn(logging.Signaling, logging.Disconnect, "ws write error", map[logging.ExtraKey]any{
					logging.ConnID:       c.ID,
					logging.ErrorMessage: err.Error(),
				})
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
