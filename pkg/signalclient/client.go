package signalclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const defaultBaseURL = "http://localhost:3001"

// Client talks to a voicelink signaling server over HTTP and WebSocket.
type Client struct {
	cfg config
}

func DefaultClientOptions() []RequestOption {
	defaults := []RequestOption{WithBaseURL(defaultBaseURL)}
	if o, ok := os.LookupEnv("VOICELINK_BASE_URL"); ok {
		defaults = append(defaults, WithBaseURL(o))
	}
	return defaults
}

func NewClient(opts ...RequestOption) *Client {
	cfg := config{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		dialer:     websocket.DefaultDialer,
		header:     make(http.Header),
	}
	for _, opt := range append(DefaultClientOptions(), opts...) {
		opt(&cfg)
	}
	return &Client{cfg: cfg}
}

type Room struct {
	RoomID      string    `json:"roomId"`
	Members     []string  `json:"members"`
	MemberCount int       `json:"memberCount"`
	Full        bool      `json:"full"`
	CreatedAt   time.Time `json:"createdAt"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Uptime      string `json:"uptime"`
	Connections int    `json:"connections"`
	Rooms       int    `json:"rooms"`
}

// MintCode asks the server for a room code nobody is using.
func (c *Client) MintCode(ctx context.Context) (string, error) {
	var res struct {
		RoomID string `json:"roomId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/rooms/code", &res); err != nil {
		return "", err
	}
	return res.RoomID, nil
}

func (c *Client) Room(ctx context.Context, code string) (*Room, error) {
	if code == "" {
		return nil, ErrMissingRoomID
	}

	res := &Room{}
	err := c.do(ctx, http.MethodGet, "/api/rooms/"+url.PathEscape(code), res)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", code, ErrRoomNotFound)
	}
	return res, err
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	res := &HealthResponse{}
	err := c.do(ctx, http.MethodGet, "/api/health", res)
	return res, err
}

func (c *Client) do(ctx context.Context, method, path string, res any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.baseURL+path, nil)
	if err != nil {
		return err
	}
	for k, v := range c.cfg.header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.cfg.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var body struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if json.Unmarshal(raw, &body) != nil || body.Message == "" {
			body.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: body.Message}
	}

	return json.NewDecoder(resp.Body).Decode(res)
}

// Connect opens a signaling session.
func (c *Client) Connect(ctx context.Context) (*Session, error) {
	wsURL := c.cfg.baseURL
	if after, ok := strings.CutPrefix(wsURL, "https://"); ok {
		wsURL = "wss://" + after
	} else if after, ok := strings.CutPrefix(wsURL, "http://"); ok {
		wsURL = "ws://" + after
	}

	conn, resp, err := c.cfg.dialer.DialContext(ctx, wsURL+"/ws", c.cfg.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial signaling server: %w", err)
	}

	return newSession(conn), nil
}
