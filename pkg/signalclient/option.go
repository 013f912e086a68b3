package signalclient

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

type RequestOption func(*config)

type config struct {
	baseURL    string
	httpClient *http.Client
	dialer     *websocket.Dialer
	header     http.Header
}

func WithBaseURL(base string) RequestOption {
	return func(c *config) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

func WithHTTPClient(client *http.Client) RequestOption {
	return func(c *config) {
		c.httpClient = client
	}
}

func WithDialer(dialer *websocket.Dialer) RequestOption {
	return func(c *config) {
		c.dialer = dialer
	}
}

// WithHeader adds a header to every HTTP request and to the websocket handshake.
func WithHeader(key, value string) RequestOption {
	return func(c *config) {
		c.header.Add(key, value)
	}
}
