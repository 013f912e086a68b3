package signalclient

import (
	"errors"
	"fmt"
)

var (
	ErrMissingRoomID = errors.New("missing required room id parameter")
	ErrRoomNotFound  = errors.New("room not found")
	ErrSessionClosed = errors.New("signaling session is closed")
)

// APIError is a non-2xx response from the HTTP API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("voicelink: %d %s", e.StatusCode, e.Message)
}
