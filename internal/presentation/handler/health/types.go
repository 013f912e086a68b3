package health

import "time"

type healthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      string    `json:"uptime"`
	Connections int       `json:"connections"`
	Rooms       int       `json:"rooms"`
}
