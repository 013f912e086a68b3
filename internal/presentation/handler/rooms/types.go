package rooms

import "time"

type mintCodeResponse struct {
	RoomID string `json:"roomId"`
}

type roomResponse struct {
	RoomID      string    `json:"roomId"`
	Members     []string  `json:"members"`
	MemberCount int       `json:"memberCount"`
	Full        bool      `json:"full"`
	CreatedAt   time.Time `json:"createdAt"`
}
