package health

import (
	"context"
	"net/http"
	"time"

	"github.com/hilthontt/voicelink/internal/infrastructure/json"
)

type Stats interface {
	Stats(ctx context.Context) (connections, rooms int, err error)
}

type Handler struct {
	startedAt time.Time
	stats     Stats
}

func NewHandler(stats Stats) *Handler {
	return &Handler{
		startedAt: time.Now(),
		stats:     stats,
	}
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	data := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
	}
	if h.stats != nil {
		connections, rooms, err := h.stats.Stats(r.Context())
		if err != nil {
			data.Status = "unavailable"
			json.Write(w, http.StatusServiceUnavailable, data)
			return
		}
		data.Connections = connections
		data.Rooms = rooms
	}
	json.Write(w, http.StatusOK, data)
}
