package rooms

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hilthontt/voicelink/internal/domain"
	"github.com/hilthontt/voicelink/internal/infrastructure/json"
	"github.com/hilthontt/voicelink/internal/infrastructure/logging"
)

// Directory is the read side of the signaling core the HTTP API needs.
type Directory interface {
	MintCode(ctx context.Context) (string, error)
	Room(ctx context.Context, code string) (domain.Room, error)
}

type Handler struct {
	directory Directory
	logger    logging.Logger
}

func NewHandler(directory Directory, logger logging.Logger) *Handler {
	return &Handler{
		directory: directory,
		logger:    logger,
	}
}

// MintCodeHandler hands out a code no live room holds. The room itself is
// only created when a client sends create-room with it.
func (h *Handler) MintCodeHandler(w http.ResponseWriter, r *http.Request) {
	code, err := h.directory.MintCode(r.Context())
	if err != nil {
		h.logger.Error(logging.Lifecycle, logging.Create, "failed to mint room code", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w)
		return
	}

	json.Write(w, http.StatusCreated, mintCodeResponse{RoomID: code})
}

func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "roomId")

	room, err := h.directory.Room(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			json.WriteNotFoundError(w, "Room not found")
		default:
			h.logger.Error(logging.Lifecycle, logging.Join, "failed to look up room", map[logging.ExtraKey]any{
				logging.RoomCode:     code,
				logging.ErrorMessage: err.Error(),
			})
			json.WriteInternalError(w)
		}
		return
	}

	json.Write(w, http.StatusOK, roomResponse{
		RoomID:      room.Code,
		Members:     room.Members,
		MemberCount: len(room.Members),
		Full:        room.IsFull(),
		CreatedAt:   room.CreatedAt,
	})
}
