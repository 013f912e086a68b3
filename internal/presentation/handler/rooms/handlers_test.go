package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hilthontt/voicelink/internal/domain"
	"github.com/hilthontt/voicelink/internal/infrastructure/logging"
)

type fakeDirectory struct {
	rooms map[string]domain.Room
	err   error
}

func (f *fakeDirectory) MintCode(context.Context) (string, error) {
	return "MINT2345", f.err
}

func (f *fakeDirectory) Room(_ context.Context, code string) (domain.Room, error) {
	if f.err != nil {
		return domain.Room{}, f.err
	}
	room, ok := f.rooms[domain.NormalizeCode(code)]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

func newRouter(d Directory) http.Handler {
	h := NewHandler(d, logging.NewNop())
	r := chi.NewRouter()
	r.Post("/rooms/code", h.MintCodeHandler)
	r.Get("/rooms/{roomId}", h.GetRoomHandler)
	return r
}

func TestMintCodeHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeDirectory{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rooms/code", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d, want 201", rec.Code)
	}
	var body mintCodeResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.RoomID != "MINT2345" {
		t.Fatalf("body=%+v err=%v", body, err)
	}

	rec = httptest.NewRecorder()
	newRouter(&fakeDirectory{err: errors.New("boom")}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rooms/code", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", rec.Code)
	}
}

func TestGetRoomHandler(t *testing.T) {
	d := &fakeDirectory{rooms: map[string]domain.Room{
		"ABCD2345": {Code: "ABCD2345", Members: []string{"a", "b"}, CreatedAt: time.Now()},
	}}
	router := newRouter(d)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/abcd2345", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	var body roomResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.RoomID != "ABCD2345" || body.MemberCount != 2 || !body.Full {
		t.Fatalf("body=%+v", body)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/NOPE2345", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", rec.Code)
	}
}
