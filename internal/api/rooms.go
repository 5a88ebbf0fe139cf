package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

type RoomsHandler struct {
	store store.Store
}

func NewRoomsHandler(s store.Store) *RoomsHandler {
	return &RoomsHandler{store: s}
}

// GET /api/v1/rooms?type=&status=
func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.RoomFilter
	if v := r.URL.Query().Get("type"); v != "" {
		t := store.RoomType(v)
		if !t.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid room type"})
			return
		}
		filter.Type = &t
	}
	if v := r.URL.Query().Get("status"); v != "" {
		s := store.RoomStatus(v)
		if !s.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid room status"})
			return
		}
		filter.Status = &s
	}

	rooms, err := h.store.ListRooms(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rooms == nil {
		rooms = []*store.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

// GET /api/v1/rooms/{id}
func (h *RoomsHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.store.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if room == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}
	writeJSON(w, http.StatusOK, room)
}
