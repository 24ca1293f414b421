// internal/handlers/room.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/larsmn/olsen/internal/models"
)

// createRoomRequest is the POST /room/create payload. Every field is
// optional; omitted settings fall back to the server defaults.
type createRoomRequest struct {
	HostName string `json:"hostName,omitempty"`
	Passcode string `json:"passcode,omitempty"`
	Settings struct {
		DeckCount    int    `json:"deckCount,omitempty"`
		Direction    string `json:"direction,omitempty"`
		SingWindowMs int64  `json:"singWindowMs,omitempty"`
	} `json:"settings"`
}

// CreateRoomHandler creates a room and returns its code plus the initial
// public snapshot. The creator still joins over the websocket like everyone
// else; host is simply the first player to connect. hostName is echoed back so
// the creator can reuse it as the join name.
func (rs *RoomServer) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req createRoomRequest
	// An empty body means all defaults.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings := models.DefaultSettings()
	if req.Settings.DeckCount > 0 {
		settings.NumDecks = req.Settings.DeckCount
	}
	if req.Settings.Direction != "" {
		settings.Direction = req.Settings.Direction
	}
	if req.Settings.SingWindowMs > 0 {
		settings.SingWindow = time.Duration(req.Settings.SingWindowMs) * time.Millisecond
	}

	g, err := rs.CreateRoom(settings, req.Passcode)
	if err != nil {
		rs.Logger.Errorf("create room: %v", err)
		httpError(w, http.StatusInternalServerError, "failed to create room")
		return
	}

	rs.Logger.Infof("Room %s created (private=%v, decks=%d)", g.RoomID, g.PasscodeHash != "", settings.NumDecks)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"roomId":   g.RoomID,
		"hostName": req.HostName,
		"state":    g.Snapshot(),
	})
}

// ListRoomsHandler returns the codes of all live rooms.
func (rs *RoomServer) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"rooms": rs.Store.List(),
	})
}
