// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/larsmn/olsen/internal/auth"
	"github.com/larsmn/olsen/internal/game"
	"github.com/larsmn/olsen/internal/middleware"
)

// clientMessage is the inbound websocket envelope. The optional id is echoed
// back on the ack so clients can correlate.
type clientMessage struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Card    string `json:"card,omitempty"`
	Suit    string `json:"suit,omitempty"`
	Message string `json:"message,omitempty"`
}

type ackMessage struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// RoomWebSocketHandler upgrades GET /room/ws/{roomId}?name=N&passcode=P into
// the room's event stream and command channel.
func (rs *RoomServer) RoomWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	roomID := strings.TrimPrefix(r.URL.Path, "/room/ws/")
	if roomID == "" || strings.Contains(roomID, "/") {
		httpError(w, http.StatusBadRequest, "missing room id")
		return
	}

	g, ok := rs.Store.Get(roomID)
	if !ok || g.Closed() {
		httpError(w, http.StatusNotFound, "room not found")
		return
	}

	if g.PasscodeHash != "" {
		match, err := auth.VerifyPasscode(r.URL.Query().Get("passcode"), g.PasscodeHash)
		if err != nil || !match {
			httpError(w, http.StatusForbidden, "wrong passcode")
			return
		}
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "guest"
	}

	// The session cookie has to land before the 101 response, so identity is
	// resolved pre-upgrade.
	playerID, err := EnsureGuest(w, r)
	if err != nil {
		rs.Logger.Errorf("guest session for room %s: %v", roomID, err)
		httpError(w, http.StatusInternalServerError, "session error")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:       []string{"game"},
		InsecureSkipVerify: true,
	})
	if err != nil {
		rs.Logger.Warnf("websocket accept failed for room %s: %v", roomID, err)
		return
	}

	middleware.LogConnect(roomID, playerID, name)

	pool := rs.poolFor(roomID)
	pool.attach(playerID, conn)
	g.AddPlayer(playerID, name)

	rs.readLoop(r.Context(), conn, g, pool, playerID)
}

// readLoop pumps commands from one connection into the room engine until the
// socket closes or the player leaves. Engine callbacks run under the room
// lock, so acks for deferred operations are written from a goroutine.
func (rs *RoomServer) readLoop(ctx context.Context, conn *websocket.Conn, g *game.Game, pool *roomConns, playerID uuid.UUID) {
	logger := rs.Logger
	defer func() {
		pool.detach(playerID)
		middleware.LogDisconnect(g.RoomID, playerID)
		conn.Close(websocket.StatusNormalClosure, "bye")
		rs.handleDeparture(g, playerID)
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				logger.Debugf("read from player %s in room %s ended: %v", playerID, g.RoomID, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			writeJSON(conn, ackMessage{Type: "ack", OK: false, Error: "malformed message"}, logger)
			continue
		}

		ack := func(err error) {
			a := ackMessage{Type: "ack", ID: msg.ID, OK: err == nil}
			if err != nil {
				a.Error = err.Error()
			}
			go writeJSON(conn, a, logger)
		}

		switch msg.Type {
		case "start":
			ack(g.StartAs(playerID))
		case "play_card":
			if msg.Card == "" {
				ack(fmt.Errorf("missing card"))
				continue
			}
			g.PlayCard(playerID, msg.Card, ack)
		case "draw_card":
			g.DrawCardAction(playerID, ack)
		case "select_suit":
			g.SelectSuit(playerID, strings.ToUpper(strings.TrimSpace(msg.Suit)))
			ack(nil)
		case "knock":
			g.Knock(playerID)
			ack(nil)
		case "sing":
			g.Sing(playerID)
			ack(nil)
		case "chat":
			g.ProcessChat(playerID, msg.Message)
			ack(nil)
		case "leave":
			ack(nil)
			return
		default:
			ack(fmt.Errorf("unknown message type: %s", msg.Type))
		}
	}
}

// handleDeparture runs once per connection teardown. A departing host takes
// the room down with them; anyone else is simply unseated.
func (rs *RoomServer) handleDeparture(g *game.Game, playerID uuid.UUID) {
	if g.Closed() {
		rs.Store.Delete(g.RoomID)
		rs.dropPool(g.RoomID)
		return
	}
	if g.HostIs(playerID) {
		rs.Logger.Infof("Host left room %s, closing it.", g.RoomID)
		rs.CloseRoom(g, "host left")
		return
	}
	g.RemovePlayer(playerID)
	if g.PlayerCount() == 0 {
		rs.CloseRoom(g, "room empty")
	}
}
