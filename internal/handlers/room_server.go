// internal/handlers/room_server.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/larsmn/olsen/internal/auth"
	"github.com/larsmn/olsen/internal/cache"
	"github.com/larsmn/olsen/internal/database"
	"github.com/larsmn/olsen/internal/game"
	"github.com/larsmn/olsen/internal/models"
)

// RoomServer owns the room registry and the per-room connection pools. The
// engine never sees a websocket; it talks through the broadcast functions
// wired here.
type RoomServer struct {
	Store  *game.RoomStore
	Logger *logrus.Logger

	mu    sync.Mutex
	conns map[string]*roomConns
}

// roomConns is the live connection pool of one room, keyed by player id.
type roomConns struct {
	mu    sync.Mutex
	conns map[uuid.UUID]*websocket.Conn
}

func NewRoomServer(logger *logrus.Logger) *RoomServer {
	return &RoomServer{
		Store:  game.NewRoomStore(),
		Logger: logger,
		conns:  make(map[string]*roomConns),
	}
}

func (rs *RoomServer) poolFor(roomID string) *roomConns {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	pool, ok := rs.conns[roomID]
	if !ok {
		pool = &roomConns{conns: make(map[uuid.UUID]*websocket.Conn)}
		rs.conns[roomID] = pool
	}
	return pool
}

func (rs *RoomServer) dropPool(roomID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.conns, roomID)
}

func (p *roomConns) attach(playerID uuid.UUID, c *websocket.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns[playerID] = c
}

func (p *roomConns) detach(playerID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.conns, playerID)
}

func (p *roomConns) snapshot() map[uuid.UUID]*websocket.Conn {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[uuid.UUID]*websocket.Conn, len(p.conns))
	for id, c := range p.conns {
		out[id] = c
	}
	return out
}

// CreateRoom builds a new room and wires its callbacks to this server's
// connection pool, journal and match archive.
func (rs *RoomServer) CreateRoom(settings models.Settings, passcode string) (*game.Game, error) {
	var hash string
	if passcode != "" {
		var err error
		hash, err = auth.HashPasscode(passcode)
		if err != nil {
			return nil, err
		}
	}
	g := rs.Store.Create(settings, hash)
	rs.wireRoom(g)
	return g, nil
}

// wireRoom installs the broadcast, journal and game-end callbacks. The
// callbacks run with the room lock held, so every network or database call is
// handed off to a goroutine.
func (rs *RoomServer) wireRoom(g *game.Game) {
	pool := rs.poolFor(g.RoomID)
	logger := rs.Logger

	g.BroadcastFn = func(ev game.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("marshal broadcast event %s for room %s: %v", ev.Type, g.RoomID, err)
			return
		}
		go writeToAll(pool.snapshot(), data, logger, g.RoomID)
	}

	g.BroadcastToPlayerFn = func(playerID uuid.UUID, ev game.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("marshal private event %s for room %s: %v", ev.Type, g.RoomID, err)
			return
		}
		conns := pool.snapshot()
		if c, ok := conns[playerID]; ok {
			go writeOne(c, data, logger, g.RoomID, playerID)
		}
	}

	g.JournalFn = func(kind string, payload map[string]interface{}) {
		rec := cache.PlayRecord{
			RoomID:    g.RoomID,
			Seq:       g.Seq,
			Kind:      kind,
			Payload:   payload,
			Timestamp: time.Now().UnixMilli(),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := cache.PublishPlayRecord(ctx, rec); err != nil {
				logger.Warnf("journal push failed for room %s: %v", g.RoomID, err)
			}
		}()
	}

	g.OnGameEnd = func(res game.MatchResult) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := database.RecordMatchResult(ctx, res); err != nil {
				logger.Warnf("match archive failed for room %s: %v", res.RoomID, err)
			}
		}()
	}
}

// CloseRoom tears a room down for everyone and forgets it.
func (rs *RoomServer) CloseRoom(g *game.Game, reason string) {
	g.Close(reason)
	rs.Store.Delete(g.RoomID)
	rs.dropPool(g.RoomID)
}

func writeToAll(conns map[uuid.UUID]*websocket.Conn, data []byte, logger *logrus.Logger, roomID string) {
	for playerID, c := range conns {
		writeOne(c, data, logger, roomID, playerID)
	}
}

func writeOne(c *websocket.Conn, data []byte, logger *logrus.Logger, roomID string, playerID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, data); err != nil {
		logger.Warnf("write to player %s in room %s failed: %v", playerID, roomID, err)
	}
}

// writeJSON is a fire-and-forget JSON write to one connection.
func writeJSON(c *websocket.Conn, v interface{}, logger *logrus.Logger) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Errorf("marshal ws message: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, data); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			logger.Warnf("ws write failed: %v", err)
		}
	}
}

// httpError writes a JSON error body with the given status.
func httpError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
