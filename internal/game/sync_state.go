// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	"github.com/larsmn/olsen/internal/models"
)

// PublicPlayer is the non-sensitive view of one seat: hand count only, never
// the cards.
type PublicPlayer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	HandCount int       `json:"handCount"`
	Connected bool      `json:"connected"`
}

// PublicState is the aggregate room snapshot sent identically to every
// client.
type PublicState struct {
	RoomID        string          `json:"roomId"`
	Players       []PublicPlayer  `json:"players"`
	TurnOrder     []uuid.UUID     `json:"turnOrder"`
	CurrentPlayer uuid.UUID       `json:"currentPlayer,omitempty"`
	DiscardTop    string          `json:"discardTop,omitempty"`
	DrawCount     int             `json:"drawCount"`
	Settings      models.Settings `json:"settings"`
	HostID        uuid.UUID       `json:"hostId,omitempty"`
	Started       bool            `json:"started"`
	Seq           int64           `json:"seq"`
}

// snapshot builds the public state. Assumes lock is held.
func (g *Game) snapshot() *PublicState {
	st := &PublicState{
		RoomID:     g.RoomID,
		Players:    make([]PublicPlayer, 0, len(g.TurnOrder)),
		TurnOrder:  append([]uuid.UUID{}, g.TurnOrder...),
		DiscardTop: g.topDiscard(),
		DrawCount:  len(g.Draw),
		Settings:   g.Settings,
		HostID:     g.HostID,
		Started:    g.Started,
		Seq:        g.Seq,
	}
	for _, pid := range g.TurnOrder {
		p := g.Players[pid]
		st.Players = append(st.Players, PublicPlayer{ID: p.ID, Name: p.Name, HandCount: len(p.Hand), Connected: p.Connected})
	}
	if len(g.TurnOrder) > 0 {
		st.CurrentPlayer = g.TurnOrder[g.CurrentTurnIndex]
	}
	return st
}

// sync broadcasts one public snapshot, incrementing seq exactly once, and
// optionally follows with each player's exact hand sent only to them.
// Assumes lock is held.
func (g *Game) sync(includePrivate bool) {
	g.Seq++
	g.penaltyDirty = false
	g.fireEvent(Event{Type: EventGameState, State: g.snapshot()})
	if !includePrivate {
		return
	}
	for _, pid := range g.TurnOrder {
		p := g.Players[pid]
		g.fireEventToPlayer(pid, Event{Type: EventPrivateState, Hand: append([]string{}, p.Hand...)})
	}
}

// Snapshot returns the current public state without broadcasting (used for
// the create-room HTTP response).
func (g *Game) Snapshot() *PublicState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.snapshot()
}

// Sync emits an authoritative snapshot on demand (used when a client
// reattaches to a room).
func (g *Game) Sync(includePrivate bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return
	}
	g.sync(includePrivate)
}
