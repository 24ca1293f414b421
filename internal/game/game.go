// internal/game/game.go
package game

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/larsmn/olsen/internal/deck"
	"github.com/larsmn/olsen/internal/models"
	"github.com/larsmn/olsen/internal/rules"
)

// Request-local errors, returned only to the calling client.
var (
	ErrNotStarted     = errors.New("Game not started")
	ErrAlreadyStarted = errors.New("Game already started")
	ErrPlayerNotFound = errors.New("Player not found")
	ErrCardNotInHand  = errors.New("Card not in hand")
	ErrNotHost        = errors.New("Only host can start")
	ErrNeedPlayers    = errors.New("Need at least 2 players to start")
	ErrNoCardsToDraw  = errors.New("No cards to draw")
	ErrRoomClosed     = errors.New("Room closed")
)

// SuitSelection records the first (binding) suit call after a Jack.
type SuitSelection struct {
	PlayerID uuid.UUID `json:"playerId"`
	Suit     string    `json:"suit"`
}

// MatchResult is handed to OnGameEnd when a game finishes with a winner.
type MatchResult struct {
	RoomID     string
	WinnerID   uuid.UUID
	WinnerName string
	HandCounts map[uuid.UUID]int
	Names      map[uuid.UUID]string
}

// Game holds the entire authoritative state for a single room in memory.
// Public methods lock Mu; unexported helpers assume it is held. Broadcast
// callbacks are invoked with the lock held and must not call back in.
type Game struct {
	RoomID string

	Players          map[uuid.UUID]*models.Player
	TurnOrder        []uuid.UUID
	CurrentTurnIndex int

	// Draw and Discard are stacks; the top is the last element.
	Draw    []string
	Discard []string

	Settings models.Settings
	HostID   uuid.UUID
	Started  bool

	// Seq increments exactly once per public broadcast.
	Seq int64

	// Transient obligation state.
	LastPlay      *models.Play
	SuitSelection *SuitSelection
	SingPending   map[uuid.UUID]struct{}
	EvilPending   bool
	AwaitingSpade map[uuid.UUID]string
	RecentPlays   []models.Play

	// PasscodeHash guards private rooms; empty means open. Set once at create.
	PasscodeHash string

	Mu sync.Mutex

	// BroadcastFn sends an event to every client viewing the room.
	BroadcastFn func(ev Event)
	// BroadcastToPlayerFn sends an event to a single player.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev Event)
	// OnGameEnd is invoked once when a winner is declared.
	OnGameEnd func(res MatchResult)
	// JournalFn, when set, receives validated plays and penalties for the
	// external play journal. Must not block.
	JournalFn func(kind string, payload map[string]interface{})

	rules        *rules.Engine
	tasks        *taskSet
	cancelSing   func() bool
	spadeCancels map[uuid.UUID]func() bool
	penaltyDirty bool
	closed       bool
}

const recentPlaysCap = 10

// NewGame builds an empty room with the default ruleset registered.
func NewGame(roomID string, settings models.Settings) *Game {
	if settings.NumDecks < 1 || settings.NumDecks > deck.MaxDecks {
		settings.NumDecks = 1
	}
	if settings.Direction != models.DirectionCW && settings.Direction != models.DirectionCCW {
		settings.Direction = models.DirectionCW
	}
	def := models.DefaultSettings()
	if settings.SingWindow <= 0 {
		settings.SingWindow = def.SingWindow
	}
	if settings.SpadeWindow <= 0 {
		settings.SpadeWindow = def.SpadeWindow
	}
	if settings.ValidateDelay <= 0 {
		settings.ValidateDelay = def.ValidateDelay
	}
	settings.SingWindowMs = settings.SingWindow.Milliseconds()

	return &Game{
		RoomID:        roomID,
		Players:       make(map[uuid.UUID]*models.Player),
		Settings:      settings,
		AwaitingSpade: make(map[uuid.UUID]string),
		rules:         rules.NewEngine(rules.DefaultModules()...),
		tasks:         newTaskSet(),
		spadeCancels:  make(map[uuid.UUID]func() bool),
	}
}

// UseRule appends a rule module to the room's dispatch order.
func (g *Game) UseRule(m rules.Module) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.rules.Use(m)
}

// AddPlayer seats a player, assigning host if none exists. Adding an existing
// id is a no-op beyond a fresh sync to that player.
func (g *Game) AddPlayer(playerID uuid.UUID, name string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return
	}
	if p, ok := g.Players[playerID]; ok {
		p.Connected = true
		g.fireEventToPlayer(playerID, Event{Type: EventPrivateState, Hand: append([]string{}, p.Hand...)})
		g.sync(true)
		return
	}
	g.Players[playerID] = &models.Player{ID: playerID, Name: name, Hand: []string{}, Connected: true}
	g.TurnOrder = append(g.TurnOrder, playerID)
	if g.HostID == uuid.Nil {
		g.HostID = playerID
	}
	log.Printf("Room %s: player %s (%s) joined.", g.RoomID, name, playerID)
	g.fireEventToPlayer(playerID, Event{Type: EventPrivateState, Hand: []string{}})
	g.sync(true)
}

// RemovePlayer unseats a player. Their cards return to the bottom of the draw
// pile so the room's card multiset stays whole.
func (g *Game) RemovePlayer(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	p, ok := g.Players[playerID]
	if !ok {
		return
	}
	g.Draw = append(append([]string{}, p.Hand...), g.Draw...)
	delete(g.Players, playerID)
	for i, id := range g.TurnOrder {
		if id == playerID {
			g.TurnOrder = append(g.TurnOrder[:i], g.TurnOrder[i+1:]...)
			break
		}
	}
	if len(g.TurnOrder) == 0 {
		g.CurrentTurnIndex = 0
	} else if g.CurrentTurnIndex >= len(g.TurnOrder) {
		g.CurrentTurnIndex = 0
	}

	if cancel, ok := g.spadeCancels[playerID]; ok {
		cancel()
		delete(g.spadeCancels, playerID)
	}
	delete(g.AwaitingSpade, playerID)
	if g.SingPending != nil {
		delete(g.SingPending, playerID)
		if len(g.SingPending) == 0 {
			g.closeSingWindow()
		}
	}

	log.Printf("Room %s: player %s left.", g.RoomID, playerID)
	g.sync(true)
}

// Close tears the room down: cancels every pending task and notifies viewers.
// All later operations on the room are no-ops.
func (g *Game) Close(reason string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.tasks.close()
	g.fireEvent(Event{Type: EventRoomClosed, Reason: reason})
	log.Printf("Room %s closed: %s", g.RoomID, reason)
}

// Closed reports whether the room has been torn down.
func (g *Game) Closed() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.closed
}

// HostIs reports whether playerID currently holds the host seat.
func (g *Game) HostIs(playerID uuid.UUID) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.HostID == playerID
}

// PlayerCount returns the number of seated players.
func (g *Game) PlayerCount() int {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return len(g.TurnOrder)
}

// StartAs starts the game on behalf of callerID, enforcing the host and
// minimum-player checks. Starting an already started game is a no-op.
func (g *Game) StartAs(callerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return ErrRoomClosed
	}
	if g.Started {
		return nil
	}
	if callerID != g.HostID {
		return ErrNotHost
	}
	if len(g.TurnOrder) < 2 {
		return ErrNeedPlayers
	}
	return g.start()
}

// start deals 5 cards to each player in turn order, flips the opening top and
// hands the first turn to the host. Assumes lock is held.
func (g *Game) start() error {
	pile, err := deck.BuildDrawPile(g.Settings.NumDecks)
	if err != nil {
		return err
	}
	g.Draw = pile
	g.Discard = nil
	g.LastPlay = nil
	g.SuitSelection = nil
	g.RecentPlays = nil

	for i := 0; i < 5; i++ {
		for _, pid := range g.TurnOrder {
			if len(g.Draw) == 0 {
				break
			}
			p := g.Players[pid]
			p.Hand = append(p.Hand, g.popDraw())
		}
	}
	if len(g.Draw) > 0 {
		g.Discard = append(g.Discard, g.popDraw())
	}

	g.CurrentTurnIndex = 0
	for i, pid := range g.TurnOrder {
		if pid == g.HostID {
			g.CurrentTurnIndex = i
			break
		}
	}
	g.Started = true
	log.Printf("Room %s: game started with %d players, %d decks.", g.RoomID, len(g.TurnOrder), g.Settings.NumDecks)
	g.sync(true)
	return nil
}

// PlayCard is the optimistic/authoritative two-phase play protocol. The card
// is applied and broadcast immediately; a scheduled task validates it against
// the pre-play discard top and the turn pointer as of validation time, rolling
// back on failure. cb fires once, when the play is resolved (or rejected
// outright).
func (g *Game) PlayCard(playerID uuid.UUID, card string, cb func(error)) {
	if cb == nil {
		cb = func(error) {}
	}
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.closed {
		cb(ErrRoomClosed)
		return
	}
	if !g.Started {
		cb(ErrNotStarted)
		return
	}
	p, ok := g.Players[playerID]
	if !ok {
		cb(ErrPlayerNotFound)
		return
	}
	handIdx := -1
	for i, c := range p.Hand {
		if c == card {
			handIdx = i
			break
		}
	}
	if handIdx == -1 {
		cb(ErrCardNotInHand)
		return
	}

	// Attempt notice goes out before any validation so clients can render the
	// pending card.
	g.fireEvent(Event{Type: EventPlayedAttempt, Player: g.eventPlayer(playerID), Card: card})

	// The pre-play top is what the deferred validation judges against, no
	// matter what lands on the pile in the meantime.
	prevTop := g.topDiscard()

	p.Hand = append(p.Hand[:handIdx], p.Hand[handIdx+1:]...)
	g.Discard = append(g.Discard, card)
	parsed, _ := deck.Parse(card)
	g.LastPlay = &models.Play{PlayerID: playerID, Card: card, Rank: parsed.Rank, Suit: parsed.Suit}
	g.SuitSelection = nil

	g.sync(false)
	g.fireEvent(Event{Type: EventPlayAccepted, Player: g.eventPlayer(playerID), Card: card})

	g.tasks.schedule(g.Settings.ValidateDelay, func() {
		g.finishValidation(playerID, card, prevTop, cb)
	})
}

// finishValidation is the deferred authoritative check for one optimistic
// play. Runs as its own event; the turn pointer is evaluated fresh here.
func (g *Game) finishValidation(playerID uuid.UUID, card string, prevTop string, cb func(error)) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		cb(ErrRoomClosed)
		return
	}
	p, ok := g.Players[playerID]
	if !ok {
		cb(ErrPlayerNotFound)
		return
	}

	isTurnNow := len(g.TurnOrder) > 0 && g.TurnOrder[g.CurrentTurnIndex] == playerID
	validMatch := prevTop == "" || deck.Matches(card, prevTop)

	if !isTurnNow || !validMatch {
		g.rollbackPlay(p, card)
		reason := "Not your turn"
		if isTurnNow {
			reason = "Card does not match"
		}
		g.fireEvent(Event{Type: EventPlayRejected, Player: g.eventPlayer(playerID), Card: card, Reason: reason})
		g.fireEventToPlayer(playerID, Event{Type: EventPlayReturn, Card: card})
		g.formatPenalty(playerID, "Invalid play")
		g.sync(true)
		cb(fmt.Errorf("invalid play: %s", reason))
		return
	}

	parsed, _ := deck.Parse(card)
	g.RecentPlays = append(g.RecentPlays, models.Play{PlayerID: playerID, Card: card, Rank: parsed.Rank, Suit: parsed.Suit})
	if len(g.RecentPlays) > recentPlaysCap {
		g.RecentPlays = g.RecentPlays[len(g.RecentPlays)-recentPlaysCap:]
	}
	g.journal("play_validated", map[string]interface{}{
		"playerId": playerID.String(),
		"card":     card,
		"prevTop":  prevTop,
	})

	effects := g.rules.OnPlayValidated(&ruleCtx{g: g, playerID: playerID, card: card, prevTop: prevTop, parsed: parsed})

	if len(p.Hand) == 0 {
		g.declareWinner(p)
		cb(nil)
		return
	}

	g.advanceTurn()
	if effects.SkipNext {
		skipped := g.TurnOrder[g.CurrentTurnIndex]
		g.advanceTurn()
		g.announce(fmt.Sprintf("%s was skipped", g.playerName(skipped)))
	}
	g.sync(true)
	cb(nil)
}

// rollbackPlay removes card from the discard pile, searching from the top to
// tolerate legitimate plays that landed above it, returns it to the hand and
// applies one penalty draw. Assumes lock is held.
func (g *Game) rollbackPlay(p *models.Player, card string) {
	for i := len(g.Discard) - 1; i >= 0; i-- {
		if g.Discard[i] == card {
			g.Discard = append(g.Discard[:i], g.Discard[i+1:]...)
			break
		}
	}
	// A withdrawn card must not stay current, or a rolled-back Jack would keep
	// legitimizing suit calls. If a later play has already replaced LastPlay,
	// leave it alone; otherwise fall back to the last validated play.
	if g.LastPlay != nil && g.LastPlay.PlayerID == p.ID && g.LastPlay.Card == card {
		if n := len(g.RecentPlays); n > 0 {
			lp := g.RecentPlays[n-1]
			g.LastPlay = &lp
		} else {
			g.LastPlay = nil
		}
	}
	p.Hand = append(p.Hand, card)
	if err := g.drawOneToPlayer(p.ID); err != nil {
		log.Printf("Room %s: penalty draw failed for %s: %v", g.RoomID, p.ID, err)
	}
}

// declareWinner ends the game without advancing the turn. Assumes lock held.
func (g *Game) declareWinner(p *models.Player) {
	g.Started = false
	g.fireEvent(Event{Type: EventGameOver, Player: g.eventPlayer(p.ID), Payload: map[string]interface{}{
		"winnerId": p.ID.String(),
	}})
	g.announce(fmt.Sprintf("%s wins!", p.Name))
	if g.OnGameEnd != nil {
		res := MatchResult{
			RoomID:     g.RoomID,
			WinnerID:   p.ID,
			WinnerName: p.Name,
			HandCounts: make(map[uuid.UUID]int, len(g.Players)),
			Names:      make(map[uuid.UUID]string, len(g.Players)),
		}
		for id, pl := range g.Players {
			res.HandCounts[id] = len(pl.Hand)
			res.Names[id] = pl.Name
		}
		g.OnGameEnd(res)
	}
	g.sync(true)
}

// DrawCardAction draws for playerID. On their turn this is a normal draw that
// advances play. Off turn it is a rule violation handled as a flat penalty:
// the drawn card stays, a second penalty card follows, and the turn pointer
// does not move.
func (g *Game) DrawCardAction(playerID uuid.UUID, cb func(error)) {
	if cb == nil {
		cb = func(error) {}
	}
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		cb(ErrRoomClosed)
		return
	}
	if !g.Started {
		cb(ErrNotStarted)
		return
	}
	if _, ok := g.Players[playerID]; !ok {
		cb(ErrPlayerNotFound)
		return
	}

	if len(g.TurnOrder) > 0 && g.TurnOrder[g.CurrentTurnIndex] == playerID {
		if err := g.drawOneToPlayer(playerID); err != nil {
			cb(err)
			return
		}
		g.advanceTurn()
		g.sync(true)
		cb(nil)
		return
	}

	// Off-turn draw: costly, never undone.
	if err := g.drawOneToPlayer(playerID); err != nil {
		log.Printf("Room %s: off-turn draw failed for %s: %v", g.RoomID, playerID, err)
	}
	if err := g.drawOneToPlayer(playerID); err != nil {
		log.Printf("Room %s: off-turn penalty draw failed for %s: %v", g.RoomID, playerID, err)
	}
	g.formatPenalty(playerID, "Drawing out of turn")
	g.sync(true)
	cb(nil)
}

// advanceTurn moves the turn pointer one seat in the current direction.
// Assumes lock is held.
func (g *Game) advanceTurn() {
	n := len(g.TurnOrder)
	if n == 0 {
		return
	}
	delta := 1
	if g.Settings.Direction == models.DirectionCCW {
		delta = -1
	}
	g.CurrentTurnIndex = (g.CurrentTurnIndex + delta + n) % n
}

// reshuffleIfNeeded refills the draw pile from the discard pile, keeping the
// current top in place. Fails without touching either pile when the discard
// has at most one card.
func (g *Game) reshuffleIfNeeded() error {
	if len(g.Draw) > 0 {
		return nil
	}
	if len(g.Discard) <= 1 {
		return ErrNoCardsToDraw
	}
	top := g.Discard[len(g.Discard)-1]
	refill := append([]string{}, g.Discard[:len(g.Discard)-1]...)
	deck.Shuffle(refill)
	g.Draw = refill
	g.Discard = []string{top}
	log.Printf("Room %s: reshuffled %d card(s) under the discard top.", g.RoomID, len(refill))
	return nil
}

func (g *Game) popDraw() string {
	card := g.Draw[len(g.Draw)-1]
	g.Draw = g.Draw[:len(g.Draw)-1]
	return card
}

// drawOneToPlayer moves one card from the draw pile to the player's hand,
// reshuffling first if needed. Assumes lock is held.
func (g *Game) drawOneToPlayer(playerID uuid.UUID) error {
	p, ok := g.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if err := g.reshuffleIfNeeded(); err != nil {
		return err
	}
	p.Hand = append(p.Hand, g.popDraw())
	g.penaltyDirty = true
	return nil
}

// drawManyToPlayer draws n cards, stopping early if the piles run dry.
func (g *Game) drawManyToPlayer(playerID uuid.UUID, n int) {
	for i := 0; i < n; i++ {
		if err := g.drawOneToPlayer(playerID); err != nil {
			log.Printf("Room %s: draw %d/%d failed for %s: %v", g.RoomID, i+1, n, playerID, err)
			return
		}
	}
}

// formatPenalty emits the formatted penalty announcement and journals it.
// It does not draw; callers pair it with drawOneToPlayer as the situation
// demands. Assumes lock is held.
func (g *Game) formatPenalty(playerID uuid.UUID, reason string) {
	g.announce(fmt.Sprintf("%s penalized: %s", g.playerName(playerID), reason))
	g.journal("penalty", map[string]interface{}{
		"playerId": playerID.String(),
		"reason":   reason,
	})
}

// penalize is the formatted-message-plus-one-draw convenience used by rule
// violations and the rule context. Assumes lock is held.
func (g *Game) penalize(playerID uuid.UUID, reason string) {
	g.formatPenalty(playerID, reason)
	if err := g.drawOneToPlayer(playerID); err != nil {
		log.Printf("Room %s: penalty draw failed for %s: %v", g.RoomID, playerID, err)
	}
}

// announce emits a system chat line. Assumes lock is held.
func (g *Game) announce(msg string) {
	g.fireEvent(Event{Type: EventChat, Chat: &ChatMessage{From: "SYSTEM", Message: msg, Time: time.Now().UnixMilli()}})
}

func (g *Game) playerName(id uuid.UUID) string {
	if p, ok := g.Players[id]; ok {
		return p.Name
	}
	return id.String()
}

func (g *Game) eventPlayer(id uuid.UUID) *EventPlayer {
	return &EventPlayer{ID: id, Name: g.playerName(id)}
}

func (g *Game) topDiscard() string {
	if len(g.Discard) == 0 {
		return ""
	}
	return g.Discard[len(g.Discard)-1]
}

func (g *Game) fireEvent(ev Event) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

func (g *Game) fireEventToPlayer(playerID uuid.UUID, ev Event) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

func (g *Game) journal(kind string, payload map[string]interface{}) {
	if g.JournalFn != nil {
		g.JournalFn(kind, payload)
	}
}
