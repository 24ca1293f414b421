// internal/game/actions.go
//
// Suit-call, knock, sing and chat. These never return request errors: a
// mistimed action is a rule violation, resolved by penalty plus sync rather
// than a rejection.
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SelectSuit handles a suit call after a Jack. The first caller after the
// Jack is the binding selection; later callers are merely announced. Calling
// with no Jack on top is penalized.
func (g *Game) SelectSuit(playerID uuid.UUID, suit string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return
	}
	if g.LastPlay == nil || g.LastPlay.Rank != "J" {
		g.penalize(playerID, "Illegal suit call")
		g.sync(true)
		return
	}
	if g.SuitSelection == nil {
		g.SuitSelection = &SuitSelection{PlayerID: playerID, Suit: suit}
		g.announce(fmt.Sprintf("%s calls %s", g.playerName(playerID), suit))
		return
	}
	g.announce(fmt.Sprintf("%s also calls %s, but %s was first", g.playerName(playerID), suit, g.playerName(g.SuitSelection.PlayerID)))
}

// Knock is valid only for the player whose own last play was a Heart that was
// not also a Jack. Anything else is a mistimed knock.
func (g *Game) Knock(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return
	}
	lp := g.LastPlay
	if lp == nil || lp.PlayerID != playerID || lp.Suit != "H" || lp.Rank == "J" {
		g.penalize(playerID, "Mistimed knock")
		g.sync(true)
		return
	}
	g.announce(fmt.Sprintf("%s knocks", g.playerName(playerID)))
	g.rules.OnKnock(&ruleCtx{g: g, playerID: playerID})
	g.syncIfPenalized()
}

// Sing is meaningful only while the ace of spades window is open; pressing it
// any other time is a flat note.
func (g *Game) Sing(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return
	}
	if g.LastPlay == nil || g.LastPlay.Card != "AS" || g.SingPending == nil {
		g.penalize(playerID, "Flat note")
		g.sync(true)
		return
	}
	g.rules.OnSing(&ruleCtx{g: g, playerID: playerID})
}

// ProcessChat broadcasts the message and runs it through every chat rule.
// Any penalties the rules apply are followed by one authoritative sync.
func (g *Game) ProcessChat(playerID uuid.UUID, message string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return
	}
	g.fireEvent(Event{Type: EventChat, Chat: &ChatMessage{
		From:    g.playerName(playerID),
		Message: message,
		Time:    time.Now().UnixMilli(),
	}})
	g.penaltyDirty = false
	g.rules.OnChat(&ruleCtx{g: g, playerID: playerID, message: message})
	g.syncIfPenalized()
}

// syncIfPenalized emits one authoritative sync when the preceding rule
// dispatch moved any cards. Assumes lock is held.
func (g *Game) syncIfPenalized() {
	if g.penaltyDirty {
		g.penaltyDirty = false
		g.sync(true)
	}
}
