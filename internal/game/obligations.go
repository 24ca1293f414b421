// internal/game/obligations.go
//
// Timed obligation bookkeeping: the spade-naming window and the ace-of-spades
// sing window. Each obligation is resolved by exactly one of {satisfaction,
// timeout}; the satisfying path cancels the pending task, and the timeout
// callback re-checks the obligation under the lock so a cancelled or already
// satisfied obligation never double-penalizes.
package game

import (
	"github.com/google/uuid"
)

// oweSpade records that playerID must name card in chat before the spade
// window elapses. Assumes lock is held.
func (g *Game) oweSpade(playerID uuid.UUID, card string) {
	if cancel, ok := g.spadeCancels[playerID]; ok {
		cancel()
	}
	g.AwaitingSpade[playerID] = card

	g.spadeCancels[playerID] = g.tasks.schedule(g.Settings.SpadeWindow, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if owed, ok := g.AwaitingSpade[playerID]; !ok || owed != card {
			return
		}
		delete(g.AwaitingSpade, playerID)
		delete(g.spadeCancels, playerID)
		g.penalize(playerID, "Failure to name your spade")
		g.sync(true)
	})
}

// clearSpade satisfies the naming obligation and cancels its timeout.
// Assumes lock is held.
func (g *Game) clearSpade(playerID uuid.UUID) {
	if cancel, ok := g.spadeCancels[playerID]; ok {
		cancel()
		delete(g.spadeCancels, playerID)
	}
	delete(g.AwaitingSpade, playerID)
}

// openSingWindow puts every current player on the hook to sing before the
// window elapses. A window already in flight is left alone. Assumes lock is
// held.
func (g *Game) openSingWindow() {
	if g.SingPending != nil {
		return
	}
	g.SingPending = make(map[uuid.UUID]struct{}, len(g.TurnOrder))
	for _, pid := range g.TurnOrder {
		g.SingPending[pid] = struct{}{}
	}
	g.announce("Ace of Spades! Sing now.")

	g.cancelSing = g.tasks.schedule(g.Settings.SingWindow, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.SingPending == nil {
			return
		}
		// Penalize in turn order so the outcome is deterministic.
		for _, pid := range g.TurnOrder {
			if _, pending := g.SingPending[pid]; pending {
				g.penalize(pid, "Failure to sing")
			}
		}
		g.SingPending = nil
		g.cancelSing = nil
		g.sync(true)
	})
}

// markSang takes playerID off the pending set, closing the window early when
// everyone has sung. Assumes lock is held.
func (g *Game) markSang(playerID uuid.UUID) {
	if g.SingPending == nil {
		return
	}
	if _, pending := g.SingPending[playerID]; !pending {
		return
	}
	delete(g.SingPending, playerID)
	if len(g.SingPending) == 0 {
		g.closeSingWindow()
		g.sync(true)
	}
}

// closeSingWindow cancels the window timer and clears the pending set.
// Assumes lock is held.
func (g *Game) closeSingWindow() {
	if g.cancelSing != nil {
		g.cancelSing()
		g.cancelSing = nil
	}
	g.SingPending = nil
}
