// internal/game/rule_ctx.go
package game

import (
	"github.com/google/uuid"

	"github.com/larsmn/olsen/internal/deck"
	"github.com/larsmn/olsen/internal/models"
	"github.com/larsmn/olsen/internal/rules"
)

// ruleCtx implements rules.Context. It is built fresh per hook invocation,
// with the game lock held for its entire lifetime, and exposes only the
// engine's own mutation primitives.
type ruleCtx struct {
	g        *Game
	playerID uuid.UUID
	message  string
	card     string
	prevTop  string
	parsed   deck.Card
}

var _ rules.Context = (*ruleCtx)(nil)

func (c *ruleCtx) PlayerID() uuid.UUID { return c.playerID }
func (c *ruleCtx) Message() string     { return c.message }
func (c *ruleCtx) Card() string        { return c.card }
func (c *ruleCtx) Parsed() deck.Card   { return c.parsed }
func (c *ruleCtx) PrevTop() string     { return c.prevTop }

func (c *ruleCtx) PlayerName(id uuid.UUID) string { return c.g.playerName(id) }

func (c *ruleCtx) LastPlayCard() (string, bool) {
	if c.g.LastPlay == nil {
		return "", false
	}
	return c.g.LastPlay.Card, true
}

func (c *ruleCtx) RecentPlays() []models.Play { return c.g.RecentPlays }

func (c *ruleCtx) NextPlayerID() (uuid.UUID, bool) {
	n := len(c.g.TurnOrder)
	if n == 0 {
		return uuid.Nil, false
	}
	delta := 1
	if c.g.Settings.Direction == models.DirectionCCW {
		delta = -1
	}
	return c.g.TurnOrder[(c.g.CurrentTurnIndex+delta+n)%n], true
}

func (c *ruleCtx) Direction() string { return c.g.Settings.Direction }

func (c *ruleCtx) Penalize(id uuid.UUID, reason string) { c.g.penalize(id, reason) }
func (c *ruleCtx) DrawMany(id uuid.UUID, n int)         { c.g.drawManyToPlayer(id, n) }
func (c *ruleCtx) Announce(msg string)                  { c.g.announce(msg) }

func (c *ruleCtx) ReverseDirection() string {
	if c.g.Settings.Direction == models.DirectionCW {
		c.g.Settings.Direction = models.DirectionCCW
	} else {
		c.g.Settings.Direction = models.DirectionCW
	}
	return c.g.Settings.Direction
}

func (c *ruleCtx) EvilPending() bool     { return c.g.EvilPending }
func (c *ruleCtx) SetEvilPending(v bool) { c.g.EvilPending = v }

func (c *ruleCtx) SpadeOwed(id uuid.UUID) (string, bool) {
	card, ok := c.g.AwaitingSpade[id]
	return card, ok
}
func (c *ruleCtx) OweSpade(id uuid.UUID, card string) { c.g.oweSpade(id, card) }
func (c *ruleCtx) ClearSpade(id uuid.UUID)            { c.g.clearSpade(id) }

func (c *ruleCtx) OpenSingWindow()       { c.g.openSingWindow() }
func (c *ruleCtx) MarkSang(id uuid.UUID) { c.g.markSang(id) }

func (c *ruleCtx) Distance(a, b string) int { return rules.Levenshtein(a, b) }
