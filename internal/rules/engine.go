// internal/rules/engine.go
//
// A rule module is a named unit that opts into any subset of the lifecycle
// hooks below. The engine invokes every registered module for a given hook in
// registration order and merges the typed effects; it never exposes hands or
// piles to modules, only the Context capabilities.
package rules

import (
	"github.com/google/uuid"

	"github.com/larsmn/olsen/internal/deck"
	"github.com/larsmn/olsen/internal/models"
)

// Module is the common surface of every rule module. Hook behavior is opted
// into by additionally implementing ChatHook, PlayHook, SingHook or KnockHook.
type Module interface {
	Name() string
}

// ChatHook is invoked for every chat message received by the room.
type ChatHook interface {
	OnChat(ctx Context)
}

// PlayHook is invoked after a play has survived authoritative validation and
// been applied to the discard pile. The returned effects are merged across
// modules.
type PlayHook interface {
	OnPlayValidated(ctx Context) Effects
}

// SingHook is invoked when a player presses sing during an open window.
type SingHook interface {
	OnSing(ctx Context)
}

// KnockHook is invoked when a player knocks.
type KnockHook interface {
	OnKnock(ctx Context)
}

// Effects is the merged result of a hook invocation.
type Effects struct {
	// SkipNext causes the engine to advance the turn twice.
	SkipNext bool
}

func (e *Effects) merge(other Effects) {
	e.SkipNext = e.SkipNext || other.SkipNext
}

// Context is the capability surface the engine hands to rule modules. It is
// the single mutation path: modules can penalize, draw, announce and touch the
// transient obligation trackers, but never hands or piles directly.
type Context interface {
	// Invocation scope.
	PlayerID() uuid.UUID
	Message() string
	Card() string
	Parsed() deck.Card
	PrevTop() string

	// Read-only room facts.
	PlayerName(id uuid.UUID) string
	LastPlayCard() (string, bool)
	RecentPlays() []models.Play
	NextPlayerID() (uuid.UUID, bool)
	Direction() string

	// Mutation primitives.
	Penalize(id uuid.UUID, reason string)
	DrawMany(id uuid.UUID, n int)
	Announce(msg string)
	ReverseDirection() string

	// Transient obligation trackers.
	EvilPending() bool
	SetEvilPending(v bool)
	SpadeOwed(id uuid.UUID) (string, bool)
	OweSpade(id uuid.UUID, card string)
	ClearSpade(id uuid.UUID)
	OpenSingWindow()
	MarkSang(id uuid.UUID)

	// Fuzzy text distance over lowercased letters only.
	Distance(a, b string) int
}

// Engine holds an ordered list of independently pluggable rule modules.
type Engine struct {
	modules []Module
}

// NewEngine builds an engine from the given modules, invoked in order.
func NewEngine(mods ...Module) *Engine {
	return &Engine{modules: mods}
}

// Use appends a module to the dispatch order.
func (e *Engine) Use(m Module) {
	if m != nil {
		e.modules = append(e.modules, m)
	}
}

// OnChat dispatches a chat message to every module implementing ChatHook.
func (e *Engine) OnChat(ctx Context) {
	for _, m := range e.modules {
		if h, ok := m.(ChatHook); ok {
			h.OnChat(ctx)
		}
	}
}

// OnPlayValidated dispatches a validated play and merges the effects.
func (e *Engine) OnPlayValidated(ctx Context) Effects {
	var effects Effects
	for _, m := range e.modules {
		if h, ok := m.(PlayHook); ok {
			effects.merge(h.OnPlayValidated(ctx))
		}
	}
	return effects
}

// OnSing dispatches a sing action to every module implementing SingHook.
func (e *Engine) OnSing(ctx Context) {
	for _, m := range e.modules {
		if h, ok := m.(SingHook); ok {
			h.OnSing(ctx)
		}
	}
}

// OnKnock dispatches a knock action to every module implementing KnockHook.
func (e *Engine) OnKnock(ctx Context) {
	for _, m := range e.modules {
		if h, ok := m.(KnockHook); ok {
			h.OnKnock(ctx)
		}
	}
}
