// internal/rules/default.go
//
// The built-in evolving house ruleset. Each module is independent and
// composable; adding or removing one never requires touching the engine.
package rules

import (
	"fmt"
	"strings"
)

// DefaultModules returns the standard ruleset in its canonical dispatch order.
func DefaultModules() []Module {
	return []Module{
		&BeatlesRule{},
		&NiceDayRule{},
		&EvilSevenRule{},
		&NameSpadeRule{},
		&ThreeInARowRule{},
		&SkipFiveRule{},
		&ReverseAceRule{},
		&SingAceSpadesRule{},
		NewCurseRule(nil),
	}
}

// BeatlesRule: while a 10 sits on top, every chat message must name a Beatle
// (fuzzy match, distance <= 3, or a substring match on the first name token).
type BeatlesRule struct{}

var beatles = []string{
	"john lennon", "paul mccartney", "george harrison", "ringo starr",
	"john", "paul", "george", "ringo",
}

func (r *BeatlesRule) Name() string { return "beatles-10" }

func (r *BeatlesRule) OnChat(ctx Context) {
	last, ok := ctx.LastPlayCard()
	if !ok || !strings.HasPrefix(last, "10") {
		return
	}
	text := strings.ToLower(ctx.Message())
	for _, b := range beatles {
		if ctx.Distance(ctx.Message(), b) <= 3 || strings.Contains(text, strings.Fields(b)[0]) {
			return
		}
	}
	ctx.Penalize(ctx.PlayerID(), "Failure to name a Beatle")
}

// NiceDayRule: while a 7 sits on top, every chat message must approximate
// "have a nice day" (distance <= 6).
type NiceDayRule struct{}

func (r *NiceDayRule) Name() string { return "seven-nice-day" }

func (r *NiceDayRule) OnChat(ctx Context) {
	last, ok := ctx.LastPlayCard()
	if !ok || !strings.HasPrefix(last, "7") {
		return
	}
	if ctx.Distance(ctx.Message(), "have a nice day") > 6 {
		ctx.Penalize(ctx.PlayerID(), "Failure to say have a nice day")
	}
}

// EvilSevenRule: the 7 of spades additionally demands the evil phrase before
// anything else; the pending flag clears only on a chat containing "evil".
type EvilSevenRule struct{}

func (r *EvilSevenRule) Name() string { return "evil-7S" }

func (r *EvilSevenRule) OnPlayValidated(ctx Context) Effects {
	p := ctx.Parsed()
	if p.Rank == "7" && p.Suit == "S" {
		ctx.SetEvilPending(true)
		ctx.Announce("Evil card played: name the evil phrase now")
	}
	return Effects{}
}

func (r *EvilSevenRule) OnChat(ctx Context) {
	if !ctx.EvilPending() {
		return
	}
	if strings.Contains(strings.ToLower(ctx.Message()), "evil") {
		ctx.SetEvilPending(false)
		return
	}
	ctx.Penalize(ctx.PlayerID(), "Failure to say evil phrase")
}

// NameSpadeRule: any spade must be named by its player in chat, matched by
// full code or first character, before the spade window elapses.
type NameSpadeRule struct{}

func (r *NameSpadeRule) Name() string { return "name-spade" }

func (r *NameSpadeRule) OnPlayValidated(ctx Context) Effects {
	if ctx.Parsed().Suit == "S" {
		ctx.OweSpade(ctx.PlayerID(), ctx.Card())
	}
	return Effects{}
}

func (r *NameSpadeRule) OnChat(ctx Context) {
	expected, ok := ctx.SpadeOwed(ctx.PlayerID())
	if !ok {
		return
	}
	text := strings.ToLower(ctx.Message())
	if strings.Contains(text, strings.ToLower(expected)) || strings.Contains(text, strings.ToLower(expected[:1])) {
		ctx.ClearSpade(ctx.PlayerID())
		return
	}
	ctx.Penalize(ctx.PlayerID(), "Failure to name your spade")
}

// ThreeInARowRule: three consecutive validated plays of the same rank,
// room-wide, force the next player to draw 3.
type ThreeInARowRule struct{}

func (r *ThreeInARowRule) Name() string { return "three-in-a-row" }

func (r *ThreeInARowRule) OnPlayValidated(ctx Context) Effects {
	recent := ctx.RecentPlays()
	if len(recent) < 3 {
		return Effects{}
	}
	a, b, c := recent[len(recent)-3], recent[len(recent)-2], recent[len(recent)-1]
	if a.Rank != b.Rank || b.Rank != c.Rank {
		return Effects{}
	}
	next, ok := ctx.NextPlayerID()
	if !ok {
		return Effects{}
	}
	ctx.DrawMany(next, 3)
	ctx.Announce(fmt.Sprintf("%s was hit by three-in-a-row and drew 3", ctx.PlayerName(next)))
	return Effects{}
}

// SkipFiveRule: a 5 skips the next player.
type SkipFiveRule struct{}

func (r *SkipFiveRule) Name() string { return "skip-5" }

func (r *SkipFiveRule) OnPlayValidated(ctx Context) Effects {
	if ctx.Parsed().Rank == "5" {
		return Effects{SkipNext: true}
	}
	return Effects{}
}

// ReverseAceRule: an ace flips the play direction.
type ReverseAceRule struct{}

func (r *ReverseAceRule) Name() string { return "reverse-ace" }

func (r *ReverseAceRule) OnPlayValidated(ctx Context) Effects {
	if ctx.Parsed().Rank == "A" {
		dir := ctx.ReverseDirection()
		ctx.Announce("Direction reversed to " + dir)
	}
	return Effects{}
}

// SingAceSpadesRule: the ace of spades opens a sing window covering every
// current player; the engine owns the window timer and the pending set.
type SingAceSpadesRule struct{}

func (r *SingAceSpadesRule) Name() string { return "sing-AS" }

func (r *SingAceSpadesRule) OnPlayValidated(ctx Context) Effects {
	if ctx.Card() == "AS" {
		ctx.OpenSingWindow()
	}
	return Effects{}
}

func (r *SingAceSpadesRule) OnSing(ctx Context) {
	ctx.MarkSang(ctx.PlayerID())
}

// CurseRule penalizes any chat containing a configured curse token,
// independent of every other obligation.
type CurseRule struct {
	words []string
}

// NewCurseRule builds the rule with the given tokens, or the stock list when
// nil.
func NewCurseRule(words []string) *CurseRule {
	if words == nil {
		words = []string{"shit", "fuck", "bitch", "asshole"}
	}
	return &CurseRule{words: words}
}

func (r *CurseRule) Name() string { return "curse-penalty" }

func (r *CurseRule) OnChat(ctx Context) {
	text := strings.ToLower(ctx.Message())
	for _, w := range r.words {
		if strings.Contains(text, w) {
			ctx.Penalize(ctx.PlayerID(), "Cursing")
			return
		}
	}
}
