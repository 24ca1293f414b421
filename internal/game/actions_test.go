// internal/game/actions_test.go
package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larsmn/olsen/internal/models"
)

func setLastPlay(g *Game, p *models.Play) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.LastPlay = p
}

func TestSelectSuitFirstCallBinds(t *testing.T) {
	g, ids, _ := setupTestGame(t, "alice", "bob")
	a, b := ids[0], ids[1]
	rig(g, map[uuid.UUID][]string{a: {"9C"}, b: {"8D"}}, []string{"4C", "6C"}, []string{"JH"}, a)
	setLastPlay(g, &models.Play{PlayerID: a, Card: "JH", Rank: "J", Suit: "H"})

	g.SelectSuit(a, "S")
	g.SelectSuit(b, "D")

	g.Mu.Lock()
	defer g.Mu.Unlock()
	require.NotNil(t, g.SuitSelection)
	assert.Equal(t, a, g.SuitSelection.PlayerID)
	assert.Equal(t, "S", g.SuitSelection.Suit, "only the first call binds")
	assert.Len(t, g.Players[a].Hand, 1, "no penalty for either caller")
	assert.Len(t, g.Players[b].Hand, 1)
}

func TestSelectSuitWithoutJackPenalized(t *testing.T) {
	g, ids, rec := setupTestGame(t, "alice", "bob")
	a := ids[0]
	rig(g, map[uuid.UUID][]string{a: {"9C"}, ids[1]: {"8D"}}, []string{"4C"}, []string{"9H"}, a)

	g.SelectSuit(a, "S")

	assert.Len(t, handOf(g, a), 2)
	assert.True(t, rec.hasAnnouncement("Illegal suit call"))
}

func TestRolledBackJackDoesNotLegitimizeSuitCall(t *testing.T) {
	g, ids, rec := setupTestGame(t, "alice", "bob")
	a, b := ids[0], ids[1]
	rig(g, map[uuid.UUID][]string{a: {"9C"}, b: {"JD", "3C"}}, []string{"4C", "6C"}, []string{"8C"}, a)

	// Off-turn Jack gets rolled back; it must not linger as the last play.
	require.Error(t, playAndWait(t, g, b, "JD"))

	g.Mu.Lock()
	assert.Nil(t, g.LastPlay, "withdrawn play cleared")
	g.Mu.Unlock()

	g.SelectSuit(b, "S")

	g.Mu.Lock()
	assert.Nil(t, g.SuitSelection)
	g.Mu.Unlock()
	assert.True(t, rec.hasAnnouncement("Illegal suit call"))
}

func TestRollbackRestoresPreviousValidatedPlay(t *testing.T) {
	g, ids, rec := setupTestGame(t, "alice", "bob")
	a, b := ids[0], ids[1]
	rig(g, map[uuid.UUID][]string{a: {"8H", "2C"}, b: {"JD", "3C"}}, []string{"4C", "6C"}, []string{"8C"}, a)

	require.NoError(t, playAndWait(t, g, a, "8H"))
	require.Error(t, playAndWait(t, g, b, "JD"), "Jack does not match the 8H top")

	g.Mu.Lock()
	require.NotNil(t, g.LastPlay)
	assert.Equal(t, "8H", g.LastPlay.Card, "last play falls back to the validated 8H")
	g.Mu.Unlock()

	// Alice's heart is current again, so her knock is clean.
	g.Knock(a)
	assert.Len(t, handOf(g, a), 1)
	assert.True(t, rec.hasAnnouncement("knocks"))
}

func TestKnockValid(t *testing.T) {
	g, ids, rec := setupTestGame(t, "alice", "bob")
	a := ids[0]
	rig(g, map[uuid.UUID][]string{a: {"9C"}, ids[1]: {"8D"}}, []string{"4C"}, []string{"9H"}, a)
	setLastPlay(g, &models.Play{PlayerID: a, Card: "9H", Rank: "9", Suit: "H"})

	g.Knock(a)

	assert.Len(t, handOf(g, a), 1, "a clean knock costs nothing")
	assert.True(t, rec.hasAnnouncement("knocks"))
}

func TestKnockMistimed(t *testing.T) {
	g, ids, rec := setupTestGame(t, "alice", "bob")
	a, b := ids[0], ids[1]
	rig(g, map[uuid.UUID][]string{a: {"9C"}, b: {"8D"}}, []string{"4C", "6C", "7C"}, []string{"9H"}, a)
	setLastPlay(g, &models.Play{PlayerID: a, Card: "9H", Rank: "9", Suit: "H"})

	// Knocking on someone else's play.
	g.Knock(b)
	assert.Len(t, handOf(g, b), 2)
	assert.True(t, rec.hasAnnouncement("Mistimed knock"))

	// A heart Jack is a suit-call moment, not a knock moment.
	setLastPlay(g, &models.Play{PlayerID: a, Card: "JH", Rank: "J", Suit: "H"})
	g.Knock(a)
	assert.Len(t, handOf(g, a), 2)
}

func TestSingFlatNote(t *testing.T) {
	g, ids, rec := setupTestGame(t, "alice", "bob")
	a := ids[0]
	rig(g, map[uuid.UUID][]string{a: {"9C"}, ids[1]: {"8D"}}, []string{"4C"}, []string{"9H"}, a)

	g.Sing(a)

	assert.Len(t, handOf(g, a), 2)
	assert.True(t, rec.hasAnnouncement("Flat note"))
}

func TestSingWindowPenalizesSilentPlayers(t *testing.T) {
	g, ids, rec := setupTestGame(t, "alice", "bob", "cara")
	a, b, c := ids[0], ids[1], ids[2]
	rig(g, map[uuid.UUID][]string{a: {"AS", "2C"}, b: {"8D"}, c: {"3H"}},
		[]string{"4C", "6C", "7C", "10C"}, []string{"AC"}, a)

	require.NoError(t, playAndWait(t, g, a, "AS"))
	assert.True(t, rec.hasAnnouncement("Sing now"))

	g.Sing(b)

	// Wait out the window; only the silent players pay.
	time.Sleep(testSettings().SingWindow + 50*time.Millisecond)

	assert.Len(t, handOf(g, b), 1, "the singer keeps their hand")
	assert.Len(t, handOf(g, a), 2, "alice played one and drew one for not singing")
	assert.Len(t, handOf(g, c), 2)
	assert.True(t, rec.hasAnnouncement("Failure to sing"))

	g.Mu.Lock()
	assert.Nil(t, g.SingPending, "window closed after expiry")
	g.Mu.Unlock()
}

func TestSingWindowClosesWhenAllSing(t *testing.T) {
	g, ids, rec := setupTestGame(t, "alice", "bob")
	a, b := ids[0], ids[1]
	rig(g, map[uuid.UUID][]string{a: {"AS", "2C"}, b: {"8D"}},
		[]string{"4C", "6C"}, []string{"AC"}, a)

	require.NoError(t, playAndWait(t, g, a, "AS"))
	g.Sing(a)
	g.Sing(b)

	g.Mu.Lock()
	assert.Nil(t, g.SingPending, "everyone sang, window closed early")
	g.Mu.Unlock()

	time.Sleep(testSettings().SingWindow + 50*time.Millisecond)
	assert.Len(t, handOf(g, a), 1, "no late penalty after early close")
	assert.Len(t, handOf(g, b), 1)
	assert.False(t, rec.hasAnnouncement("Failure to sing"))
}

func TestChatCursingPenalized(t *testing.T) {
	g, ids, rec := setupTestGame(t, "alice", "bob")
	a := ids[0]
	rig(g, map[uuid.UUID][]string{a: {"9C"}, ids[1]: {"8D"}}, []string{"4C"}, []string{"9H"}, a)

	g.ProcessChat(a, "oh shit")

	assert.Len(t, handOf(g, a), 2)
	assert.True(t, rec.hasAnnouncement("Cursing"))
}

func TestChatEvilObligation(t *testing.T) {
	g, ids, rec := setupTestGame(t, "alice", "bob")
	a := ids[0]
	rig(g, map[uuid.UUID][]string{a: {"9C"}, ids[1]: {"8D"}}, []string{"4C", "6C"}, []string{"9H"}, a)
	g.Mu.Lock()
	g.EvilPending = true
	g.Mu.Unlock()

	g.ProcessChat(a, "nothing to see here")
	assert.Len(t, handOf(g, a), 2)
	assert.True(t, rec.hasAnnouncement("Failure to say evil phrase"))

	g.Mu.Lock()
	g.EvilPending = true
	g.Mu.Unlock()
	g.ProcessChat(a, "the evil phrase")
	assert.Len(t, handOf(g, a), 2, "saying the phrase costs nothing")
	g.Mu.Lock()
	assert.False(t, g.EvilPending)
	g.Mu.Unlock()
}

func TestChatClearsSpadeObligation(t *testing.T) {
	g, ids, rec := setupTestGame(t, "alice", "bob")
	a := ids[0]
	rig(g, map[uuid.UUID][]string{a: {"QS", "2C"}, ids[1]: {"8D"}},
		[]string{"4C", "6C"}, []string{"QC"}, a)

	require.NoError(t, playAndWait(t, g, a, "QS"))

	g.Mu.Lock()
	owed, ok := g.AwaitingSpade[a]
	g.Mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, "QS", owed)

	g.ProcessChat(a, "queen of spades, qs")

	g.Mu.Lock()
	_, still := g.AwaitingSpade[a]
	g.Mu.Unlock()
	assert.False(t, still, "naming the card satisfies the obligation")
	assert.Len(t, handOf(g, a), 1, "no penalty")
	assert.False(t, rec.hasAnnouncement("Failure to name your spade"))
}

func TestSpadeWindowExpiryPenalizes(t *testing.T) {
	g, ids, rec := setupTestGame(t, "alice", "bob")
	a := ids[0]
	rig(g, map[uuid.UUID][]string{a: {"QS", "2C"}, ids[1]: {"8D"}},
		[]string{"4C", "6C"}, []string{"QC"}, a)

	require.NoError(t, playAndWait(t, g, a, "QS"))
	time.Sleep(testSettings().SpadeWindow + 100*time.Millisecond)

	assert.Len(t, handOf(g, a), 2, "played one, drew one on expiry")
	assert.True(t, rec.hasAnnouncement("Failure to name your spade"))
	g.Mu.Lock()
	_, still := g.AwaitingSpade[a]
	g.Mu.Unlock()
	assert.False(t, still)
}
