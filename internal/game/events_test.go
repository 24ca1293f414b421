// internal/game/events_test.go
package game

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyHandSerializesExplicitly(t *testing.T) {
	data, err := json.Marshal(Event{Type: EventPrivateState, Hand: []string{}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hand":[]`, "empty hand must be distinguishable from no hand data")
}

func TestJoinSendsEmptyHand(t *testing.T) {
	g := NewGame("room42", testSettings())
	rec := newRecorder()
	g.BroadcastFn = rec.broadcast
	g.BroadcastToPlayerFn = rec.broadcastTo

	id := uuid.New()
	g.AddPlayer(id, "alice")

	private := rec.privateByType(id, EventPrivateState)
	require.NotEmpty(t, private)
	assert.NotNil(t, private[0].Hand, "joining player gets an authoritative empty hand")
	assert.Empty(t, private[0].Hand)
}
