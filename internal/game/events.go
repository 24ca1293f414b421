// internal/game/events.go
package game

import (
	"github.com/google/uuid"
)

// EventType is an enum-like type for outbound room events.
type EventType string

const (
	EventGameState     EventType = "game_state"     // public snapshot, broadcast to the room
	EventPrivateState  EventType = "private_state"  // a player's own exact hand
	EventPlayedAttempt EventType = "played_attempt" // hint that a play is pending validation
	EventPlayAccepted  EventType = "play_accepted"  // optimistic acceptance, pile already updated
	EventPlayRejected  EventType = "play_rejected"  // validation failed, play rolled back
	EventPlayReturn    EventType = "play_return"    // targeted: restore this card to your hand
	EventGameOver      EventType = "game_over"
	EventRoomClosed    EventType = "room_closed"
	EventChat          EventType = "chat"
)

// EventPlayer identifies the acting player inside an event payload.
type EventPlayer struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// ChatMessage is the payload of EventChat. System announcements use
// From == "SYSTEM".
type ChatMessage struct {
	From    string `json:"from"`
	Message string `json:"message"`
	Time    int64  `json:"time"`
}

// Event holds data about a room event in a consistent broadcast format.
type Event struct {
	Type    EventType              `json:"type"`
	Player  *EventPlayer           `json:"player,omitempty"`
	Card    string                 `json:"card,omitempty"`
	Reason  string                 `json:"reason,omitempty"`
	State   *PublicState           `json:"state,omitempty"`
	Hand    []string               `json:"hand"`
	Chat    *ChatMessage           `json:"chat,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}
