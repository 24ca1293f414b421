package models

import "github.com/google/uuid"

// Player is one seat in a room. The engine exclusively owns Hand; no
// collaborator mutates it directly. Connections live in the transport layer,
// keyed by the same ID.
type Player struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Hand      []string  `json:"hand"`
	Connected bool      `json:"connected"`
}
