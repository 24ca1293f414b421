package models

import "github.com/google/uuid"

// Play is one validated play, kept in the room's bounded recent-plays ring.
type Play struct {
	PlayerID uuid.UUID `json:"playerId"`
	Card     string    `json:"card"`
	Rank     string    `json:"rank"`
	Suit     string    `json:"suit"`
}
