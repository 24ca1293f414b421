// internal/models/settings.go
package models

import "time"

// Play directions.
const (
	DirectionCW  = "cw"
	DirectionCCW = "ccw"
)

// Settings captures the per-room configuration chosen at create time.
// The timing fields default from the server config; none of the literal values
// are load-bearing beyond "long enough for clients to render the optimistic
// play".
type Settings struct {
	NumDecks      int           `json:"numDecks"`
	Direction     string        `json:"direction"` // "cw" or "ccw"
	SingWindow    time.Duration `json:"-"`
	SpadeWindow   time.Duration `json:"-"`
	ValidateDelay time.Duration `json:"-"`

	// SingWindowMs mirrors SingWindow for the public snapshot.
	SingWindowMs int64 `json:"singWindowMs"`
}

var defaults = Settings{
	NumDecks:      1,
	Direction:     DirectionCW,
	SingWindow:    10 * time.Second,
	SpadeWindow:   7 * time.Second,
	ValidateDelay: 400 * time.Millisecond,
	SingWindowMs:  10000,
}

// DefaultSettings returns the settings applied when the create payload omits
// them.
func DefaultSettings() Settings {
	return defaults
}

// SetDefaultSettings replaces the package defaults. Called once at startup,
// before any room exists, to fold in the env-driven timings.
func SetDefaultSettings(s Settings) {
	defaults = s
}
