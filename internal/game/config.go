package game

import (
	"github.com/samdwyer/hexfleet/internal/combat"
	"github.com/samdwyer/hexfleet/internal/destination"
)

// Config holds game configuration options.
type Config struct {
	// Seed for the game's dice. The same seed and orders replay the same game.
	// A seed of 0 means a random seed will be generated.
	Seed uint64
	// MaxTurns ends the game after this many turns.
	MaxTurns int
	// VictoryPoints wins the game outright when reached.
	VictoryPoints int
	// CombatMode selects how armed engagements are settled.
	CombatMode combat.Mode
	// CommandRadius bounds post-combat destination searches.
	CommandRadius int
}

// DefaultConfig returns the standard game length and victory threshold.
func DefaultConfig() Config {
	return Config{
		MaxTurns:      44,
		VictoryPoints: 75,
		CombatMode:    combat.ModeAggregate,
		CommandRadius: destination.DefaultCommandRadius,
	}
}
