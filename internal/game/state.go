// Package game runs the turn and phase cycle of a simulation.
package game

// Phase is a step of the turn cycle.
type Phase int

const (
	// PhaseMovement - task forces receive orders and move
	PhaseMovement Phase = iota
	// PhaseExploration - star systems with ships present are revealed
	PhaseExploration
	// PhaseColonization - colony transports settle open planets
	PhaseColonization
	// PhaseCombat - engagements at contested star systems are resolved
	PhaseCombat
	// PhaseProduction - build orders are placed ahead of production turns
	PhaseProduction
)

// ProductionInterval is how often, in turns, production is processed.
const ProductionInterval = 4

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseMovement:
		return "movement"
	case PhaseExploration:
		return "exploration"
	case PhaseColonization:
		return "colonization"
	case PhaseCombat:
		return "combat"
	case PhaseProduction:
		return "production"
	default:
		return "unknown"
	}
}

// Next returns the phase after p. Production wraps to Movement.
func (p Phase) Next() Phase {
	if p == PhaseProduction {
		return PhaseMovement
	}
	return p + 1
}

// RequiresInput reports whether a step of this phase yields to the
// players. Combat runs to completion without pausing.
func (p Phase) RequiresInput() bool {
	return p != PhaseCombat
}

// IsProductionTurn reports whether production is processed on turn.
func IsProductionTurn(turn int) bool {
	return turn%ProductionInterval == 0
}
