package game

import (
	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/fleet"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
	"github.com/samdwyer/hexfleet/internal/world"
)

// Commander makes a player's decisions. Implementations must not mutate
// the View; the game applies the returned orders.
type Commander interface {
	MovementOrders(v View) []MoveOrder
	BuildOrders(v View) []BuildOrder
}

// MoveOrder sends a task force to a destination. When Ships is set, those
// ships are first split off TaskForce into a new task force that moves
// instead.
type MoveOrder struct {
	TaskForce   int
	Ships       entity.Fleet
	Destination hexgrid.Hex
}

// BuildOrder buys Count units of a catalog unit at one of the player's
// colonies.
type BuildOrder struct {
	At    hexgrid.Hex
	Unit  string
	Count int
}

// View is what a commander sees when deciding.
type View struct {
	Turn    int
	Player  *entity.Player
	Ledger  *fleet.Ledger
	Galaxy  *world.Galaxy
	Credits int
	enemy   func(h hexgrid.Hex) bool
}

// EnemyPresent reports whether another player has ships at h.
func (v View) EnemyPresent(h hexgrid.Hex) bool {
	return v.enemy != nil && v.enemy(h)
}

// Idle is a commander that never gives orders.
type Idle struct{}

func (Idle) MovementOrders(View) []MoveOrder { return nil }
func (Idle) BuildOrders(View) []BuildOrder   { return nil }

// Scorer computes victory points.
type Scorer interface {
	VictoryPoints(player int, galaxy *world.Galaxy) int
}

// PopulationScorer awards one point per million colonists.
type PopulationScorer struct{}

func (PopulationScorer) VictoryPoints(player int, galaxy *world.Galaxy) int {
	total := 0
	for _, c := range galaxy.ColoniesOf(player) {
		total += c.Population
	}
	return total
}
