// Package ai holds the default commanders for computer players.
package ai

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/fleet"
	"github.com/samdwyer/hexfleet/internal/game"
	"github.com/samdwyer/hexfleet/internal/gamedata"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
	"github.com/samdwyer/hexfleet/internal/world"
)

// Greedy sends scouts to the nearest unexplored systems, escorts colony
// transports to the nearest open planets and spends credits as they come.
type Greedy struct {
	units *gamedata.UnitRegistry
	// Escort is how many corvettes go along with each colony convoy.
	Escort int
	log    zerolog.Logger
}

// NewGreedy creates a greedy commander pricing builds from units.
func NewGreedy(units *gamedata.UnitRegistry) *Greedy {
	return &Greedy{
		units:  units,
		Escort: 1,
		log:    log.With().Str("component", "ai").Logger(),
	}
}

var _ game.Commander = (*Greedy)(nil)

// MovementOrders implements game.Commander.
func (c *Greedy) MovementOrders(v game.View) []game.MoveOrder {
	l := v.Ledger
	claimed := make(map[hexgrid.Hex]bool)
	for _, p := range l.Plans() {
		claimed[p.FinalDestination] = true
	}

	var orders []game.MoveOrder
	home, ok := l.Location(fleet.HomeFleet)
	if !ok {
		home = v.Player.Entry
	}
	ships := l.Composition(fleet.HomeFleet)

	for i := 0; i < ships[entity.Scout]; i++ {
		dest, ok := c.nearest(v, home, claimed, func(s *world.StarSystem) bool {
			return !v.Galaxy.Explored(v.Player.ID, s.Hex)
		})
		if !ok {
			break
		}
		claimed[dest] = true
		orders = append(orders, game.MoveOrder{
			TaskForce:   fleet.HomeFleet,
			Ships:       entity.Fleet{entity.Scout: 1},
			Destination: dest,
		})
	}

	if n := ships[entity.ColonyTransport]; n > 0 && !v.Galaxy.HasOpenPlanet(home) {
		dest, ok := c.nearest(v, home, claimed, func(s *world.StarSystem) bool {
			return s.OpenPlanet() != nil
		})
		if ok {
			convoy := entity.Fleet{entity.ColonyTransport: n}
			if escort := min(c.Escort, ships[entity.Corvette]); escort > 0 {
				convoy[entity.Corvette] = escort
			}
			claimed[dest] = true
			orders = append(orders, game.MoveOrder{
				TaskForce:   fleet.HomeFleet,
				Ships:       convoy,
				Destination: dest,
			})
		}
	}

	// Scouts that reached their system move on.
	for _, id := range l.TaskForceIDs() {
		if id == fleet.HomeFleet || l.Plan(id) != nil {
			continue
		}
		comp := l.Composition(id)
		if comp[entity.Scout] == 0 || comp.Total() != comp[entity.Scout] {
			continue
		}
		at, _ := l.Location(id)
		dest, ok := c.nearest(v, at, claimed, func(s *world.StarSystem) bool {
			return !v.Galaxy.Explored(v.Player.ID, s.Hex)
		})
		if !ok {
			continue
		}
		claimed[dest] = true
		orders = append(orders, game.MoveOrder{TaskForce: id, Destination: dest})
	}
	return orders
}

// nearest returns the closest star system passing keep that is neither
// claimed nor held by enemy ships. Ties go to the first in board order.
func (c *Greedy) nearest(v game.View, from hexgrid.Hex, claimed map[hexgrid.Hex]bool, keep func(*world.StarSystem) bool) (hexgrid.Hex, bool) {
	var best hexgrid.Hex
	bestDist := -1
	for _, s := range v.Galaxy.Stars() {
		if s.Hex == from || claimed[s.Hex] || v.EnemyPresent(s.Hex) || !keep(s) {
			continue
		}
		if d := hexgrid.Distance(from, s.Hex); bestDist < 0 || d < bestDist {
			best, bestDist = s.Hex, d
		}
	}
	return best, bestDist >= 0
}

// BuildOrders implements game.Commander. The largest colony gets a missile
// base if it has none, then a colony transport while open planets are
// known, then corvettes with whatever is left.
func (c *Greedy) BuildOrders(v game.View) []game.BuildOrder {
	var capital *entity.Colony
	for _, col := range v.Galaxy.ColoniesOf(v.Player.ID) {
		if capital == nil || col.Population > capital.Population {
			capital = col
		}
	}
	if capital == nil {
		return nil
	}

	// Production income arrives before orders execute.
	credits := v.Credits
	for _, col := range v.Galaxy.ColoniesOf(v.Player.ID) {
		credits += col.Population
	}

	var orders []game.BuildOrder
	buy := func(unit string, count int) {
		cost, ok := c.units.Cost(unit)
		if !ok || cost <= 0 {
			c.log.Warn().Str("unit", unit).Msg("unit not in catalog")
			return
		}
		n := min(count, credits/cost)
		if n <= 0 {
			return
		}
		credits -= n * cost
		orders = append(orders, game.BuildOrder{At: capital.Hex, Unit: unit, Count: n})
	}

	if capital.Defenses.MissileBases == 0 {
		buy("missile_base", 1)
	}
	if c.openPlanetKnown(v) {
		buy(entity.ColonyTransport.ID(), 2)
	}
	buy(entity.Corvette.ID(), credits)
	return orders
}

func (c *Greedy) openPlanetKnown(v game.View) bool {
	for _, s := range v.Galaxy.Stars() {
		if v.Galaxy.Explored(v.Player.ID, s.Hex) && s.OpenPlanet() != nil {
			return true
		}
	}
	return false
}
