package game

import (
	"context"
	"fmt"

	"github.com/samdwyer/hexfleet/internal/actionlog"
	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
)

func (g *Game) view(p *entity.Player) View {
	b := board{Galaxy: g.galaxy, g: g}
	return View{
		Turn:    g.turn,
		Player:  p,
		Ledger:  g.ledgers[p.ID],
		Galaxy:  g.galaxy,
		Credits: p.Credits,
		enemy:   func(h hexgrid.Hex) bool { return b.EnemyPresent(p.ID, h) },
	}
}

// movementStep applies the commander's orders, then moves.
func (g *Game) movementStep(ctx context.Context, p *entity.Player) error {
	l := g.ledgers[p.ID]
	for _, o := range g.commanders[p.ID].MovementOrders(g.view(p)) {
		tf := o.TaskForce
		if o.Ships.Total() > 0 {
			id, moved := l.SplitFleet(o.TaskForce, o.Ships)
			if id == 0 {
				g.log.Warn().Int("player", p.ID).Int("task_force", o.TaskForce).Msg("split moved no ships")
				continue
			}
			g.journal.Record(actionlog.TypeSplit, p.ID, id,
				fmt.Sprintf("task force %d", o.TaskForce), fmt.Sprintf("%d ships", moved.Total()))
			tf = id
		}
		if _, err := g.movement.Order(ctx, l, tf, o.Destination); err != nil {
			return err
		}
	}
	_, err := g.AdvanceMovement(ctx, p.ID, g.turn)
	return err
}

// explorationStep reveals every star hex the player has ships in.
func (g *Game) explorationStep(p *entity.Player) {
	for _, h := range g.ledgers[p.ID].Occupied() {
		if !g.galaxy.IsStarHex(h) {
			continue
		}
		if g.galaxy.Explore(p.ID, h) {
			g.journal.Record(actionlog.TypeExplore, p.ID, 0, "unexplored", h.String())
		}
	}
}

// colonizationStep lands colony transports of stationary task forces on
// open planets free of enemy ships.
func (g *Game) colonizationStep(p *entity.Player) {
	l := g.ledgers[p.ID]
	b := board{Galaxy: g.galaxy, g: g}
	for _, id := range l.TaskForceIDs() {
		transports := l.Composition(id)[entity.ColonyTransport]
		if transports == 0 || l.Plan(id) != nil {
			continue
		}
		h, _ := l.Location(id)
		if !g.galaxy.HasOpenPlanet(h) || b.EnemyPresent(p.ID, h) {
			continue
		}
		colony, used, err := g.galaxy.Colonize(p.ID, h, transports)
		if err != nil {
			g.log.Warn().Err(err).Int("player", p.ID).Int("task_force", id).Msg("colonization failed")
			continue
		}
		l.Remove(id, entity.ColonyTransport, used)
		g.journal.Record(actionlog.TypeColonize, p.ID, id,
			fmt.Sprintf("%d transports", transports),
			fmt.Sprintf("%s %d million", colony.Planet, colony.Population))
	}
}

// productionStep queues build orders ahead of a production turn.
func (g *Game) productionStep(p *entity.Player) {
	if !IsProductionTurn(g.turn + 1) {
		return
	}
	orders := g.commanders[p.ID].BuildOrders(g.view(p))
	g.queue[p.ID] = append(g.queue[p.ID], orders...)
}
