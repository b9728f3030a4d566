package game

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/hexfleet/internal/actionlog"
	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/gamedata"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
	"github.com/samdwyer/hexfleet/internal/telemetry"
)

const (
	growthDivisor  = 5
	advancedBaseID = "advanced_missile_base"
)

// AdvanceTurn starts the next turn: production when due, cleanup, history,
// elimination and the victory check.
func (g *Game) AdvanceTurn(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.turn")
	defer span.End()

	g.turn++
	g.phase = PhaseMovement
	g.playerIndex = g.firstActive()
	g.journal.SetPosition(g.turn, g.phase.String())
	for _, l := range g.ledgers {
		l.BeginTurn()
	}

	production := IsProductionTurn(g.turn)
	if production {
		g.runProduction(ctx)
	}

	plans := 0
	for _, l := range g.ledgers {
		plans += l.Sweep()
	}
	colonies := g.galaxy.Sweep()

	g.snapshot(production)
	g.eliminate()
	g.checkVictory()
	g.playerIndex = g.firstActive()

	span.SetAttributes(
		attribute.Int("game.turn", g.turn),
		attribute.Bool("game.production", production),
		attribute.Int("game.swept_plans", plans),
		attribute.Int("game.swept_colonies", colonies),
		attribute.Bool("game.over", g.over),
	)
	g.journal.Record(actionlog.TypeTurn, 0, 0, fmt.Sprintf("turn %d", g.turn-1), fmt.Sprintf("turn %d", g.turn))
	return nil
}

func (g *Game) runProduction(ctx context.Context) {
	g.productionRuns++
	for _, p := range g.players {
		if p.Eliminated {
			continue
		}
		income := 0
		for _, c := range g.galaxy.ColoniesOf(p.ID) {
			g.grow(c)
			income += c.Population
		}
		p.Credits += income
		g.build(p, g.queue[p.ID])
	}
	g.queue = make(map[int][]BuildOrder)
}

func (g *Game) grow(c *entity.Colony) {
	capacity := c.Population
	if s, ok := g.galaxy.Star(c.Hex); ok {
		if planet := s.Planet(c.Planet); planet != nil {
			capacity = planet.Capacity
		}
	}
	c.Population = min(capacity, c.Population+max(1, c.Population/growthDivisor))
}

// build carries out queued orders, clamped to the player's credits. Ships
// built at one hex form a single fresh task force.
func (g *Game) build(p *entity.Player, orders []BuildOrder) {
	l := g.ledgers[p.ID]
	built := make(map[hexgrid.Hex]entity.Fleet)
	var order []hexgrid.Hex

	for _, o := range orders {
		colony := g.ownColonyAt(p.ID, o)
		def := g.units.GetByID(o.Unit)
		if colony == nil || def == nil || def.Cost <= 0 || o.Count <= 0 {
			g.log.Warn().Int("player", p.ID).Str("unit", o.Unit).Str("hex", o.At.String()).Msg("build order rejected")
			continue
		}

		n := min(o.Count, p.Credits/def.Cost)
		g.journal.Record(actionlog.TypeProduce, p.ID, 0,
			fmt.Sprintf("%d %s at %s", o.Count, def.ID, o.At), fmt.Sprintf("%d built", n))
		if n == 0 {
			continue
		}
		p.Credits -= n * def.Cost

		switch def.Kind {
		case gamedata.KindBase:
			if def.ID == advancedBaseID {
				colony.Defenses.AdvancedMissileBases += n
			} else {
				colony.Defenses.MissileBases += n
			}
		case gamedata.KindShip:
			t, err := entity.ParseShipType(def.ID)
			if err != nil {
				g.log.Error().Err(err).Str("unit", def.ID).Msg("unit catalog out of step with ship types")
				continue
			}
			if built[o.At] == nil {
				built[o.At] = entity.Fleet{}
				order = append(order, o.At)
			}
			built[o.At][t] += n
		}
	}

	for _, at := range order {
		id := l.Commission(built[at], at)
		g.log.Debug().Int("player", p.ID).Int("task_force", id).Str("hex", at.String()).Msg("ships commissioned")
	}
}

func (g *Game) ownColonyAt(player int, o BuildOrder) *entity.Colony {
	for _, c := range g.galaxy.ColoniesAt(o.At) {
		if c.Owner == player && c.Alive() {
			return c
		}
	}
	return nil
}

func (g *Game) snapshot(production bool) {
	snap := TurnSnapshot{Turn: g.turn, Production: production}
	for _, p := range g.players {
		l := g.ledgers[p.ID]
		population := 0
		colonies := g.galaxy.ColoniesOf(p.ID)
		for _, c := range colonies {
			population += c.Population
		}
		snap.Players = append(snap.Players, actionlog.PlayerSummary{
			Turn:          g.turn,
			Player:        p.ID,
			Name:          p.Name,
			Ships:         l.Counts().Total(),
			TaskForces:    len(l.TaskForceIDs()),
			Colonies:      len(colonies),
			Population:    population,
			VictoryPoints: g.VictoryPoints(p.ID),
			Explored:      g.galaxy.ExploredCount(p.ID),
			Eliminated:    p.Eliminated,
		})
	}
	g.history = append(g.history, snap)
}

// eliminate removes players with neither ships nor colonies from play.
func (g *Game) eliminate() {
	for _, p := range g.players {
		if p.Eliminated {
			continue
		}
		if g.ledgers[p.ID].Counts().Total() > 0 || len(g.galaxy.ColoniesOf(p.ID)) > 0 {
			continue
		}
		p.Eliminated = true
		g.journal.Record(actionlog.TypeEliminate, p.ID, 0, "active", "eliminated")
		g.log.Info().Int("player", p.ID).Str("name", p.Name).Int("turn", g.turn).Msg("player eliminated")
	}
}

// checkVictory ends the game when a player reaches the victory threshold,
// the turn limit passes, or at most one player remains.
func (g *Game) checkVictory() {
	var active []*entity.Player
	leader, best := 0, -1
	for _, p := range g.players {
		if p.Eliminated {
			continue
		}
		active = append(active, p)
		if vp := g.VictoryPoints(p.ID); vp > best {
			leader, best = p.ID, vp
		}
	}

	reason := ""
	switch {
	case len(active) == 0:
		reason = "no players left"
		leader = 0
	case len(active) == 1 && len(g.players) > 1:
		reason = "last player standing"
		leader = active[0].ID
	case best >= g.cfg.VictoryPoints:
		reason = "victory points"
	case g.cfg.MaxTurns > 0 && g.turn > g.cfg.MaxTurns:
		reason = "turn limit"
	default:
		return
	}

	g.over = true
	g.winner = leader
	g.journal.Record(actionlog.TypeVictory, leader, 0, reason, fmt.Sprintf("%d points", max(best, 0)))
	g.log.Info().Int("winner", leader).Str("reason", reason).Int("turn", g.turn).Msg("game over")
}
