package game

import (
	"context"

	"github.com/samdwyer/hexfleet/internal/actionlog"
	"github.com/samdwyer/hexfleet/internal/combat"
	"github.com/samdwyer/hexfleet/internal/destination"
	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/fleet"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
	"github.com/samdwyer/hexfleet/internal/world"
)

// board is the shared view the engines query. It joins the galaxy with
// every player's ledger.
type board struct {
	*world.Galaxy
	g *Game
}

var (
	_ combat.Board      = board{}
	_ destination.Board = board{}
)

func (b board) EnemyPresent(player int, h hexgrid.Hex) bool {
	for _, l := range b.g.ledgers {
		if l.Player() != player && l.ShipsAt(h).Total() > 0 {
			return true
		}
	}
	return false
}

func (b board) FriendlyPresent(player int, h hexgrid.Hex) bool {
	l := b.g.Ledger(player)
	return l != nil && l.ShipsAt(h).Total() > 0
}

// Ledgers returns the ledgers of active players in turn order.
func (b board) Ledgers() []*fleet.Ledger {
	var out []*fleet.Ledger
	for _, p := range b.g.players {
		if !p.Eliminated {
			out = append(out, b.g.ledgers[p.ID])
		}
	}
	return out
}

func (b board) Player(id int) *entity.Player {
	return b.g.Player(id)
}

// redirector installs the selector's choice as a new movement plan.
type redirector struct {
	g *Game
}

func (r redirector) Redirect(ctx context.Context, req combat.RedirectRequest) error {
	g := r.g
	l := g.Ledger(req.Player)

	dreq := destination.Request{
		Player:      req.Player,
		TaskForce:   req.TaskForce,
		Current:     req.Location,
		Outcome:     req.Outcome,
		Composition: req.Composition,
	}
	if plan := l.Plan(req.TaskForce); plan != nil {
		dreq.OriginalDestination = plan.FinalDestination
		if plan.OriginalDestination != nil {
			dreq.OriginalDestination = *plan.OriginalDestination
		}
		dreq.HasOriginal = true
	}

	dest, ok := g.selector.SelectNewDestination(ctx, dreq)
	if !ok {
		l.ClearPlan(req.TaskForce)
		g.journal.Record(actionlog.TypeHold, req.Player, req.TaskForce, req.Location.String(), req.Outcome.String())
		return nil
	}

	path := g.galaxy.Grid.Path(req.Location, dest, g.galaxy.Grid.Diameter())
	if len(path) < 2 {
		l.ClearPlan(req.TaskForce)
		g.journal.Record(actionlog.TypePlanFailure, req.Player, req.TaskForce, req.Location.String(), dest.String())
		return nil
	}

	plan := fleet.NewPlan(req.TaskForce, path)
	if dreq.HasOriginal {
		orig := dreq.OriginalDestination
		plan.OriginalDestination = &orig
	}
	plan.RedirectOutcome = req.Outcome.String()
	if err := l.SetPlan(plan); err != nil {
		return err
	}
	g.journal.Record(actionlog.TypeRedirect, req.Player, req.TaskForce, req.Location.String(), dest.String())
	return nil
}
