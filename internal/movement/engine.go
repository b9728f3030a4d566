// Package movement advances task forces along their planned paths.
package movement

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/hexfleet/internal/actionlog"
	"github.com/samdwyer/hexfleet/internal/fleet"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
	"github.com/samdwyer/hexfleet/internal/telemetry"
)

// Board answers the questions movement asks about the map.
type Board interface {
	IsStarHex(h hexgrid.Hex) bool
	EnemyPresent(player int, h hexgrid.Hex) bool
}

// Engine moves one player's task forces per call.
type Engine struct {
	grid    *hexgrid.Grid
	board   Board
	journal *actionlog.Journal
	log     zerolog.Logger
}

// NewEngine creates a movement engine.
func NewEngine(grid *hexgrid.Grid, board Board, journal *actionlog.Journal) *Engine {
	return &Engine{
		grid:    grid,
		board:   board,
		journal: journal,
		log:     log.With().Str("component", "movement").Logger(),
	}
}

// EffectiveSpeed is the hexes a task force may move this turn. Ships enter
// the board on turn 1 and lose one hex of movement doing so.
func EffectiveSpeed(speed, turn int) int {
	if turn == 1 {
		return max(1, speed-1)
	}
	return speed
}

// Order plans a route for a task force. A destination with no route is a
// planning failure: it is logged, the task force holds and Order returns
// false. Ordering the home fleet is an invariant violation.
func (e *Engine) Order(ctx context.Context, l *fleet.Ledger, taskForce int, dest hexgrid.Hex) (bool, error) {
	if taskForce == fleet.HomeFleet {
		return false, fmt.Errorf("order to %s: %w", dest, fleet.ErrHomeFleet)
	}
	from, ok := l.Location(taskForce)
	if !ok {
		return false, fmt.Errorf("order task force %d: %w", taskForce, fleet.ErrUnknownTaskForce)
	}

	path := e.grid.Path(from, dest, e.grid.Diameter())
	if len(path) < 2 {
		e.log.Warn().Int("player", l.Player()).Int("task_force", taskForce).
			Str("from", from.String()).Str("to", dest.String()).Msg("no path; holding position")
		e.journal.Record(actionlog.TypePlanFailure, l.Player(), taskForce, from.String(), dest.String())
		return false, nil
	}

	if err := l.SetPlan(fleet.NewPlan(taskForce, path)); err != nil {
		return false, err
	}
	e.journal.Record(actionlog.TypeOrder, l.Player(), taskForce, from.String(), dest.String())
	return true, nil
}

// Advance moves every planned task force of the ledger's player. A task
// force entering a star hex holding enemy ships stops there and is flagged
// for combat. It reports whether anything moved.
func (e *Engine) Advance(ctx context.Context, l *fleet.Ledger, speed, turn int) (bool, error) {
	tracer := telemetry.Tracer("movement")
	_, span := tracer.Start(ctx, "movement.advance")
	defer span.End()

	player := l.Player()
	steps := EffectiveSpeed(speed, turn)
	moved, stopped := 0, 0

	for _, plan := range l.Plans() {
		if plan.TaskForce == fleet.HomeFleet {
			return false, fmt.Errorf("plan for task force %d: %w", plan.TaskForce, fleet.ErrHomeFleet)
		}
		at, ok := l.Location(plan.TaskForce)
		if !ok {
			l.ClearPlan(plan.TaskForce)
			continue
		}
		// A forced stop on the final hex leaves the plan in place for
		// combat. If no engagement consumed it, it ends here.
		if plan.Arrived() {
			l.ClearPlan(plan.TaskForce)
			e.journal.Record(actionlog.TypeArrive, player, plan.TaskForce, at.String(), at.String())
			continue
		}
		if !plan.CanMoveThisTurn {
			continue
		}

		start := plan.PathIndex
		end := min(start+steps, len(plan.Path)-1)
		forced := false
		for i := start + 1; i <= end; i++ {
			h := plan.Path[i]
			if e.board.IsStarHex(h) && e.board.EnemyPresent(player, h) {
				end = i
				forced = true
				break
			}
		}
		if end == start {
			continue
		}

		from, to := plan.Path[start], plan.Path[end]
		if err := l.Relocate(plan.TaskForce, to); err != nil {
			return moved > 0, err
		}
		plan.PathIndex = end
		plan.InCombat = false
		plan.MayNeedRedirect = false
		moved++
		e.journal.Record(actionlog.TypeMove, player, plan.TaskForce, from.String(), to.String())

		switch {
		case forced:
			stopped++
			plan.InCombat = true
			plan.CombatLocation = to
			if l.Composition(plan.TaskForce).Unarmed() > 0 {
				plan.MayNeedRedirect = true
			}
			e.log.Debug().Int("player", player).Int("task_force", plan.TaskForce).
				Str("hex", to.String()).Msg("forced stop at enemy star")
			e.journal.Record(actionlog.TypeForcedStop, player, plan.TaskForce, from.String(), to.String())
		case plan.Arrived():
			l.ClearPlan(plan.TaskForce)
			e.journal.Record(actionlog.TypeArrive, player, plan.TaskForce, from.String(), to.String())
		}
	}

	span.SetAttributes(
		attribute.Int("movement.player", player),
		attribute.Int("movement.turn", turn),
		attribute.Int("movement.speed", steps),
		attribute.Int("movement.moved", moved),
		attribute.Int("movement.forced_stops", stopped),
	)
	return moved > 0, nil
}
