// Package combat resolves fleet engagements at star systems.
package combat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/hexfleet/internal/actionlog"
	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/fleet"
	"github.com/samdwyer/hexfleet/internal/gamedata"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
	"github.com/samdwyer/hexfleet/internal/telemetry"
)

const (
	// attackerWeight is applied to the attacker's warship count.
	attackerWeight = 1.2
	// decisiveRatio is how far weighted attacker strength must exceed the
	// defender's for the defender to be driven off.
	decisiveRatio = 1.5
)

// Dice rolls n six-sided dice and returns the total.
type Dice interface {
	Roll(n int) int
}

// Board gives the resolver the fleets and colonies it fights over.
type Board interface {
	IsStarHex(h hexgrid.Hex) bool
	// Ledgers returns the ledgers of active players in turn order.
	Ledgers() []*fleet.Ledger
	ColoniesAt(h hexgrid.Hex) []*entity.Colony
}

// RedirectRequest asks for a new destination for a task force leaving a
// contested hex.
type RedirectRequest struct {
	Player      int
	TaskForce   int
	Location    hexgrid.Hex
	Outcome     Outcome
	Composition entity.Fleet
}

// Redirector installs new orders for task forces that must leave.
type Redirector interface {
	Redirect(ctx context.Context, req RedirectRequest) error
}

// Engagement is a fight between the acting player and one other player at
// a star hex.
type Engagement struct {
	Location      hexgrid.Hex
	Attacker      int
	Defender      int
	AttackerShips entity.Fleet
	DefenderShips entity.Fleet
}

// Result is what happened in an engagement.
type Result struct {
	Engagement
	Outcome        Outcome
	AttackerLosses entity.Fleet
	DefenderLosses entity.Fleet
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMode selects how armed-versus-armed engagements are settled.
func WithMode(m Mode) Option {
	return func(r *Resolver) {
		r.mode = m
	}
}

// WithAttackTable replaces the embedded attack table.
func WithAttackTable(t *gamedata.AttackTable) Option {
	return func(r *Resolver) {
		r.table = t
	}
}

// Resolver runs the combat phase for one acting player at a time.
type Resolver struct {
	board      Board
	dice       Dice
	redirector Redirector
	journal    *actionlog.Journal
	table      *gamedata.AttackTable
	mode       Mode
	log        zerolog.Logger
}

// NewResolver creates a resolver using the embedded attack table.
func NewResolver(board Board, dice Dice, redirector Redirector, journal *actionlog.Journal, opts ...Option) *Resolver {
	r := &Resolver{
		board:      board,
		dice:       dice,
		redirector: redirector,
		journal:    journal,
		mode:       ModeAggregate,
		log:        log.With().Str("component", "combat").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.table == nil {
		r.table = gamedata.MustLoadAttackTable()
	}
	return r
}

// ResolvePhase fights every engagement the attacker is part of: each star
// hex where it has ships against each other player with ships there. It
// reports whether any engagement took place.
func (r *Resolver) ResolvePhase(ctx context.Context, attacker, turn int) (bool, error) {
	tracer := telemetry.Tracer("combat")
	ctx, span := tracer.Start(ctx, "combat.resolve")
	defer span.End()

	own := r.ledger(attacker)
	if own == nil {
		return false, nil
	}

	engagements := 0
	redirected := make(map[[2]int]bool)
	for _, h := range own.Occupied() {
		if !r.board.IsStarHex(h) {
			continue
		}
		for _, other := range r.board.Ledgers() {
			if other.Player() == attacker {
				continue
			}
			eng := Engagement{
				Location:      h,
				Attacker:      attacker,
				Defender:      other.Player(),
				AttackerShips: own.ShipsAt(h),
				DefenderShips: other.ShipsAt(h),
			}
			if eng.AttackerShips.Total() == 0 || eng.DefenderShips.Total() == 0 {
				continue
			}

			res := r.Resolve(ctx, eng)
			engagements++
			if err := r.settle(ctx, res, own, other, redirected); err != nil {
				return true, err
			}
		}
	}

	span.SetAttributes(
		attribute.Int("combat.attacker", attacker),
		attribute.Int("combat.turn", turn),
		attribute.Int("combat.engagements", engagements),
	)
	return engagements > 0, nil
}

// Resolve decides an engagement and rolls its losses. It does not touch the
// ledgers; ResolvePhase applies the result.
func (r *Resolver) Resolve(ctx context.Context, eng Engagement) Result {
	tracer := telemetry.Tracer("combat")
	_, span := tracer.Start(ctx, "combat.engagement")
	defer span.End()

	res := Result{
		Engagement:     eng,
		AttackerLosses: entity.Fleet{},
		DefenderLosses: entity.Fleet{},
	}
	aArmed := eng.AttackerShips.Warships() > 0
	dArmed := eng.DefenderShips.Warships() > 0

	switch {
	case !aArmed && !dArmed:
		res.Outcome = MutualRetreat
	case aArmed && !dArmed:
		res.DefenderLosses = r.barrage(eng.AttackerShips, eng.DefenderShips)
		res.Outcome = DefenderRetreatAfterBarrage
	case !aArmed && dArmed:
		res.AttackerLosses = r.barrage(eng.DefenderShips, eng.AttackerShips)
		res.Outcome = AttackerRetreatAfterBarrage
	case r.mode == ModeAttackTable:
		r.exchange(eng, &res)
	default:
		res.Outcome = compareStrength(eng.AttackerShips.Warships(), eng.DefenderShips.Warships())
	}

	span.SetAttributes(
		attribute.String("combat.location", eng.Location.String()),
		attribute.Int("combat.defender", eng.Defender),
		attribute.String("combat.outcome", res.Outcome.String()),
		attribute.Int("combat.attacker_losses", res.AttackerLosses.Total()),
		attribute.Int("combat.defender_losses", res.DefenderLosses.Total()),
	)
	return res
}

// compareStrength settles armed engagements on weighted warship counts.
func compareStrength(attackers, defenders int) Outcome {
	a := float64(attackers) * attackerWeight
	d := float64(defenders)
	switch {
	case a > decisiveRatio*d:
		return AttackerVictory
	case d > a:
		return DefenderVictory
	default:
		return MutualWithdrawal
	}
}

// barrage gives each warship one shot at the unarmed fleet, working
// through target types in order until none are left.
func (r *Resolver) barrage(armed, unarmed entity.Fleet) entity.Fleet {
	remaining := entity.Fleet{}
	for t, n := range unarmed {
		if !t.Armed() {
			remaining[t] = n
		}
	}
	losses := entity.Fleet{}

	for _, shooter := range entity.AllShipTypes() {
		if !shooter.Armed() {
			continue
		}
		for i := 0; i < armed[shooter]; i++ {
			target, ok := firstTarget(remaining, unarmedOrder)
			if !ok {
				return losses
			}
			if r.fire(shooter.ID(), target) {
				remaining[target]--
				losses[target]++
			}
		}
	}
	return losses
}

var (
	unarmedOrder = []entity.ShipType{entity.Scout, entity.ColonyTransport}
	threatOrder  = []entity.ShipType{entity.DeathStar, entity.Fighter, entity.Corvette, entity.ColonyTransport, entity.Scout}
)

func firstTarget(remaining entity.Fleet, order []entity.ShipType) (entity.ShipType, bool) {
	for _, t := range order {
		if remaining[t] > 0 {
			return t, true
		}
	}
	return 0, false
}

// fire rolls one attack and reports a kill.
func (r *Resolver) fire(attacker string, target entity.ShipType) bool {
	entry, ok := r.table.Lookup(attacker, target.ID())
	if !ok || !entry.Winnable() {
		return false
	}
	return entry.Hits(r.dice.Roll(entry.Dice))
}

type shooter struct {
	id    string
	count int
}

// exchange is the attack-table resolution of an armed engagement: the
// attacker fires first, the defender's surviving warships and the missile
// bases of its colonies answer.
func (r *Resolver) exchange(eng Engagement, res *Result) {
	defenders := clone(eng.DefenderShips)
	attackers := clone(eng.AttackerShips)

	res.DefenderLosses = r.volley(shootersOf(attackers), defenders)

	answer := shootersOf(defenders)
	for _, c := range r.board.ColoniesAt(eng.Location) {
		if c.Owner != eng.Defender {
			continue
		}
		answer = append(answer,
			shooter{id: "missile_base", count: c.Defenses.MissileBases},
			shooter{id: "advanced_missile_base", count: c.Defenses.AdvancedMissileBases},
		)
	}
	res.AttackerLosses = r.volley(answer, attackers)

	aLeft, dLeft := attackers.Warships(), defenders.Warships()
	switch {
	case dLeft == 0 && aLeft > 0:
		res.Outcome = AttackerVictory
	case aLeft == 0 && dLeft > 0:
		res.Outcome = DefenderVictory
	default:
		res.Outcome = MutualWithdrawal
	}
}

// volley fires every shooter once at the most threatening target it can
// hit, removing kills from targets as they land.
func (r *Resolver) volley(shooters []shooter, targets entity.Fleet) entity.Fleet {
	losses := entity.Fleet{}
	for _, s := range shooters {
		for i := 0; i < s.count; i++ {
			target, ok := r.pickTarget(s.id, targets)
			if !ok {
				break
			}
			if r.fire(s.id, target) {
				targets[target]--
				losses[target]++
			}
		}
	}
	return losses
}

func (r *Resolver) pickTarget(attacker string, targets entity.Fleet) (entity.ShipType, bool) {
	for _, t := range threatOrder {
		if targets[t] <= 0 {
			continue
		}
		if e, ok := r.table.Lookup(attacker, t.ID()); ok && e.Winnable() {
			return t, true
		}
	}
	return 0, false
}

func shootersOf(f entity.Fleet) []shooter {
	var out []shooter
	for _, t := range entity.AllShipTypes() {
		if t.Armed() && f[t] > 0 {
			out = append(out, shooter{id: t.ID(), count: f[t]})
		}
	}
	return out
}

func clone(f entity.Fleet) entity.Fleet {
	out := make(entity.Fleet, len(f))
	for t, n := range f {
		out[t] = n
	}
	return out
}

// settle applies losses, clears combat flags at the hex and asks for new
// destinations for every task force that has to leave.
func (r *Resolver) settle(ctx context.Context, res Result, attacker, defender *fleet.Ledger, redirected map[[2]int]bool) error {
	h := res.Location
	r.journal.Record(actionlog.TypeCombat, res.Attacker, 0,
		fmt.Sprintf("%s %s vs %s", h, describe(res.AttackerShips), describe(res.DefenderShips)),
		res.Outcome.String())
	r.log.Info().Str("hex", h.String()).Int("attacker", res.Attacker).Int("defender", res.Defender).
		Str("outcome", res.Outcome.String()).Msg("engagement resolved")

	applyLosses(r.journal, attacker, h, res.AttackerLosses)
	applyLosses(r.journal, defender, h, res.DefenderLosses)

	flagged := make(map[[2]int]bool)
	for _, l := range []*fleet.Ledger{attacker, defender} {
		for _, id := range l.TaskForcesAt(h) {
			plan := l.Plan(id)
			if plan == nil {
				continue
			}
			if plan.MayNeedRedirect {
				flagged[[2]int{l.Player(), id}] = true
			}
			plan.InCombat = false
			plan.MayNeedRedirect = false
			if plan.Arrived() {
				l.ClearPlan(id)
			}
		}
	}

	moving := make(map[Side]bool)
	for _, side := range res.Outcome.Moving() {
		moving[side] = true
	}
	for _, side := range []Side{Attacker, Defender} {
		l, enemy := attacker, defender
		if side == Defender {
			l, enemy = defender, attacker
		}
		for _, id := range l.TaskForcesAt(h) {
			key := [2]int{l.Player(), id}
			if id == fleet.HomeFleet || redirected[key] {
				continue
			}
			// A flagged task force on the side that holds the hex leaves
			// anyway once it has no warships left to face armed enemies.
			exposed := flagged[key] && l.Composition(id).Warships() == 0 && enemy.ShipsAt(h).Warships() > 0
			if !moving[side] && !exposed {
				continue
			}
			redirected[key] = true
			req := RedirectRequest{
				Player:      l.Player(),
				TaskForce:   id,
				Location:    h,
				Outcome:     res.Outcome,
				Composition: l.Composition(id),
			}
			if err := r.redirector.Redirect(ctx, req); err != nil {
				return fmt.Errorf("redirect %s task force %d: %w", side, id, err)
			}
		}
	}
	return nil
}

func applyLosses(j *actionlog.Journal, l *fleet.Ledger, h hexgrid.Hex, losses entity.Fleet) {
	for _, t := range entity.AllShipTypes() {
		if losses[t] == 0 {
			continue
		}
		n := l.Destroy(h, t, losses[t])
		j.Record(actionlog.TypeLoss, l.Player(), 0, h.String(), fmt.Sprintf("%d %s", n, t.ID()))
	}
}

func describe(f entity.Fleet) string {
	var parts []string
	for _, t := range entity.AllShipTypes() {
		if f[t] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", f[t], t.ID()))
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}

func (r *Resolver) ledger(player int) *fleet.Ledger {
	for _, l := range r.board.Ledgers() {
		if l.Player() == player {
			return l
		}
	}
	return nil
}
