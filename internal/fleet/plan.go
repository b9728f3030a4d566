package fleet

import (
	"fmt"
	"sort"

	"github.com/samdwyer/hexfleet/internal/hexgrid"
)

// MovementPlan is the standing order of one task force. Path[0] is where
// the plan started and PathIndex is the hex the task force stands on.
type MovementPlan struct {
	TaskForce        int
	Path             []hexgrid.Hex
	PathIndex        int
	FinalDestination hexgrid.Hex
	CanMoveThisTurn  bool
	InCombat         bool
	CombatLocation   hexgrid.Hex
	MayNeedRedirect  bool

	// Set when combat replaced the original order.
	OriginalDestination *hexgrid.Hex
	RedirectOutcome     string
}

// NewPlan creates a plan following path.
func NewPlan(taskForce int, path []hexgrid.Hex) *MovementPlan {
	return &MovementPlan{
		TaskForce:        taskForce,
		Path:             path,
		FinalDestination: path[len(path)-1],
		CanMoveThisTurn:  true,
	}
}

// Current returns the hex at the cursor.
func (p *MovementPlan) Current() hexgrid.Hex {
	return p.Path[p.PathIndex]
}

// Arrived reports whether the cursor is at the final hex.
func (p *MovementPlan) Arrived() bool {
	return p.PathIndex >= len(p.Path)-1
}

// Remaining returns the number of hexes left to travel.
func (p *MovementPlan) Remaining() int {
	return len(p.Path) - 1 - p.PathIndex
}

// SetPlan installs a plan. Plans for task forces built this turn cannot
// move until the next one.
func (l *Ledger) SetPlan(p *MovementPlan) error {
	if p.TaskForce == HomeFleet {
		return fmt.Errorf("plan to %s: %w", p.FinalDestination, ErrHomeFleet)
	}
	if len(p.Path) == 0 {
		return fmt.Errorf("plan for task force %d has no path: %w", p.TaskForce, ErrInvariant)
	}
	loc, ok := l.Location(p.TaskForce)
	if !ok {
		return fmt.Errorf("plan for task force %d: %w", p.TaskForce, ErrUnknownTaskForce)
	}
	if p.Current() != loc {
		return fmt.Errorf("plan for task force %d starts at %s but it is at %s: %w",
			p.TaskForce, p.Current(), loc, ErrLocationMismatch)
	}
	p.CanMoveThisTurn = !l.fresh[p.TaskForce]
	l.plans[p.TaskForce] = p
	l.stampDestination(p.TaskForce)
	return nil
}

// Plan returns the plan of a task force, or nil.
func (l *Ledger) Plan(id int) *MovementPlan {
	return l.plans[id]
}

// ClearPlan drops the plan of a task force.
func (l *Ledger) ClearPlan(id int) {
	delete(l.plans, id)
	l.stampDestination(id)
}

// Plans returns every plan in ascending task force order.
func (l *Ledger) Plans() []*MovementPlan {
	out := make([]*MovementPlan, 0, len(l.plans))
	for _, p := range l.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskForce < out[j].TaskForce })
	return out
}
