// Package fleet tracks each player's ships grouped into task forces, and the
// movement plans that drive them.
package fleet

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
)

// HomeFleet is the task force every player starts with. It never moves.
const HomeFleet = 1

var (
	// ErrInvariant marks programming errors that must halt the current step.
	ErrInvariant = errors.New("fleet invariant violation")
	// ErrHomeFleet is returned for any attempt to move task force 1.
	ErrHomeFleet = fmt.Errorf("%w: home fleet cannot move", ErrInvariant)
	// ErrLocationMismatch is returned when one task force would span two hexes.
	ErrLocationMismatch = fmt.Errorf("%w: task force split across hexes", ErrInvariant)
	// ErrUnknownTaskForce is returned for ids with no ships.
	ErrUnknownTaskForce = fmt.Errorf("%w: unknown task force", ErrInvariant)
)

// Ledger is one player's task forces and movement plans.
// The owning player is the only writer, except for combat losses.
type Ledger struct {
	player int
	groups []*entity.ShipGroup
	plans  map[int]*MovementPlan
	fresh  map[int]bool
	nextID int
}

// NewLedger creates an empty ledger for player.
func NewLedger(player int) *Ledger {
	return &Ledger{
		player: player,
		plans:  make(map[int]*MovementPlan),
		fresh:  make(map[int]bool),
		nextID: HomeFleet + 1,
	}
}

// Player returns the owning player id.
func (l *Ledger) Player() int {
	return l.player
}

// Add places ships in a task force, creating the task force if needed.
func (l *Ledger) Add(t entity.ShipType, count int, at hexgrid.Hex, taskForce int) error {
	if count <= 0 {
		return nil
	}
	if loc, ok := l.Location(taskForce); ok && loc != at {
		return fmt.Errorf("add %d %s to task force %d at %s (it is at %s): %w",
			count, t, taskForce, at, loc, ErrLocationMismatch)
	}
	if taskForce >= l.nextID {
		l.nextID = taskForce + 1
	}
	l.addGroup(t, count, at, taskForce)
	return nil
}

// Commission creates a new task force from freshly built ships. It may not
// move until the next turn.
func (l *Ledger) Commission(ships entity.Fleet, at hexgrid.Hex) int {
	id := l.nextID
	l.nextID++
	for _, t := range entity.AllShipTypes() {
		if n := ships[t]; n > 0 {
			l.addGroup(t, n, at, id)
		}
	}
	l.fresh[id] = true
	return id
}

// addGroup merges into the group sharing type, location, task force and
// destination.
func (l *Ledger) addGroup(t entity.ShipType, count int, at hexgrid.Hex, taskForce int) {
	dest := l.destinationOf(taskForce)
	for _, g := range l.groups {
		if g.Type == t && g.Hex == at && g.TaskForce == taskForce && sameDestination(g.Destination, dest) {
			g.Count += count
			return
		}
	}
	l.groups = append(l.groups, &entity.ShipGroup{
		Ownership:   entity.Ownership{Owner: l.player},
		Location:    entity.Location{Hex: at},
		Type:        t,
		Count:       count,
		TaskForce:   taskForce,
		Destination: dest,
	})
}

func (l *Ledger) destinationOf(id int) *hexgrid.Hex {
	p := l.plans[id]
	if p == nil {
		return nil
	}
	d := p.FinalDestination
	return &d
}

// stampDestination writes the task force's planned destination onto each
// of its groups.
func (l *Ledger) stampDestination(id int) {
	for _, g := range l.groups {
		if g.TaskForce == id {
			g.Destination = l.destinationOf(id)
		}
	}
}

func sameDestination(a, b *hexgrid.Hex) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Groups returns every non-empty ship group.
func (l *Ledger) Groups() []*entity.ShipGroup {
	out := make([]*entity.ShipGroup, 0, len(l.groups))
	for _, g := range l.groups {
		if g.Count > 0 {
			out = append(out, g)
		}
	}
	return out
}

// TaskForce returns the groups of one task force.
func (l *Ledger) TaskForce(id int) []*entity.ShipGroup {
	var out []*entity.ShipGroup
	for _, g := range l.groups {
		if g.TaskForce == id && g.Count > 0 {
			out = append(out, g)
		}
	}
	return out
}

// TaskForceIDs returns the ids of task forces with ships, ascending.
func (l *Ledger) TaskForceIDs() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, g := range l.groups {
		if g.Count > 0 && !seen[g.TaskForce] {
			seen[g.TaskForce] = true
			ids = append(ids, g.TaskForce)
		}
	}
	sort.Ints(ids)
	return ids
}

// TaskForcesAt returns the ids of task forces at h, ascending.
func (l *Ledger) TaskForcesAt(h hexgrid.Hex) []int {
	var ids []int
	for _, id := range l.TaskForceIDs() {
		if loc, _ := l.Location(id); loc == h {
			ids = append(ids, id)
		}
	}
	return ids
}

// Location returns where a task force is.
func (l *Ledger) Location(id int) (hexgrid.Hex, bool) {
	for _, g := range l.groups {
		if g.TaskForce == id && g.Count > 0 {
			return g.Hex, true
		}
	}
	return hexgrid.Hex{}, false
}

// Composition returns the ship counts of one task force.
func (l *Ledger) Composition(id int) entity.Fleet {
	f := entity.Fleet{}
	for _, g := range l.TaskForce(id) {
		f[g.Type] += g.Count
	}
	return f
}

// ShipsAt returns the ship counts of every task force at h.
func (l *Ledger) ShipsAt(h hexgrid.Hex) entity.Fleet {
	f := entity.Fleet{}
	for _, g := range l.groups {
		if g.Hex == h && g.Count > 0 {
			f[g.Type] += g.Count
		}
	}
	return f
}

// Occupied returns the hexes holding ships, in lexicographic order.
func (l *Ledger) Occupied() []hexgrid.Hex {
	seen := make(map[hexgrid.Hex]bool)
	var out []hexgrid.Hex
	for _, g := range l.groups {
		if g.Count > 0 && !seen[g.Hex] {
			seen[g.Hex] = true
			out = append(out, g.Hex)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Counts returns the player's ship counts across all task forces.
func (l *Ledger) Counts() entity.Fleet {
	f := entity.Fleet{}
	for _, g := range l.groups {
		f[g.Type] += g.Count
	}
	return f
}

// Split moves up to count ships of type t from a task force into a new one
// at the same hex. Shortfalls are clamped; it returns the new id and the
// number moved, or 0, 0 when nothing could be moved.
func (l *Ledger) Split(from int, t entity.ShipType, count int) (int, int) {
	id, moved := l.SplitFleet(from, entity.Fleet{t: count})
	return id, moved[t]
}

// SplitFleet moves a set of ships out of a task force into one new task
// force. Shortfalls are clamped per type; it returns the new id and what
// was actually moved, or 0 and an empty fleet when nothing moved.
func (l *Ledger) SplitFleet(from int, ships entity.Fleet) (int, entity.Fleet) {
	moved := entity.Fleet{}
	id := l.nextID
	for _, t := range entity.AllShipTypes() {
		if ships[t] <= 0 {
			continue
		}
		for _, g := range l.groups {
			if g.TaskForce != from || g.Type != t || g.Count <= 0 {
				continue
			}
			n := min(ships[t]-moved[t], g.Count)
			g.Count -= n
			moved[t] += n
			l.addGroup(t, n, g.Hex, id)
			break
		}
	}
	if moved.Total() == 0 {
		return 0, moved
	}
	l.nextID++
	if l.fresh[from] {
		l.fresh[id] = true
	}
	return id, moved
}

// Merge folds task force src into dst. Both must be at the same hex and the
// home fleet cannot be merged away.
func (l *Ledger) Merge(src, dst int) error {
	if src == dst {
		return fmt.Errorf("merge task force %d into itself: %w", src, ErrInvariant)
	}
	if src == HomeFleet {
		return fmt.Errorf("merge away task force %d: %w", src, ErrHomeFleet)
	}
	srcLoc, ok := l.Location(src)
	if !ok {
		return fmt.Errorf("merge task force %d: %w", src, ErrUnknownTaskForce)
	}
	dstLoc, ok := l.Location(dst)
	if !ok {
		return fmt.Errorf("merge into task force %d: %w", dst, ErrUnknownTaskForce)
	}
	if srcLoc != dstLoc {
		return fmt.Errorf("merge task force %d at %s into %d at %s: %w", src, srcLoc, dst, dstLoc, ErrLocationMismatch)
	}

	for _, g := range l.TaskForce(src) {
		l.addGroup(g.Type, g.Count, dstLoc, dst)
		g.Count = 0
	}
	delete(l.plans, src)
	delete(l.fresh, src)
	l.compact()
	return nil
}

// Relocate moves every ship of a task force to h.
func (l *Ledger) Relocate(id int, to hexgrid.Hex) error {
	if id == HomeFleet {
		return fmt.Errorf("relocate to %s: %w", to, ErrHomeFleet)
	}
	if _, ok := l.Location(id); !ok {
		return fmt.Errorf("relocate task force %d: %w", id, ErrUnknownTaskForce)
	}
	for _, g := range l.groups {
		if g.TaskForce == id {
			g.Hex = to
		}
	}
	return nil
}

// Destroy removes up to count ships of type t at h, taking them from task
// forces in ascending id order. It returns the number removed.
func (l *Ledger) Destroy(at hexgrid.Hex, t entity.ShipType, count int) int {
	removed := 0
	for _, id := range l.TaskForcesAt(at) {
		removed += l.Remove(id, t, count-removed)
		if removed == count {
			break
		}
	}
	return removed
}

// Remove takes up to count ships of type t out of one task force. It
// returns the number removed.
func (l *Ledger) Remove(id int, t entity.ShipType, count int) int {
	removed := 0
	for _, g := range l.groups {
		if removed >= count {
			break
		}
		if g.TaskForce == id && g.Type == t && g.Count > 0 {
			n := min(count-removed, g.Count)
			g.Count -= n
			removed += n
		}
	}
	return removed
}

// Sweep drops empty groups and the plans of task forces that no longer
// have ships. It returns the number of plans dropped.
func (l *Ledger) Sweep() int {
	l.compact()
	dropped := 0
	for id := range l.plans {
		if _, ok := l.Location(id); !ok {
			delete(l.plans, id)
			dropped++
		}
	}
	for id := range l.fresh {
		if _, ok := l.Location(id); !ok {
			delete(l.fresh, id)
		}
	}
	return dropped
}

func (l *Ledger) compact() {
	kept := l.groups[:0]
	for _, g := range l.groups {
		if g.Count > 0 {
			kept = append(kept, g)
		}
	}
	l.groups = kept
}

// BeginTurn clears the freshly-built marks and lets every plan move again.
func (l *Ledger) BeginTurn() {
	clear(l.fresh)
	for _, p := range l.plans {
		p.CanMoveThisTurn = true
	}
}

// Fresh reports whether a task force was created by production this turn.
func (l *Ledger) Fresh(id int) bool {
	return l.fresh[id]
}
