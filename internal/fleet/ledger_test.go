package fleet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
)

var (
	home  = hexgrid.MustParse("A1")
	other = hexgrid.MustParse("C4")
)

func newHomeLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(1)
	require.NoError(t, l.Add(entity.Scout, 4, home, HomeFleet))
	require.NoError(t, l.Add(entity.Corvette, 5, home, HomeFleet))
	require.NoError(t, l.Add(entity.ColonyTransport, 35, home, HomeFleet))
	return l
}

func TestSplitMergeRoundTrip(t *testing.T) {
	l := newHomeLedger(t)

	id, moved := l.Split(HomeFleet, entity.Corvette, 2)
	require.NotEqual(t, HomeFleet, id)
	require.Equal(t, 2, moved)
	require.Equal(t, entity.Fleet{entity.Corvette: 2}, l.Composition(id))
	require.Equal(t, 3, l.Composition(HomeFleet)[entity.Corvette])

	require.NoError(t, l.Merge(id, HomeFleet))

	var corvettes []*entity.ShipGroup
	for _, g := range l.Groups() {
		if g.Type == entity.Corvette {
			corvettes = append(corvettes, g)
		}
	}
	require.Len(t, corvettes, 1, "merge must restore a single group")
	require.Equal(t, 5, corvettes[0].Count)
	require.Equal(t, HomeFleet, corvettes[0].TaskForce)
	require.Equal(t, []int{HomeFleet}, l.TaskForceIDs())
}

func TestSplitClampsShortfall(t *testing.T) {
	l := newHomeLedger(t)

	id, moved := l.Split(HomeFleet, entity.Scout, 10)
	require.Equal(t, 4, moved)
	require.Equal(t, 4, l.Composition(id)[entity.Scout])
	require.Zero(t, l.Composition(HomeFleet)[entity.Scout])

	id, moved = l.Split(HomeFleet, entity.DeathStar, 1)
	require.Zero(t, id)
	require.Zero(t, moved)
}

func TestSplitFleet(t *testing.T) {
	l := newHomeLedger(t)

	id, moved := l.SplitFleet(HomeFleet, entity.Fleet{entity.Corvette: 1, entity.ColonyTransport: 5, entity.Fighter: 2})
	require.Equal(t, entity.Fleet{entity.Corvette: 1, entity.ColonyTransport: 5}, moved)
	require.Equal(t, moved, l.Composition(id))
	require.Len(t, l.TaskForce(id), 2)
}

func TestTaskForcesNeverMixOnRelocate(t *testing.T) {
	l := newHomeLedger(t)

	a, _ := l.Split(HomeFleet, entity.Corvette, 1)
	b, _ := l.Split(HomeFleet, entity.Corvette, 1)
	require.NoError(t, l.Relocate(a, other))
	require.NoError(t, l.Relocate(b, other))

	require.Equal(t, []int{a, b}, l.TaskForcesAt(other))
	require.Len(t, l.TaskForce(a), 1)
	require.Len(t, l.TaskForce(b), 1)
	require.Equal(t, 2, l.ShipsAt(other)[entity.Corvette])
}

func TestHomeFleetCannotMove(t *testing.T) {
	l := newHomeLedger(t)

	err := l.Relocate(HomeFleet, other)
	require.ErrorIs(t, err, ErrHomeFleet)
	require.ErrorIs(t, err, ErrInvariant)

	err = l.SetPlan(NewPlan(HomeFleet, []hexgrid.Hex{home, other}))
	require.ErrorIs(t, err, ErrHomeFleet)

	err = l.Merge(HomeFleet, 7)
	require.ErrorIs(t, err, ErrHomeFleet)

	loc, ok := l.Location(HomeFleet)
	require.True(t, ok)
	require.Equal(t, home, loc)
}

func TestMergeRequiresSameHex(t *testing.T) {
	l := newHomeLedger(t)

	id, _ := l.Split(HomeFleet, entity.Scout, 1)
	require.NoError(t, l.Relocate(id, other))

	err := l.Merge(id, HomeFleet)
	require.ErrorIs(t, err, ErrLocationMismatch)

	err = l.Add(entity.Scout, 1, home, id)
	require.ErrorIs(t, err, ErrLocationMismatch)
}

func TestDestroyTakesLowestTaskForceFirst(t *testing.T) {
	l := newHomeLedger(t)

	a, _ := l.Split(HomeFleet, entity.Corvette, 2)
	b, _ := l.Split(HomeFleet, entity.Corvette, 2)
	require.NoError(t, l.Relocate(a, other))
	require.NoError(t, l.Relocate(b, other))

	require.Equal(t, 3, l.Destroy(other, entity.Corvette, 3))
	require.Zero(t, l.Composition(a)[entity.Corvette])
	require.Equal(t, 1, l.Composition(b)[entity.Corvette])

	require.Equal(t, 1, l.Destroy(other, entity.Corvette, 5), "losses clamp to ships present")
}

func TestSweepDropsEmptyPlans(t *testing.T) {
	l := newHomeLedger(t)

	id, _ := l.Split(HomeFleet, entity.Scout, 1)
	require.NoError(t, l.SetPlan(NewPlan(id, []hexgrid.Hex{home, hexgrid.MustParse("A2")})))
	require.NotNil(t, l.Plan(id))

	l.Destroy(home, entity.Scout, 4)
	require.Equal(t, 1, l.Sweep())
	require.Nil(t, l.Plan(id))
}

func TestCommissionedTaskForceWaitsOneTurn(t *testing.T) {
	l := newHomeLedger(t)

	id := l.Commission(entity.Fleet{entity.Corvette: 2}, other)
	require.True(t, l.Fresh(id))

	require.NoError(t, l.SetPlan(NewPlan(id, []hexgrid.Hex{other, hexgrid.MustParse("C5")})))
	require.False(t, l.Plan(id).CanMoveThisTurn)

	l.BeginTurn()
	require.False(t, l.Fresh(id))
	require.True(t, l.Plan(id).CanMoveThisTurn)
}

func TestSetPlanMustStartAtTaskForce(t *testing.T) {
	l := newHomeLedger(t)
	id, _ := l.Split(HomeFleet, entity.Scout, 1)

	err := l.SetPlan(NewPlan(id, []hexgrid.Hex{other, hexgrid.MustParse("C5")}))
	require.ErrorIs(t, err, ErrLocationMismatch)
}

func TestGroupsCarryPlannedDestination(t *testing.T) {
	l := NewLedger(1)
	a1, a4 := hexgrid.MustParse("A1"), hexgrid.MustParse("A4")
	require.NoError(t, l.Add(entity.Corvette, 3, a1, HomeFleet))
	id, _ := l.Split(HomeFleet, entity.Corvette, 2)

	require.NoError(t, l.SetPlan(NewPlan(id, []hexgrid.Hex{a1, hexgrid.MustParse("A2"), hexgrid.MustParse("A3"), a4})))
	groups := l.TaskForce(id)
	require.Len(t, groups, 1)
	require.NotNil(t, groups[0].Destination)
	require.Equal(t, a4, *groups[0].Destination)

	require.NoError(t, l.Add(entity.Corvette, 1, a1, id))
	groups = l.TaskForce(id)
	require.Len(t, groups, 1, "ships joining a planned task force share its group")
	require.Equal(t, 3, groups[0].Count)

	l.ClearPlan(id)
	require.Nil(t, l.TaskForce(id)[0].Destination)
	require.Nil(t, l.TaskForce(HomeFleet)[0].Destination)
}
