package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samdwyer/hexfleet/internal/actionlog"
	"github.com/samdwyer/hexfleet/internal/combat"
	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/fleet"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
	"github.com/samdwyer/hexfleet/internal/world"
)

// scripted replays fixed orders keyed by turn.
type scripted struct {
	moves  map[int][]MoveOrder
	builds []BuildOrder
}

func (s *scripted) MovementOrders(v View) []MoveOrder { return s.moves[v.Turn] }
func (s *scripted) BuildOrders(View) []BuildOrder     { return s.builds }

func newGalaxy(t *testing.T, stars ...string) *world.Galaxy {
	t.Helper()
	g := world.NewGalaxy(hexgrid.NewGrid(hexgrid.DefaultColumns))
	for _, label := range stars {
		require.NoError(t, g.AddStar(&world.StarSystem{
			Name: label,
			Hex:  hexgrid.MustParse(label),
			Planets: []*world.Planet{
				{Name: label + " I", Class: world.Terran, Capacity: 60},
			},
		}))
	}
	return g
}

func setup(id int, entry string, ships entity.Fleet, cmd Commander) PlayerSetup {
	return PlayerSetup{
		Player:    entity.NewPlayer(id, entry, hexgrid.MustParse(entry)),
		Fleet:     ships,
		Commander: cmd,
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 7
	return cfg
}

func TestPhaseCycle(t *testing.T) {
	ctx := context.Background()
	g, err := New(testConfig(), newGalaxy(t), []PlayerSetup{
		setup(1, "A1", entity.Fleet{entity.Scout: 1}, nil),
		setup(2, "P10", entity.Fleet{entity.Scout: 1}, nil),
	})
	require.NoError(t, err)

	want := []struct {
		phase  Phase
		player int
	}{
		{PhaseMovement, 1}, {PhaseMovement, 2},
		{PhaseExploration, 1}, {PhaseExploration, 2},
		{PhaseColonization, 1}, {PhaseColonization, 2},
		{PhaseCombat, 1}, {PhaseCombat, 2},
		{PhaseProduction, 1}, {PhaseProduction, 2},
	}
	for _, w := range want {
		res, err := g.Step(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, res.Turn)
		require.Equal(t, w.phase, res.Phase)
		require.Equal(t, w.player, res.Player)
		require.Equal(t, w.phase != PhaseCombat, res.Yield)
	}
	require.Equal(t, 2, g.Turn())
	require.Equal(t, PhaseMovement, g.Phase())
	require.Equal(t, 1, g.Current().ID)
	require.Len(t, g.History(), 1)
}

func TestPhaseNext(t *testing.T) {
	require.Equal(t, PhaseExploration, PhaseMovement.Next())
	require.Equal(t, PhaseMovement, PhaseProduction.Next())
	require.False(t, PhaseCombat.RequiresInput())
	require.Equal(t, "colonization", PhaseColonization.String())
}

func TestProductionEveryFourTurns(t *testing.T) {
	ctx := context.Background()
	g, err := New(testConfig(), newGalaxy(t), []PlayerSetup{
		setup(1, "A1", entity.Fleet{entity.Scout: 1}, nil),
		setup(2, "P10", entity.Fleet{entity.Scout: 1}, nil),
	})
	require.NoError(t, err)

	g.turn = 3
	for i := 0; i < 4; i++ {
		require.NoError(t, g.AdvanceTurn(ctx))
	}
	require.Equal(t, 7, g.Turn())
	require.Equal(t, 1, g.ProductionRuns())

	var production []int
	for _, s := range g.History() {
		if s.Production {
			production = append(production, s.Turn)
		}
	}
	require.Equal(t, []int{4}, production)
}

func TestEliminatedPlayersAreSkipped(t *testing.T) {
	ctx := context.Background()
	g, err := New(testConfig(), newGalaxy(t), []PlayerSetup{
		setup(1, "A1", entity.Fleet{entity.Scout: 1}, nil),
		setup(2, "H8", entity.Fleet{}, nil),
		setup(3, "P10", entity.Fleet{entity.Scout: 1}, nil),
	})
	require.NoError(t, err)

	require.NoError(t, g.AdvanceTurn(ctx))
	require.True(t, g.Player(2).Eliminated)
	require.False(t, g.Over())

	var order []int
	for i := 0; i < 4; i++ {
		res, err := g.Step(ctx)
		require.NoError(t, err)
		order = append(order, res.Player)
	}
	require.Equal(t, []int{1, 3, 1, 3}, order)
}

func TestLastPlayerStandingWins(t *testing.T) {
	g, err := New(testConfig(), newGalaxy(t), []PlayerSetup{
		setup(1, "A1", entity.Fleet{entity.Scout: 1}, nil),
		setup(2, "H8", entity.Fleet{}, nil),
	})
	require.NoError(t, err)

	require.NoError(t, g.AdvanceTurn(context.Background()))
	require.True(t, g.Over())
	require.Equal(t, 1, g.Winner())

	_, err = g.Step(context.Background())
	require.ErrorIs(t, err, ErrGameOver)
}

func TestTurnLimitEndsGame(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTurns = 3
	g, err := New(cfg, newGalaxy(t), []PlayerSetup{
		setup(1, "A1", entity.Fleet{entity.Scout: 1}, nil),
		setup(2, "P10", entity.Fleet{entity.Scout: 1}, nil),
	})
	require.NoError(t, err)

	require.NoError(t, g.Run(context.Background()))
	require.True(t, g.Over())
	require.Equal(t, 4, g.Turn())
}

func TestHomeFleetNeverMoves(t *testing.T) {
	ctx := context.Background()
	cmd := &scripted{moves: map[int][]MoveOrder{
		1: {{TaskForce: fleet.HomeFleet, Ships: entity.Fleet{entity.Corvette: 1}, Destination: hexgrid.MustParse("A6")}},
	}}
	g, err := New(testConfig(), newGalaxy(t), []PlayerSetup{
		setup(1, "A1", entity.Fleet{entity.Corvette: 3}, cmd),
		setup(2, "P10", entity.Fleet{entity.Scout: 1}, nil),
	})
	require.NoError(t, err)

	for g.Turn() < 4 {
		_, err := g.Step(ctx)
		require.NoError(t, err)
		home, ok := g.Ledger(1).Location(fleet.HomeFleet)
		require.True(t, ok)
		require.Equal(t, hexgrid.MustParse("A1"), home)
	}
	require.Equal(t, 2, g.Ledger(1).Composition(fleet.HomeFleet)[entity.Corvette])

	ids := g.Ledger(1).TaskForceIDs()
	require.Len(t, ids, 2)
	loc, _ := g.Ledger(1).Location(ids[1])
	require.Equal(t, hexgrid.MustParse("A6"), loc)
}

func TestOrderingHomeFleetHaltsStep(t *testing.T) {
	cmd := &scripted{moves: map[int][]MoveOrder{
		1: {{TaskForce: fleet.HomeFleet, Destination: hexgrid.MustParse("A6")}},
	}}
	g, err := New(testConfig(), newGalaxy(t), []PlayerSetup{
		setup(1, "A1", entity.Fleet{entity.Corvette: 3}, cmd),
	})
	require.NoError(t, err)

	_, err = g.Step(context.Background())
	require.ErrorIs(t, err, fleet.ErrInvariant)
}

func TestColonizeGrowAndBuild(t *testing.T) {
	ctx := context.Background()
	cmd := &scripted{builds: []BuildOrder{
		{At: hexgrid.MustParse("C3"), Unit: "corvette", Count: 5},
		{At: hexgrid.MustParse("C3"), Unit: "missile_base", Count: 1},
		{At: hexgrid.MustParse("H8"), Unit: "corvette", Count: 1},
	}}
	red := setup(1, "C3", entity.Fleet{entity.ColonyTransport: 5, entity.Corvette: 1}, cmd)
	red.Player.Credits = 20
	g, err := New(testConfig(), newGalaxy(t, "C3"), []PlayerSetup{
		red,
		setup(2, "P10", entity.Fleet{entity.Scout: 1}, nil),
	})
	require.NoError(t, err)

	for g.Turn() < 4 {
		_, err := g.Step(ctx)
		require.NoError(t, err)
	}

	colonies := g.Galaxy().ColoniesOf(1)
	require.Len(t, colonies, 1)
	c := colonies[0]
	// founded with 5, grown by one on turn 4
	require.Equal(t, 6, c.Population)
	require.Equal(t, 0, g.Ledger(1).Counts()[entity.ColonyTransport], "transports are consumed")

	// 20 + 6 income = 26; three corvettes cost 24; the base is unaffordable
	require.Equal(t, 2, red.Player.Credits)
	require.Equal(t, 0, c.Defenses.MissileBases)

	ids := g.Ledger(1).TaskForceIDs()
	require.Len(t, ids, 2)
	require.Equal(t, 3, g.Ledger(1).Composition(ids[1]).Total())
	require.True(t, g.Ledger(1).Fresh(ids[1]))
	require.True(t, g.Galaxy().Explored(1, hexgrid.MustParse("C3")))
}

func TestUnarmedMeetingRedirectsBoth(t *testing.T) {
	ctx := context.Background()
	rec := actionlog.NewRecorder()
	g, err := New(testConfig(), newGalaxy(t, "E5", "C3", "H6"), []PlayerSetup{
		setup(1, "A1", entity.Fleet{entity.Scout: 2}, nil),
		setup(2, "K9", entity.Fleet{entity.Scout: 2}, nil),
	}, WithSink(rec))
	require.NoError(t, err)

	e5 := hexgrid.MustParse("E5")
	for _, l := range []*fleet.Ledger{g.Ledger(1), g.Ledger(2)} {
		id, _ := l.Split(fleet.HomeFleet, entity.Scout, 1)
		require.NoError(t, l.Relocate(id, e5))
	}

	engaged, err := g.ResolveCombat(ctx, 1, 1)
	require.NoError(t, err)
	require.True(t, engaged)

	for _, l := range []*fleet.Ledger{g.Ledger(1), g.Ledger(2)} {
		plan := l.Plan(2)
		require.NotNil(t, plan, "player %d", l.Player())
		require.Equal(t, combat.MutualRetreat.String(), plan.RedirectOutcome)
		require.NotEqual(t, e5, plan.FinalDestination)
	}
	require.Len(t, rec.OfType(actionlog.TypeRedirect), 2)
	require.Empty(t, rec.OfType(actionlog.TypeLoss))
}

func TestSameSeedSameGame(t *testing.T) {
	play := func() []actionlog.Entry {
		rec := actionlog.NewRecorder()
		attack := &scripted{moves: map[int][]MoveOrder{
			1: {{TaskForce: fleet.HomeFleet, Ships: entity.Fleet{entity.Corvette: 3}, Destination: hexgrid.MustParse("C3")}},
		}}
		cfg := testConfig()
		cfg.MaxTurns = 6
		g, err := New(cfg, newGalaxy(t, "C3", "E6", "B6"), []PlayerSetup{
			setup(1, "A1", entity.Fleet{entity.Corvette: 4}, attack),
			setup(2, "C3", entity.Fleet{entity.Scout: 3, entity.ColonyTransport: 2}, nil),
		}, WithSink(rec))
		require.NoError(t, err)
		require.NoError(t, g.Run(context.Background()))
		return rec.Snapshot()
	}

	strip := func(entries []actionlog.Entry) []string {
		var out []string
		for _, e := range entries {
			out = append(out, string(e.Type)+"|"+e.Before+"|"+e.After)
		}
		return out
	}

	first, second := play(), play()
	require.NotEmpty(t, first)
	require.Equal(t, strip(first), strip(second))
}

func TestRejectsNonPositivePlayerID(t *testing.T) {
	for _, id := range []int{0, -1} {
		_, err := New(testConfig(), newGalaxy(t), []PlayerSetup{
			setup(id, "A1", entity.Fleet{entity.Scout: 1}, nil),
		})
		require.ErrorIs(t, err, ErrPlayerID)
	}
}
