package scenario

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samdwyer/hexfleet/internal/dice"
	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
)

const small = `
name: Skirmish
columns: 12
stars:
  - name: Sol
    hex: C3
    planets:
      - {name: Sol III, class: terran}
      - {name: Sol IV, class: minimal_terran, capacity: 8}
players:
  - id: 1
    name: Red
    entry: A1
    speed: 3
    credits: 5
    command_posts: [C3]
    fleet: {scout: 2, corvette: 1}
    colonies:
      - {hex: C3, planet: Sol IV, population: 20}
  - id: 2
    name: Blue
    entry: L10
    fleet: {colony_transport: 4}
`

func TestLoadAndBuild(t *testing.T) {
	f, err := Load(strings.NewReader(small))
	require.NoError(t, err)
	require.Equal(t, "Skirmish", f.Name)

	galaxy, setups, err := f.Build(context.Background(), dice.NewRoller(1))
	require.NoError(t, err)
	require.Equal(t, 12, galaxy.Grid.Columns)

	sol, ok := galaxy.Star(hexgrid.MustParse("C3"))
	require.True(t, ok)
	require.Len(t, sol.Planets, 2)
	require.Equal(t, 60, sol.Planets[0].Capacity, "class default")
	require.Equal(t, 8, sol.Planets[1].Capacity)

	require.Len(t, setups, 2)
	red := setups[0].Player
	require.Equal(t, 3, red.Speed)
	require.Equal(t, 5, red.Credits)
	require.Equal(t, []hexgrid.Hex{hexgrid.MustParse("C3")}, red.CommandPosts)
	require.Equal(t, 2, setups[0].Fleet[entity.Scout])
	require.Equal(t, entity.DefaultSpeed, setups[1].Player.Speed)
	require.Equal(t, 4, setups[1].Fleet[entity.ColonyTransport])

	colonies := galaxy.ColoniesOf(1)
	require.Len(t, colonies, 1)
	require.Equal(t, 8, colonies[0].Population, "capped at capacity")
	require.True(t, galaxy.HasOpenPlanet(hexgrid.MustParse("C3")), "Sol III is still open")
}

func TestRejectsBadScenarios(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "name: x\nplanets: 3\nplayers: []\n"},
		{"no players", "name: x\n"},
		{"zero player id", "players:\n  - {id: 0, name: a, entry: A1}\n"},
		{"missing player id", "players:\n  - {name: a, entry: A1}\n"},
		{"bad hex", "players:\n  - {id: 1, name: a, entry: '9Z'}\n"},
		{"bad ship", "players:\n  - {id: 1, name: a, entry: A1, fleet: {dreadnought: 1}}\n"},
		{"bad class", "stars:\n  - {name: s, hex: C3, planets: [{name: p, class: gas}]}\nplayers:\n  - {id: 1, name: a, entry: A1}\n"},
		{"colony without star", "players:\n  - {id: 1, name: a, entry: A1, colonies: [{hex: C3, planet: p, population: 1}]}\n"},
		{"off board star", "columns: 4\nstars:\n  - {name: s, hex: K3}\nplayers:\n  - {id: 1, name: a, entry: A1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Load(strings.NewReader(tt.yaml))
			if err != nil {
				return
			}
			_, _, err = f.Build(context.Background(), dice.NewRoller(1))
			require.Error(t, err)
		})
	}
}

func TestPlayerIDMustBePositive(t *testing.T) {
	f, err := Load(strings.NewReader("players:\n  - {id: 0, name: a, entry: A1}\n"))
	require.NoError(t, err)
	_, _, err = f.Build(context.Background(), dice.NewRoller(1))
	require.ErrorIs(t, err, ErrInvalid)
	require.ErrorContains(t, err, "positive id")
}

func TestDefaultScenario(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	galaxy, setups, err := f.Build(context.Background(), dice.NewRoller(9))
	require.NoError(t, err)
	require.Len(t, setups, 3)
	require.Greater(t, len(galaxy.Stars()), len(f.Stars), "generated stars are added")
	for _, s := range setups {
		require.Len(t, galaxy.ColoniesOf(s.Player.ID), 1)
		require.False(t, galaxy.IsStarHex(s.Player.Entry))
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(small), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, f.Players, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
