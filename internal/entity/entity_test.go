package entity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samdwyer/hexfleet/internal/gamedata"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
)

func TestShipTypesMatchCatalog(t *testing.T) {
	units := gamedata.MustLoadUnitRegistry()

	for _, st := range AllShipTypes() {
		t.Run(st.ID(), func(t *testing.T) {
			def := units.GetByID(st.ID())
			require.NotNil(t, def, "catalog entry for %s", st)
			require.Equal(t, gamedata.KindShip, def.Kind)
			require.Equal(t, def.Armed, st.Armed())
			require.Equal(t, def.Name, st.String())

			parsed, err := ParseShipType(st.ID())
			require.NoError(t, err)
			require.Equal(t, st, parsed)
		})
	}
}

func TestUnknownShipType(t *testing.T) {
	_, err := ParseShipType("dreadnought")
	require.Error(t, err)

	bogus := ShipType(99)
	require.Equal(t, "unknown", bogus.ID())
	require.Panics(t, func() { bogus.Armed() })
}

func TestFleetCounts(t *testing.T) {
	f := Fleet{Scout: 2, Corvette: 3}
	f.Add(Fleet{ColonyTransport: 5, Corvette: 1})

	require.Equal(t, 11, f.Total())
	require.Equal(t, 4, f.Warships())
	require.Equal(t, 7, f.Unarmed())
}

func TestDefenseClasses(t *testing.T) {
	require.Equal(t, 0, Defenses{}.Classes())
	require.Equal(t, 1, Defenses{MissileBases: 3}.Classes())
	require.Equal(t, 2, Defenses{MissileBases: 1, AdvancedMissileBases: 1}.Classes())
}

func TestPlayerAnchors(t *testing.T) {
	p := NewPlayer(1, "Red", hexgrid.MustParse("A1"))
	p.CommandPosts = []hexgrid.Hex{hexgrid.MustParse("F6")}

	require.Equal(t, []hexgrid.Hex{hexgrid.MustParse("F6"), hexgrid.MustParse("A1")}, p.Anchors())
	require.Equal(t, DefaultSpeed, p.Speed)
}
