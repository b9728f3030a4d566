package hexgrid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	tests := []struct {
		label string
		want  Hex
	}{
		{"A1", Hex{Col: 0, Row: 0}},
		{"b20", Hex{Col: 1, Row: 19}},
		{"Z3", Hex{Col: 25, Row: 2}},
		{"AA1", Hex{Col: 26, Row: 0}},
		{"FF21", Hex{Col: 31, Row: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := Parse(tt.label)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, strings.ToUpper(tt.label), got.String())
		})
	}

	require.Equal(t, "BB12", Hex{Col: 27, Row: 11}.String())
}

func TestParseRejectsBadLabels(t *testing.T) {
	for _, label := range []string{"", "12", "A", "A0", "AB3", "A-1"} {
		_, err := Parse(label)
		require.ErrorIs(t, err, ErrBadCoordinate, "label %q", label)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"A1", "A1", 0},
		{"A1", "A2", 1},
		{"A1", "B1", 1},
		{"A2", "B1", 1},
		{"A1", "C1", 2},
		{"A1", "A10", 9},
		{"C5", "F7", 4},
	}

	for _, tt := range tests {
		t.Run(tt.a+"-"+tt.b, func(t *testing.T) {
			a, b := MustParse(tt.a), MustParse(tt.b)
			require.Equal(t, tt.want, Distance(a, b))
			require.Equal(t, tt.want, Distance(b, a), "distance must be symmetric")
		})
	}
}

func TestAdjacent(t *testing.T) {
	g := NewGrid(DefaultColumns)

	corner := g.Adjacent(MustParse("A1"))
	require.ElementsMatch(t, []Hex{MustParse("A2"), MustParse("B1")}, corner)

	inner := g.Adjacent(MustParse("D5"))
	require.Len(t, inner, 6)
	for _, n := range inner {
		require.Equal(t, 1, Distance(MustParse("D5"), n))
	}
}

func TestRowsAlternate(t *testing.T) {
	g := NewGrid(4)
	require.Equal(t, 21, g.Rows(0))
	require.Equal(t, 20, g.Rows(1))
	require.True(t, g.Contains(MustParse("A21")))
	require.False(t, g.Contains(MustParse("B21")))
	require.False(t, g.Contains(MustParse("E1")))
	require.Len(t, g.All(), 21+20+21+20)
}

func TestPath(t *testing.T) {
	g := NewGrid(DefaultColumns)
	start, end := MustParse("B2"), MustParse("H6")

	path := g.Path(start, end, g.Diameter())
	require.NotNil(t, path)
	require.Equal(t, start, path[0])
	require.Equal(t, end, path[len(path)-1])
	require.Len(t, path, Distance(start, end)+1)
	for i := 1; i < len(path); i++ {
		require.Equal(t, 1, Distance(path[i-1], path[i]))
	}

	again := g.Path(start, end, g.Diameter())
	require.Equal(t, path, again, "paths must be deterministic")
}

func TestPathLimits(t *testing.T) {
	g := NewGrid(DefaultColumns)

	require.Nil(t, g.Path(MustParse("A1"), MustParse("A10"), 3))
	require.Nil(t, g.Path(MustParse("A1"), Hex{Col: 40, Row: 0}, 100))
	require.Equal(t, []Hex{MustParse("C3")}, g.Path(MustParse("C3"), MustParse("C3"), 0))
}
