// Package hexgrid implements the offset hex board: coordinates, adjacency,
// distance and bounded pathfinding.
package hexgrid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// ErrBadCoordinate is returned when a hex label cannot be parsed.
var ErrBadCoordinate = errors.New("bad hex coordinate")

// Hex is a board position. Col and Row are 0-based; the label form is
// column letters followed by a 1-based row, e.g. "A1" or "BB12".
type Hex struct {
	Col int
	Row int
}

// String returns the board label for the hex.
func (h Hex) String() string {
	return columnLabel(h.Col) + strconv.Itoa(h.Row+1)
}

// Less orders hexes lexicographically by column, then row.
func (h Hex) Less(o Hex) bool {
	if h.Col != o.Col {
		return h.Col < o.Col
	}
	return h.Row < o.Row
}

// Parse converts a label like "C7" into a Hex.
func Parse(label string) (Hex, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	i := 0
	for i < len(label) && label[i] >= 'A' && label[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(label) {
		return Hex{}, fmt.Errorf("%w: %q", ErrBadCoordinate, label)
	}

	col, err := columnIndex(label[:i])
	if err != nil {
		return Hex{}, fmt.Errorf("%w: %q", err, label)
	}
	row, err := strconv.Atoi(label[i:])
	if err != nil || row < 1 {
		return Hex{}, fmt.Errorf("%w: %q", ErrBadCoordinate, label)
	}
	return Hex{Col: col, Row: row - 1}, nil
}

// MustParse is Parse for labels known to be valid, panicking otherwise.
func MustParse(label string) Hex {
	h, err := Parse(label)
	if err != nil {
		panic(err)
	}
	return h
}

// Columns past Z repeat the letter: AA, BB, CC...
func columnLabel(col int) string {
	letter := string(rune('A' + col%26))
	return strings.Repeat(letter, col/26+1)
}

func columnIndex(letters string) (int, error) {
	for i := 1; i < len(letters); i++ {
		if letters[i] != letters[0] {
			return 0, ErrBadCoordinate
		}
	}
	return int(letters[0]-'A') + 26*(len(letters)-1), nil
}

// cube coordinates for the odd-q vertical layout.
type cube struct {
	x, y, z int
}

func (h Hex) cube() cube {
	x := h.Col
	z := h.Row - (h.Col-(h.Col&1))/2
	return cube{x: x, y: -x - z, z: z}
}

func (c cube) hex() Hex {
	return Hex{Col: c.x, Row: c.z + (c.x-(c.x&1))/2}
}

var cubeDirections = [6]cube{
	{x: 0, y: 1, z: -1},  // north
	{x: 1, y: 0, z: -1},  // north-east
	{x: 1, y: -1, z: 0},  // south-east
	{x: 0, y: -1, z: 1},  // south
	{x: -1, y: 0, z: 1},  // south-west
	{x: -1, y: 1, z: 0},  // north-west
}

func abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Distance returns the number of hex steps between a and b.
func Distance(a, b Hex) int {
	ca, cb := a.cube(), b.cube()
	return max(abs(ca.x-cb.x), abs(ca.y-cb.y), abs(ca.z-cb.z))
}
