package hexgrid

// DefaultColumns matches the standard map, columns A through FF.
const DefaultColumns = 32

// Grid is a board with a fixed number of columns. Columns A, C, E... hold
// 21 rows and the columns between them hold 20, shifted half a hex down.
type Grid struct {
	Columns int
}

// NewGrid creates a board with the given column count.
func NewGrid(columns int) *Grid {
	if columns <= 0 {
		columns = DefaultColumns
	}
	return &Grid{Columns: columns}
}

// Rows returns the row count of a column.
func (g *Grid) Rows(col int) int {
	if col%2 == 0 {
		return 21
	}
	return 20
}

// Contains reports whether h lies on the board.
func (g *Grid) Contains(h Hex) bool {
	return h.Col >= 0 && h.Col < g.Columns && h.Row >= 0 && h.Row < g.Rows(h.Col)
}

// Adjacent returns the on-board neighbors of h in a fixed direction order.
func (g *Grid) Adjacent(h Hex) []Hex {
	c := h.cube()
	out := make([]Hex, 0, len(cubeDirections))
	for _, d := range cubeDirections {
		n := cube{x: c.x + d.x, y: c.y + d.y, z: c.z + d.z}.hex()
		if g.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// Diameter is an upper bound on the distance between any two board hexes.
func (g *Grid) Diameter() int {
	return g.Columns + 21
}

// All returns every board hex in lexicographic order.
func (g *Grid) All() []Hex {
	var out []Hex
	for col := 0; col < g.Columns; col++ {
		for row := 0; row < g.Rows(col); row++ {
			out = append(out, Hex{Col: col, Row: row})
		}
	}
	return out
}

// Path returns a shortest route from start to end, both included, or nil
// when end is off the board or farther than maxDist steps.
func (g *Grid) Path(start, end Hex, maxDist int) []Hex {
	if !g.Contains(start) || !g.Contains(end) {
		return nil
	}
	if start == end {
		return []Hex{start}
	}
	if Distance(start, end) > maxDist {
		return nil
	}

	parent := map[Hex]Hex{start: start}
	depth := map[Hex]int{start: 0}
	queue := []Hex{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if depth[cur] >= maxDist {
			continue
		}
		for _, n := range g.Adjacent(cur) {
			if _, seen := parent[n]; seen {
				continue
			}
			parent[n] = cur
			depth[n] = depth[cur] + 1
			if n == end {
				return unwind(parent, start, end)
			}
			queue = append(queue, n)
		}
	}
	return nil
}

func unwind(parent map[Hex]Hex, start, end Hex) []Hex {
	var rev []Hex
	for h := end; h != start; h = parent[h] {
		rev = append(rev, h)
	}
	rev = append(rev, start)
	path := make([]Hex, len(rev))
	for i, h := range rev {
		path[len(rev)-1-i] = h
	}
	return path
}
