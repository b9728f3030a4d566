package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
)

var (
	// ErrOffBoard is returned for star systems placed outside the grid.
	ErrOffBoard = errors.New("hex is off the board")
	// ErrOccupied is returned when a hex already holds a star system.
	ErrOccupied = errors.New("hex already holds a star system")
	// ErrNoOpenPlanet is returned when a system has nothing left to colonize.
	ErrNoOpenPlanet = errors.New("no open habitable planet")
)

// Galaxy is the board state shared by every player.
type Galaxy struct {
	Grid     *hexgrid.Grid
	stars    map[hexgrid.Hex]*StarSystem
	order    []hexgrid.Hex
	explored map[int]map[hexgrid.Hex]bool
	colonies []*entity.Colony
}

// NewGalaxy creates an empty galaxy on grid.
func NewGalaxy(grid *hexgrid.Grid) *Galaxy {
	return &Galaxy{
		Grid:     grid,
		stars:    make(map[hexgrid.Hex]*StarSystem),
		explored: make(map[int]map[hexgrid.Hex]bool),
	}
}

// AddStar places a star system.
func (g *Galaxy) AddStar(s *StarSystem) error {
	if !g.Grid.Contains(s.Hex) {
		return fmt.Errorf("star %s at %s: %w", s.Name, s.Hex, ErrOffBoard)
	}
	if _, ok := g.stars[s.Hex]; ok {
		return fmt.Errorf("star %s at %s: %w", s.Name, s.Hex, ErrOccupied)
	}
	g.stars[s.Hex] = s
	i := sort.Search(len(g.order), func(i int) bool { return s.Hex.Less(g.order[i]) })
	g.order = append(g.order, hexgrid.Hex{})
	copy(g.order[i+1:], g.order[i:])
	g.order[i] = s.Hex
	return nil
}

// Star returns the system at h.
func (g *Galaxy) Star(h hexgrid.Hex) (*StarSystem, bool) {
	s, ok := g.stars[h]
	return s, ok
}

// IsStarHex reports whether h holds a star system.
func (g *Galaxy) IsStarHex(h hexgrid.Hex) bool {
	_, ok := g.stars[h]
	return ok
}

// Stars returns all systems in lexicographic hex order.
func (g *Galaxy) Stars() []*StarSystem {
	out := make([]*StarSystem, len(g.order))
	for i, h := range g.order {
		out[i] = g.stars[h]
	}
	return out
}

// Explore marks h explored for player and reports whether it was new.
func (g *Galaxy) Explore(player int, h hexgrid.Hex) bool {
	if !g.IsStarHex(h) {
		return false
	}
	seen := g.explored[player]
	if seen == nil {
		seen = make(map[hexgrid.Hex]bool)
		g.explored[player] = seen
	}
	if seen[h] {
		return false
	}
	seen[h] = true
	return true
}

// Explored reports whether player has explored h.
func (g *Galaxy) Explored(player int, h hexgrid.Hex) bool {
	return g.explored[player][h]
}

// ExploredCount returns how many systems player has explored.
func (g *Galaxy) ExploredCount(player int) int {
	return len(g.explored[player])
}

// HasOpenPlanet reports whether the system at h has an uncolonized
// habitable planet.
func (g *Galaxy) HasOpenPlanet(h hexgrid.Hex) bool {
	s, ok := g.stars[h]
	return ok && s.OpenPlanet() != nil
}

// Colonize settles the first open planet at h with up to transports
// million colonists. It returns the colony and the transports used.
func (g *Galaxy) Colonize(player int, h hexgrid.Hex, transports int) (*entity.Colony, int, error) {
	s, ok := g.stars[h]
	if !ok {
		return nil, 0, fmt.Errorf("colonize %s: %w", h, ErrNoOpenPlanet)
	}
	p := s.OpenPlanet()
	if p == nil || transports <= 0 {
		return nil, 0, fmt.Errorf("colonize %s: %w", h, ErrNoOpenPlanet)
	}

	used := min(transports, p.Capacity)
	p.ColonyOwner = player
	c := entity.NewColony(player, h, p.Name, used)
	g.colonies = append(g.colonies, c)
	return c, used, nil
}

// AddColony registers an existing colony, as loaded from a scenario.
func (g *Galaxy) AddColony(c *entity.Colony) error {
	s, ok := g.stars[c.Hex]
	if !ok {
		return fmt.Errorf("colony at %s: no star system", c.Hex)
	}
	p := s.Planet(c.Planet)
	if p == nil || !p.Open() {
		return fmt.Errorf("colony at %s: %w", c.Hex, ErrNoOpenPlanet)
	}
	p.ColonyOwner = c.Owner
	g.colonies = append(g.colonies, c)
	return nil
}

// Colonies returns every colony in founding order.
func (g *Galaxy) Colonies() []*entity.Colony {
	return g.colonies
}

// ColoniesOf returns the colonies owned by player.
func (g *Galaxy) ColoniesOf(player int) []*entity.Colony {
	var out []*entity.Colony
	for _, c := range g.colonies {
		if c.Owner == player {
			out = append(out, c)
		}
	}
	return out
}

// ColoniesAt returns the colonies in the system at h.
func (g *Galaxy) ColoniesAt(h hexgrid.Hex) []*entity.Colony {
	var out []*entity.Colony
	for _, c := range g.colonies {
		if c.Hex == h {
			out = append(out, c)
		}
	}
	return out
}

// NearestColony returns the colony of player closest to h, ties going to
// the earliest founded.
func (g *Galaxy) NearestColony(player int, h hexgrid.Hex) (*entity.Colony, int, bool) {
	var best *entity.Colony
	bestDist := 0
	for _, c := range g.ColoniesOf(player) {
		d := hexgrid.Distance(h, c.Hex)
		if best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist, best != nil
}

// Sweep removes dead colonies and frees their planets. It returns the
// number removed.
func (g *Galaxy) Sweep() int {
	kept := g.colonies[:0]
	removed := 0
	for _, c := range g.colonies {
		if c.Alive() {
			kept = append(kept, c)
			continue
		}
		if s, ok := g.stars[c.Hex]; ok {
			if p := s.Planet(c.Planet); p != nil {
				p.ColonyOwner = 0
			}
		}
		removed++
	}
	g.colonies = kept
	return removed
}
