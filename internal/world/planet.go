// Package world holds the galaxy board: star systems, planets, exploration
// state and colonies.
package world

// PlanetClass describes how well a planet supports colonists.
type PlanetClass int

const (
	Terran PlanetClass = iota
	SubTerran
	MinimalTerran
	Barren
)

// String returns the class identifier used in scenario files.
func (c PlanetClass) String() string {
	switch c {
	case Terran:
		return "terran"
	case SubTerran:
		return "sub_terran"
	case MinimalTerran:
		return "minimal_terran"
	case Barren:
		return "barren"
	default:
		return "unknown"
	}
}

// Habitable reports whether colonists can settle the class.
func (c PlanetClass) Habitable() bool {
	return c == Terran || c == SubTerran || c == MinimalTerran
}

// DefaultCapacity is the population ceiling, in millions, for a class.
func (c PlanetClass) DefaultCapacity() int {
	switch c {
	case Terran:
		return 60
	case SubTerran:
		return 40
	case MinimalTerran:
		return 20
	default:
		return 0
	}
}

// ParsePlanetClass maps a scenario identifier to a class.
func ParsePlanetClass(s string) (PlanetClass, bool) {
	for _, c := range []PlanetClass{Terran, SubTerran, MinimalTerran, Barren} {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Planet is one body orbiting a star. ColonyOwner is 0 while unsettled.
type Planet struct {
	Name        string
	Class       PlanetClass
	Capacity    int
	ColonyOwner int
}

// Open reports whether the planet can still be colonized.
func (p *Planet) Open() bool {
	return p.Class.Habitable() && p.ColonyOwner == 0
}
