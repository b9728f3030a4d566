package world

import "github.com/samdwyer/hexfleet/internal/hexgrid"

// StarColor is the spectral color printed on the map.
type StarColor string

const (
	Yellow StarColor = "yellow"
	Red    StarColor = "red"
	Orange StarColor = "orange"
	Green  StarColor = "green"
	Blue   StarColor = "blue"
)

var starColors = []StarColor{Yellow, Red, Orange, Green, Blue}

// StarSystem is a star hex and its planets.
type StarSystem struct {
	Name    string
	Hex     hexgrid.Hex
	Color   StarColor
	Planets []*Planet
}

// OpenPlanet returns the first planet that can still be colonized.
func (s *StarSystem) OpenPlanet() *Planet {
	for _, p := range s.Planets {
		if p.Open() {
			return p
		}
	}
	return nil
}

// Planet returns the named planet, or nil.
func (s *StarSystem) Planet(name string) *Planet {
	for _, p := range s.Planets {
		if p.Name == name {
			return p
		}
	}
	return nil
}
