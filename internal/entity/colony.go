package entity

import "github.com/samdwyer/hexfleet/internal/hexgrid"

// Defenses are the fixed missile installations of a colony.
type Defenses struct {
	MissileBases         int
	AdvancedMissileBases int
}

// Classes returns how many distinct missile base classes are present.
func (d Defenses) Classes() int {
	n := 0
	if d.MissileBases > 0 {
		n++
	}
	if d.AdvancedMissileBases > 0 {
		n++
	}
	return n
}

// Colony is a settled planet. Population is in millions.
type Colony struct {
	Ownership
	Location
	Planet     string
	Population int
	Defenses   Defenses
}

// NewColony creates a colony.
func NewColony(owner int, at hexgrid.Hex, planet string, population int) *Colony {
	return &Colony{
		Ownership:  Ownership{Owner: owner},
		Location:   Location{Hex: at},
		Planet:     planet,
		Population: population,
	}
}

// Alive reports whether anyone still lives there.
func (c *Colony) Alive() bool {
	return c.Population > 0
}
