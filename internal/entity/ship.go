// Package entity provides the ships, colonies and players of a game.
package entity

import (
	"fmt"

	"github.com/samdwyer/hexfleet/internal/hexgrid"
)

// ShipType is the closed set of ship classes. Every switch over ShipType
// must name each constant; an unhandled value panics.
type ShipType int

const (
	Scout ShipType = iota
	ColonyTransport
	Corvette
	Fighter
	DeathStar
)

// AllShipTypes lists ship types in their canonical order.
func AllShipTypes() []ShipType {
	return []ShipType{Scout, ColonyTransport, Corvette, Fighter, DeathStar}
}

// String returns the display name.
func (t ShipType) String() string {
	switch t {
	case Scout:
		return "Scout"
	case ColonyTransport:
		return "Colony Transport"
	case Corvette:
		return "Corvette"
	case Fighter:
		return "Fighter"
	case DeathStar:
		return "Death Star"
	default:
		return "Unknown"
	}
}

// ID returns the identifier used by the unit catalog and attack table.
func (t ShipType) ID() string {
	switch t {
	case Scout:
		return "scout"
	case ColonyTransport:
		return "colony_transport"
	case Corvette:
		return "corvette"
	case Fighter:
		return "fighter"
	case DeathStar:
		return "death_star"
	default:
		return "unknown"
	}
}

// Armed reports whether the ship type can attack.
func (t ShipType) Armed() bool {
	switch t {
	case Scout, ColonyTransport:
		return false
	case Corvette, Fighter, DeathStar:
		return true
	default:
		panic(fmt.Sprintf("entity: unhandled ship type %d", int(t)))
	}
}

// ParseShipType maps a catalog id back to its ShipType.
func ParseShipType(id string) (ShipType, error) {
	for _, t := range AllShipTypes() {
		if t.ID() == id {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown ship type %q", id)
}

// Ownership ties an entity to a player.
type Ownership struct {
	Owner int
}

// Location places an entity on the board.
type Location struct {
	Hex hexgrid.Hex
}

// ShipGroup is a count of identical ships travelling together. Groups with
// different task forces never merge even when everything else matches.
type ShipGroup struct {
	Ownership
	Location
	Type        ShipType
	Count       int
	TaskForce   int
	Destination *hexgrid.Hex
}

// Fleet is a ship count per type.
type Fleet map[ShipType]int

// Total returns the number of ships.
func (f Fleet) Total() int {
	n := 0
	for _, c := range f {
		n += c
	}
	return n
}

// Warships returns the number of armed ships.
func (f Fleet) Warships() int {
	n := 0
	for t, c := range f {
		if t.Armed() {
			n += c
		}
	}
	return n
}

// Unarmed returns the number of ships that cannot attack.
func (f Fleet) Unarmed() int {
	return f.Total() - f.Warships()
}

// Add merges other into f.
func (f Fleet) Add(other Fleet) {
	for t, c := range other {
		f[t] += c
	}
}
