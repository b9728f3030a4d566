package gamedata

import "errors"

// UnitKind separates mobile ships from fixed colony defenses.
type UnitKind string

const (
	KindShip UnitKind = "ship"
	KindBase UnitKind = "base"
)

// UnitDef describes a buildable unit loaded from JSON.
type UnitDef struct {
	ID    string   `json:"id"`    // Unique identifier matching entity.ShipType.ID or a defense id
	Name  string   `json:"name"`  // Display name
	Kind  UnitKind `json:"kind"`  // ship or base
	Armed bool     `json:"armed"` // Whether the unit can attack
	Cost  int      `json:"cost"`  // Production cost in credits
}

// UnitsFile represents the structure of units.json.
type UnitsFile struct {
	Units []UnitDef `json:"units"`
}

// LoadUnits loads unit definitions from the embedded units.json file.
func LoadUnits() ([]UnitDef, error) {
	file, err := Load[UnitsFile]("units.json")
	if err != nil {
		return nil, err
	}
	return file.Units, nil
}

// UnitRegistry holds loaded unit definitions keyed by id.
type UnitRegistry struct {
	units map[string]*UnitDef
	all   []UnitDef
}

// NewUnitRegistry creates a registry from loaded unit definitions.
func NewUnitRegistry(units []UnitDef) *UnitRegistry {
	registry := &UnitRegistry{
		units: make(map[string]*UnitDef, len(units)),
		all:   units,
	}
	for i := range units {
		registry.units[units[i].ID] = &units[i]
	}
	return registry
}

// LoadUnitRegistry loads and creates a registry from the embedded units.json.
func LoadUnitRegistry() (*UnitRegistry, error) {
	units, err := LoadUnits()
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, errors.New("no units loaded from units.json")
	}
	return NewUnitRegistry(units), nil
}

// MustLoadUnitRegistry loads a registry, panicking on error.
func MustLoadUnitRegistry() *UnitRegistry {
	registry, err := LoadUnitRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the unit definition with the given ID, or nil if not found.
func (r *UnitRegistry) GetByID(id string) *UnitDef {
	return r.units[id]
}

// Cost returns the build cost of a unit, or false for unknown ids.
func (r *UnitRegistry) Cost(id string) (int, bool) {
	u := r.units[id]
	if u == nil {
		return 0, false
	}
	return u.Cost, true
}

// All returns all unit definitions.
func (r *UnitRegistry) All() []UnitDef {
	return r.all
}

// Count returns the number of units in the registry.
func (r *UnitRegistry) Count() int {
	return len(r.all)
}
