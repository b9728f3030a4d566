// Package scenario loads YAML scenario files and sets up the board and
// players they describe.
package scenario

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samdwyer/hexfleet/data"
	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/game"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
	"github.com/samdwyer/hexfleet/internal/world"
)

// ErrInvalid is wrapped by every scenario validation error.
var ErrInvalid = errors.New("invalid scenario")

// File is the YAML layout of a scenario.
type File struct {
	Name     string   `yaml:"name"`
	Columns  int      `yaml:"columns"`
	Generate Generate `yaml:"generate,omitempty"`
	Stars    []Star   `yaml:"stars"`
	Players  []Player `yaml:"players"`
}

// Generate asks for extra random star systems on top of the listed ones.
type Generate struct {
	Stars int `yaml:"stars"`
}

type Star struct {
	Name    string   `yaml:"name"`
	Hex     string   `yaml:"hex"`
	Color   string   `yaml:"color,omitempty"`
	Planets []Planet `yaml:"planets,omitempty"`
}

type Planet struct {
	Name  string `yaml:"name"`
	Class string `yaml:"class"`
	// Capacity overrides the class default when set.
	Capacity int `yaml:"capacity,omitempty"`
}

type Player struct {
	ID           int            `yaml:"id"`
	Name         string         `yaml:"name"`
	Entry        string         `yaml:"entry"`
	Speed        int            `yaml:"speed,omitempty"`
	Credits      int            `yaml:"credits,omitempty"`
	CommandPosts []string       `yaml:"command_posts,omitempty"`
	Fleet        map[string]int `yaml:"fleet"`
	Colonies     []Colony       `yaml:"colonies,omitempty"`
}

type Colony struct {
	Hex        string `yaml:"hex"`
	Planet     string `yaml:"planet"`
	Population int    `yaml:"population"`
}

// Load decodes a scenario. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if f.Columns == 0 {
		f.Columns = hexgrid.DefaultColumns
	}
	return &f, nil
}

// LoadFile reads a scenario from disk.
func LoadFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return Load(bytes.NewReader(b))
}

// Default returns the embedded default scenario.
func Default() (*File, error) {
	b, err := data.FS().ReadFile(data.DefaultScenario)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded scenario: %w", err)
	}
	return Load(bytes.NewReader(b))
}

// Build creates the galaxy and player setups. Generated stars are drawn
// from rng and kept clear of every listed hex. Commanders are left for the
// caller to assign.
func (f *File) Build(ctx context.Context, rng world.Rand) (*world.Galaxy, []game.PlayerSetup, error) {
	if len(f.Players) == 0 {
		return nil, nil, fmt.Errorf("%w: no players", ErrInvalid)
	}
	galaxy := world.NewGalaxy(hexgrid.NewGrid(f.Columns))

	var reserved []hexgrid.Hex
	for _, s := range f.Stars {
		star, err := s.build()
		if err != nil {
			return nil, nil, err
		}
		if err := galaxy.AddStar(star); err != nil {
			return nil, nil, fmt.Errorf("%w: star %s: %w", ErrInvalid, s.Name, err)
		}
		reserved = append(reserved, star.Hex)
	}

	setups := make([]game.PlayerSetup, 0, len(f.Players))
	for _, p := range f.Players {
		setup, err := p.build()
		if err != nil {
			return nil, nil, err
		}
		for _, c := range p.Colonies {
			colony, err := c.build(p.ID)
			if err != nil {
				return nil, nil, err
			}
			if err := galaxy.AddColony(colony); err != nil {
				return nil, nil, fmt.Errorf("%w: player %d: %w", ErrInvalid, p.ID, err)
			}
			if s, ok := galaxy.Star(colony.Hex); ok {
				if planet := s.Planet(colony.Planet); planet != nil && colony.Population > planet.Capacity {
					colony.Population = planet.Capacity
				}
			}
		}
		reserved = append(reserved, setup.Player.Entry)
		reserved = append(reserved, setup.Player.CommandPosts...)
		setups = append(setups, setup)
	}

	if f.Generate.Stars > 0 {
		galaxy.Generate(ctx, rng, f.Generate.Stars, reserved)
	}
	return galaxy, setups, nil
}

func (s Star) build() (*world.StarSystem, error) {
	h, err := hexgrid.Parse(s.Hex)
	if err != nil {
		return nil, fmt.Errorf("%w: star %s: %w", ErrInvalid, s.Name, err)
	}
	star := &world.StarSystem{Name: s.Name, Hex: h, Color: world.StarColor(s.Color)}
	if star.Color == "" {
		star.Color = world.Yellow
	}
	for _, p := range s.Planets {
		class, ok := world.ParsePlanetClass(p.Class)
		if !ok {
			return nil, fmt.Errorf("%w: planet %s: unknown class %q", ErrInvalid, p.Name, p.Class)
		}
		capacity := p.Capacity
		if capacity == 0 {
			capacity = class.DefaultCapacity()
		}
		star.Planets = append(star.Planets, &world.Planet{Name: p.Name, Class: class, Capacity: capacity})
	}
	return star, nil
}

func (p Player) build() (game.PlayerSetup, error) {
	if p.ID <= 0 {
		return game.PlayerSetup{}, fmt.Errorf("%w: player %q needs a positive id", ErrInvalid, p.Name)
	}
	entry, err := hexgrid.Parse(p.Entry)
	if err != nil {
		return game.PlayerSetup{}, fmt.Errorf("%w: player %d entry: %w", ErrInvalid, p.ID, err)
	}
	player := entity.NewPlayer(p.ID, p.Name, entry)
	if p.Speed > 0 {
		player.Speed = p.Speed
	}
	player.Credits = p.Credits
	for _, label := range p.CommandPosts {
		h, err := hexgrid.Parse(label)
		if err != nil {
			return game.PlayerSetup{}, fmt.Errorf("%w: player %d command post: %w", ErrInvalid, p.ID, err)
		}
		player.CommandPosts = append(player.CommandPosts, h)
	}

	ships := entity.Fleet{}
	for id, n := range p.Fleet {
		t, err := entity.ParseShipType(id)
		if err != nil {
			return game.PlayerSetup{}, fmt.Errorf("%w: player %d fleet: %w", ErrInvalid, p.ID, err)
		}
		if n < 0 {
			return game.PlayerSetup{}, fmt.Errorf("%w: player %d fleet: negative %s", ErrInvalid, p.ID, id)
		}
		ships[t] += n
	}
	return game.PlayerSetup{Player: player, Fleet: ships}, nil
}

func (c Colony) build(owner int) (*entity.Colony, error) {
	h, err := hexgrid.Parse(c.Hex)
	if err != nil {
		return nil, fmt.Errorf("%w: colony: %w", ErrInvalid, err)
	}
	if c.Population <= 0 {
		return nil, fmt.Errorf("%w: colony at %s needs population", ErrInvalid, h)
	}
	return entity.NewColony(owner, h, c.Planet, c.Population), nil
}
