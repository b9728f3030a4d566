package entity

import "github.com/samdwyer/hexfleet/internal/hexgrid"

// DefaultSpeed is the starting movement allowance in hexes per turn.
const DefaultSpeed = 2

// Player is one empire. Players are identified by their 1-based ID and act
// in the fixed order they were created in.
type Player struct {
	ID           int
	Name         string
	Speed        int
	Entry        hexgrid.Hex
	CommandPosts []hexgrid.Hex
	Credits      int
	Eliminated   bool
}

// NewPlayer creates a player entering the board at entry.
func NewPlayer(id int, name string, entry hexgrid.Hex) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Speed: DefaultSpeed,
		Entry: entry,
	}
}

// Anchors returns the hexes destination searches radiate from: every
// command post plus the entry hex.
func (p *Player) Anchors() []hexgrid.Hex {
	out := make([]hexgrid.Hex, 0, len(p.CommandPosts)+1)
	out = append(out, p.CommandPosts...)
	return append(out, p.Entry)
}
