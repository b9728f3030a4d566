// Package destination picks where a task force goes after combat forced it
// off a contested star system.
package destination

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/hexfleet/internal/combat"
	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/hexgrid"
	"github.com/samdwyer/hexfleet/internal/telemetry"
	"github.com/samdwyer/hexfleet/internal/world"
)

// DefaultCommandRadius is how far from a command post candidates may lie.
const DefaultCommandRadius = 8

// Scoring weights.
const (
	nearBonus       = 3.0 // within 4 hexes
	midBonus        = 2.0 // within 6 hexes
	farBonus        = 1.0
	enemyPenalty    = -5.0
	unexploredBonus = 2.0
	friendlyBonus   = 1.5
	openPlanetBonus = 2.5
	colonyNearBonus = 2.0 // retreat, colony within 2
	colonyMidBonus  = 1.0 // retreat, colony within 4
	baseClassBonus  = 1.5 // barrage, per missile base class
	populousBonus   = 1.0 // barrage, colony over populousThreshold
)

const populousThreshold = 5

// Board is the view of the game the selector scores against.
type Board interface {
	Stars() []*world.StarSystem
	EnemyPresent(player int, h hexgrid.Hex) bool
	FriendlyPresent(player int, h hexgrid.Hex) bool
	Explored(player int, h hexgrid.Hex) bool
	HasOpenPlanet(h hexgrid.Hex) bool
	ColoniesAt(h hexgrid.Hex) []*entity.Colony
	NearestColony(player int, h hexgrid.Hex) (*entity.Colony, int, bool)
	ColoniesOf(player int) []*entity.Colony
	Player(id int) *entity.Player
}

// Picker draws a uniform index in [0, n).
type Picker interface {
	Intn(n int) int
}

// Request describes the task force needing a destination.
type Request struct {
	Player              int
	TaskForce           int
	Current             hexgrid.Hex
	OriginalDestination hexgrid.Hex
	HasOriginal         bool
	Outcome             combat.Outcome
	Composition         entity.Fleet
}

// Candidate is a scored destination.
type Candidate struct {
	Hex   hexgrid.Hex
	Score float64
}

// Selector scores star systems near a player's command posts.
type Selector struct {
	grid   *hexgrid.Grid
	board  Board
	picker Picker
	radius int
	log    zerolog.Logger
}

// NewSelector creates a selector searching within DefaultCommandRadius.
func NewSelector(grid *hexgrid.Grid, board Board, picker Picker) *Selector {
	return &Selector{
		grid:   grid,
		board:  board,
		picker: picker,
		radius: DefaultCommandRadius,
		log:    log.With().Str("component", "destination").Logger(),
	}
}

// WithRadius changes the command radius.
func (s *Selector) WithRadius(radius int) *Selector {
	s.radius = radius
	return s
}

// SelectNewDestination returns the best-scoring star system, or a fallback
// hex, for a task force leaving combat. It returns false when nothing
// suitable exists; the caller then leaves the task force in place.
func (s *Selector) SelectNewDestination(ctx context.Context, req Request) (hexgrid.Hex, bool) {
	tracer := telemetry.Tracer("destination")
	_, span := tracer.Start(ctx, "destination.select")
	defer span.End()

	candidates := s.Score(req)
	span.SetAttributes(
		attribute.Int("destination.player", req.Player),
		attribute.Int("destination.task_force", req.TaskForce),
		attribute.String("destination.outcome", req.Outcome.String()),
		attribute.Int("destination.candidates", len(candidates)),
	)

	var best *Candidate
	for i := range candidates {
		if best == nil || candidates[i].Score > best.Score {
			best = &candidates[i]
		}
	}
	if best != nil && best.Score > 0 {
		span.SetAttributes(attribute.String("destination.choice", "scored"))
		return best.Hex, true
	}

	if h, ok := s.safeAdjacent(req); ok {
		span.SetAttributes(attribute.String("destination.choice", "adjacent"))
		return h, true
	}
	if h, ok := s.nearestOtherColony(req); ok {
		span.SetAttributes(attribute.String("destination.choice", "colony"))
		return h, true
	}

	s.log.Warn().Int("player", req.Player).Int("task_force", req.TaskForce).
		Str("hex", req.Current.String()).Msg("no destination available")
	span.SetAttributes(attribute.String("destination.choice", "none"))
	return hexgrid.Hex{}, false
}

// Score returns every eligible candidate in lexicographic hex order.
func (s *Selector) Score(req Request) []Candidate {
	player := s.board.Player(req.Player)
	if player == nil {
		return nil
	}
	anchors := player.Anchors()
	unarmed := req.Composition.Warships() == 0

	var out []Candidate
	for _, star := range s.board.Stars() {
		h := star.Hex
		if h == req.Current || (req.HasOriginal && h == req.OriginalDestination) {
			continue
		}
		if !withinAny(h, anchors, s.radius) {
			continue
		}
		enemy := s.board.EnemyPresent(req.Player, h)
		if unarmed && enemy {
			continue
		}
		out = append(out, Candidate{Hex: h, Score: s.score(req, h, enemy)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hex.Less(out[j].Hex) })
	return out
}

func (s *Selector) score(req Request, h hexgrid.Hex, enemy bool) float64 {
	var score float64

	switch d := hexgrid.Distance(req.Current, h); {
	case d <= 4:
		score += nearBonus
	case d <= 6:
		score += midBonus
	default:
		score += farBonus
	}
	if enemy {
		score += enemyPenalty
	}
	if !s.board.Explored(req.Player, h) {
		score += unexploredBonus
	}
	if s.board.FriendlyPresent(req.Player, h) {
		score += friendlyBonus
	}
	if s.board.HasOpenPlanet(h) {
		score += openPlanetBonus
	}

	if req.Outcome.IsRetreat() {
		if _, d, ok := s.board.NearestColony(req.Player, h); ok {
			switch {
			case d <= 2:
				score += colonyNearBonus
			case d <= 4:
				score += colonyMidBonus
			}
		}
	}

	if req.Outcome.IsBarrage() {
		populous := false
		classes := entity.Defenses{}
		for _, c := range s.board.ColoniesAt(h) {
			if c.Owner != req.Player {
				continue
			}
			classes.MissileBases += c.Defenses.MissileBases
			classes.AdvancedMissileBases += c.Defenses.AdvancedMissileBases
			if c.Population > populousThreshold {
				populous = true
			}
		}
		score += baseClassBonus * float64(classes.Classes())
		if populous {
			score += populousBonus
		}
	}
	return score
}

func (s *Selector) safeAdjacent(req Request) (hexgrid.Hex, bool) {
	var safe []hexgrid.Hex
	for _, h := range s.grid.Adjacent(req.Current) {
		if !s.board.EnemyPresent(req.Player, h) {
			safe = append(safe, h)
		}
	}
	if len(safe) == 0 {
		return hexgrid.Hex{}, false
	}
	return safe[s.picker.Intn(len(safe))], true
}

// nearestOtherColony returns the player's closest colony away from the
// current hex, ties going to the earliest founded.
func (s *Selector) nearestOtherColony(req Request) (hexgrid.Hex, bool) {
	var best hexgrid.Hex
	bestDist := -1
	for _, c := range s.board.ColoniesOf(req.Player) {
		if c.Hex == req.Current {
			continue
		}
		if d := hexgrid.Distance(req.Current, c.Hex); bestDist < 0 || d < bestDist {
			best, bestDist = c.Hex, d
		}
	}
	return best, bestDist >= 0
}

func withinAny(h hexgrid.Hex, anchors []hexgrid.Hex, radius int) bool {
	for _, a := range anchors {
		if hexgrid.Distance(a, h) <= radius {
			return true
		}
	}
	return false
}
