package world

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/hexfleet/internal/hexgrid"
	"github.com/samdwyer/hexfleet/internal/telemetry"
)

const (
	// Generation parameters
	minStarSpacing  = 2  // Minimum hex distance between two stars
	maxPlanets      = 3  // Planets per system are drawn from 0..maxPlanets
	placementFactor = 50 // Placement attempts per requested star
)

// Rand is the random source generation draws from.
type Rand interface {
	Intn(n int) int
}

// Generate scatters count star systems over the board, keeping them at
// least minStarSpacing apart and off the reserved hexes. It returns the
// number actually placed, which may be lower on a crowded board.
func (g *Galaxy) Generate(ctx context.Context, rng Rand, count int, reserved []hexgrid.Hex) int {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "galaxy.generate")
	defer span.End()

	startTime := time.Now()
	placed := 0

	for attempt := 0; attempt < count*placementFactor && placed < count; attempt++ {
		col := rng.Intn(g.Grid.Columns)
		h := hexgrid.Hex{Col: col, Row: rng.Intn(g.Grid.Rows(col))}
		if !g.spaced(h, reserved) {
			continue
		}

		color := starColors[rng.Intn(len(starColors))]
		s := &StarSystem{
			Name:  fmt.Sprintf("%s-%s", color, h),
			Hex:   h,
			Color: color,
		}
		for i, n := 0, rng.Intn(maxPlanets+1); i < n; i++ {
			class := PlanetClass(rng.Intn(int(Barren) + 1))
			s.Planets = append(s.Planets, &Planet{
				Name:     fmt.Sprintf("%s %d", s.Name, i+1),
				Class:    class,
				Capacity: class.DefaultCapacity(),
			})
		}
		if err := g.AddStar(s); err != nil {
			continue
		}
		placed++
	}

	span.SetAttributes(
		attribute.Int("galaxy.columns", g.Grid.Columns),
		attribute.Int("galaxy.requested", count),
		attribute.Int("galaxy.star_count", len(g.order)),
		attribute.Int64("galaxy.generation_ms", time.Since(startTime).Milliseconds()),
	)
	return placed
}

func (g *Galaxy) spaced(h hexgrid.Hex, reserved []hexgrid.Hex) bool {
	for _, r := range reserved {
		if r == h {
			return false
		}
	}
	for _, other := range g.order {
		if hexgrid.Distance(h, other) < minStarSpacing {
			return false
		}
	}
	return true
}
