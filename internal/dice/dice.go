// Package dice provides the seedable random source shared by a game.
package dice

import (
	"time"

	"golang.org/x/exp/rand"
)

// Roller rolls six-sided dice and picks uniformly from ranges.
// A Roller is not safe for concurrent use; each game owns one.
type Roller struct {
	seed uint64
	rng  *rand.Rand
}

// NewRoller creates a roller. A zero seed is replaced with a time-based one.
func NewRoller(seed uint64) *Roller {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Roller{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the roller was created with.
func (r *Roller) Seed() uint64 {
	return r.seed
}

// D6 rolls a single die.
func (r *Roller) D6() int {
	return r.rng.Intn(6) + 1
}

// Roll returns the sum of n dice.
func (r *Roller) Roll(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += r.D6()
	}
	return total
}

// Intn returns a value in [0, n).
func (r *Roller) Intn(n int) int {
	return r.rng.Intn(n)
}
