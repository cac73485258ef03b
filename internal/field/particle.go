// Package field simulates the depth-layered star field: the particle store,
// the viewport it is generated for, the per-tick drift and the transient
// parallax projection used at render time.
//
// A Field is owned by a single goroutine. Hosts that deliver scroll or resize
// readings from elsewhere go through engine.Engine, which hands them over at
// tick boundaries.
package field

import (
	"math/rand/v2"
	"time"
)

// Particle is one star. Z, Size and Speed are fixed at generation;
// X and Y are only moved by Field.Step.
type Particle struct {
	X, Y  float64 // Position in logical viewport pixels
	Z     float64 // Depth in (0, maxDepth]
	Size  float64 // Base radius
	Speed float64 // Vertical drift scalar
}

// DepthFactor returns 1/Z: large for near particles, small for far ones.
func (p Particle) DepthFactor() float64 {
	return 1 / p.Z
}

// RandSource yields uniform samples in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	Float64() float64
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) RandSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewTimeRand returns a source seeded from the wall clock.
func NewTimeRand() RandSource {
	return NewRand(uint64(time.Now().UnixNano()))
}

// uniform draws from [lo, hi).
func uniform(rng RandSource, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
