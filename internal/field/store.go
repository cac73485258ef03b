package field

import "math"

// Store holds the fixed-size particle collection.
// Readers get copies; only the stepper moves positions.
type Store struct {
	rng       RandSource
	maxDepth  float64
	particles []Particle
}

// NewStore creates an empty store drawing from rng.
// maxDepth must be positive; engine options validate it before we get here.
func NewStore(rng RandSource, maxDepth float64) *Store {
	return &Store{
		rng:      rng,
		maxDepth: maxDepth,
	}
}

// Regenerate replaces every particle with fresh samples for a width×height
// viewport. After it returns Len() == count.
func (s *Store) Regenerate(width, height float64, count int) {
	if count < 0 {
		count = 0
	}
	if cap(s.particles) < count {
		s.particles = make([]Particle, count)
	}
	s.particles = s.particles[:count]

	eps := math.Min(DepthEpsilon, s.maxDepth/2)
	for i := range s.particles {
		s.particles[i] = Particle{
			X:     uniform(s.rng, 0, width),
			Y:     uniform(s.rng, 0, height),
			Z:     uniform(s.rng, eps, s.maxDepth),
			Size:  uniform(s.rng, SizeMin, SizeMax),
			Speed: uniform(s.rng, SpeedMin, SpeedMax),
		}
	}
}

// Len returns the number of particles.
func (s *Store) Len() int {
	return len(s.particles)
}

// MaxDepth returns the upper bound of the depth range.
func (s *Store) MaxDepth() float64 {
	return s.maxDepth
}

// At returns a copy of particle i.
func (s *Store) At(i int) Particle {
	return s.particles[i]
}

// Each calls fn with a copy of every particle in slot order.
func (s *Store) Each(fn func(i int, p Particle)) {
	for i, p := range s.particles {
		fn(i, p)
	}
}

// Snapshot returns a copy of the whole collection.
func (s *Store) Snapshot() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}
