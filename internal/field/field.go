package field

import "github.com/tomz197/starfield/internal/physics"

// Field ties the store to the viewport it was generated for and counts
// stepped frames. Not safe for concurrent use.
type Field struct {
	count    int
	rng      RandSource
	viewport Viewport
	store    *Store
	frame    uint64
}

// New creates a field of count particles and generates it for vp.
func New(count int, maxDepth float64, rng RandSource, vp Viewport) *Field {
	f := &Field{
		count: count,
		rng:   rng,
		store: NewStore(rng, maxDepth),
	}
	f.Resize(vp.Width, vp.Height, vp.DPR)
	return f
}

// Resize records a new viewport and regenerates the whole store with the
// configured count. There is no partial path: positions do not carry over.
func (f *Field) Resize(width, height, dpr float64) {
	f.viewport = NewViewport(width, height, dpr)
	f.store.Regenerate(f.viewport.Width, f.viewport.Height, f.count)
}

// Viewport returns the current viewport.
func (f *Field) Viewport() Viewport {
	return f.viewport
}

// Store returns the particle store.
func (f *Field) Store() *Store {
	return f.store
}

// Count returns the configured particle count.
func (f *Field) Count() int {
	return f.count
}

// Frame returns the number of steps taken so far.
func (f *Field) Frame() uint64 {
	return f.frame
}

// Step advances every particle by one tick and increments the frame counter.
//
// Integration is per tick, not per elapsed second: drift speed assumes the
// scheduler runs at a roughly constant rate.
func (f *Field) Step() {
	w := f.viewport.Width
	h := f.viewport.Height
	maxDepth := f.store.maxDepth

	for i := range f.store.particles {
		p := &f.store.particles[i]
		depthRatio := p.Z / maxDepth

		p.Y -= p.Speed * (BaseVerticalFactor + depthRatio)
		p.X += p.Speed * HorizontalDriftFactor * (BaseHorizontalFactor + depthRatio)

		// Leaving the top re-enters at the bottom with a fresh column
		if p.Y < -Margin {
			p.Y = h + Margin
			p.X = uniform(f.rng, 0, w)
		}
		p.X, _ = physics.WrapHorizontal(p.X, w, Margin)
	}

	f.frame++
}
