package field

import "github.com/tomz197/starfield/internal/physics"

// Compositor computes the render-time displacement of a particle from scroll
// position, elapsed frames and depth. It never writes the store: the drawn
// position is always the stored position minus Offset.
type Compositor struct {
	AutoMoveSpeed float64
}

// ScrollOffset normalizes scrollY by the viewport height.
func (c Compositor) ScrollOffset(scrollY float64, vp Viewport) float64 {
	return scrollY / physics.AtLeastOne(vp.Height)
}

// AutoMove returns the frame-driven upward shift for a depth factor,
// wrapped to the viewport height.
func (c Compositor) AutoMove(frame uint64, depthFactor float64, vp Viewport) float64 {
	return physics.Mod(float64(frame)*c.AutoMoveSpeed*depthFactor, vp.Height)
}

// Offset returns the transient displacement subtracted from p's stored position.
func (c Compositor) Offset(p Particle, frame uint64, scrollY float64, vp Viewport) (dx, dy float64) {
	df := p.DepthFactor()
	scroll := c.ScrollOffset(scrollY, vp)
	dx = scroll * HorizontalParallax * df
	dy = c.AutoMove(frame, df, vp) + scroll*VerticalParallax*df
	return dx, dy
}

// Project returns the screen-space position of p.
func (c Compositor) Project(p Particle, frame uint64, scrollY float64, vp Viewport) (x, y float64) {
	dx, dy := c.Offset(p, frame, scrollY, vp)
	return p.X - dx, p.Y - dy
}
