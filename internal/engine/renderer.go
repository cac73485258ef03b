package engine

import (
	"math"
	"time"

	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/field"
	"github.com/tomz197/starfield/internal/physics"
)

// Twinkle and glow tuning.
const (
	TwinkleClockFactor = 0.002 // Radians per millisecond
	TwinkleDepthFactor = 10.0  // Phase offset per unit of depth
	TwinkleAmplitude   = 0.6
	MinRadius          = 0.2
	AlphaScale         = 0.9 // Alpha per unit of depth factor
	GlowScale          = 6.0 // Blur radius per unit of depth factor
)

// Renderer paints the background and every particle at its projected position.
type Renderer struct {
	Color      draw.Color
	Background Gradient
	Compositor field.Compositor
}

// Render paints one frame. A nil surface does nothing.
func (r Renderer) Render(s draw.Surface, f *field.Field, scrollY float64, clock time.Duration) {
	if s == nil || f == nil {
		return
	}
	s.FillVerticalGradient(r.Background.Top, r.Background.Bottom)

	vp := f.Viewport()
	frame := f.Frame()
	ms := float64(clock) / float64(time.Millisecond)

	f.Store().Each(func(_ int, p field.Particle) {
		df := p.DepthFactor()
		x, y := r.Compositor.Project(p, frame, scrollY, vp)
		s.FillCircle(x, y, Radius(p, ms), r.Color.WithAlpha(AlphaScale*df), GlowScale*df)
	})
}

// Radius returns the twinkling radius of p at clockMs milliseconds.
func Radius(p field.Particle, clockMs float64) float64 {
	phase := math.Mod(clockMs*TwinkleClockFactor+p.Z*TwinkleDepthFactor, 2*math.Pi)
	return math.Max(MinRadius, p.Size+math.Sin(phase)*TwinkleAmplitude)
}

// Alpha returns the fill alpha for a particle, clamped to [0, 1].
func Alpha(p field.Particle) float64 {
	return physics.Clamp(AlphaScale*p.DepthFactor(), 0, 1)
}
