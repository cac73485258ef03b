package engine

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/field"
	"github.com/tomz197/starfield/internal/loop"
)

// Limits for offline frames.
const (
	MaxFramePixels = 4096 * 4096
	MaxFrameTicks  = 100_000
	MaxFrameDPR    = 4 // Glow and radius scale with DPR, so it bounds per-star cost
)

// ErrFrameTooLarge is returned when a frame request exceeds the limits.
var ErrFrameTooLarge = errors.New("frame request too large")

// FrameRequest describes a single offline frame.
type FrameRequest struct {
	Width   float64
	Height  float64
	DPR     float64
	ScrollY float64
	Ticks   int    // Steps simulated before painting
	Seed    uint64 // Overrides Options.Seed when non-zero
}

// RenderFrame simulates req.Ticks steps of a fresh field and paints the result
// into an image of the backing-store size. The twinkle clock follows the tick
// count at opts.FPS, so equal requests with a fixed seed give equal images.
func RenderFrame(opts Options, req FrameRequest) (*image.RGBA, error) {
	vp := field.NewViewport(req.Width, req.Height, req.DPR)
	area := vp.Width * vp.Height * vp.DPR * vp.DPR
	if !(area <= MaxFramePixels) || vp.DPR > MaxFrameDPR || req.Ticks > MaxFrameTicks {
		return nil, fmt.Errorf("%w: %gx%g at dpr %g, %d ticks", ErrFrameTooLarge, vp.Width, vp.Height, vp.DPR, req.Ticks)
	}
	if req.Seed != 0 {
		opts.Seed = req.Seed
		opts.Rand = nil
	}

	pw, ph := vp.BackingSize()
	raster := draw.NewRasterPixels(pw, ph, vp.DPR)
	opts.Viewport = vp
	opts.Surface = raster
	opts.Scheduler = &loop.Manual{}

	var e *Engine
	fps := opts.FPS
	opts.Clock = func() time.Duration {
		return time.Duration(e.field.Frame()) * time.Second / time.Duration(fps)
	}
	e, err := New(opts)
	if err != nil {
		return nil, err
	}
	e.SetScroll(req.ScrollY)

	for range max(req.Ticks, 0) {
		e.Advance()
	}
	e.RenderTo(raster)
	return raster.Image(), nil
}
