package field

import "math"

// Viewport is the logical layout size plus the device pixel ratio that maps
// it onto the backing store.
type Viewport struct {
	Width  float64
	Height float64
	DPR    float64
}

// NewViewport clamps width and height to at least 1 and replaces a
// non-positive or NaN DPR with 1.
func NewViewport(width, height, dpr float64) Viewport {
	if !(width >= 1) {
		width = 1
	}
	if !(height >= 1) {
		height = 1
	}
	if !(dpr > 0) {
		dpr = 1
	}
	return Viewport{Width: width, Height: height, DPR: dpr}
}

// BackingSize returns the backing-store dimensions in device pixels.
func (v Viewport) BackingSize() (width, height int) {
	width = int(math.Round(v.Width * v.DPR))
	height = int(math.Round(v.Height * v.DPR))
	return max(width, 1), max(height, 1)
}
