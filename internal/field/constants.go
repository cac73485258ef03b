package field

// Generation ranges. Depth is drawn from [eps, maxDepth) where
// eps = min(DepthEpsilon, maxDepth/2), keeping every z strictly positive.
const (
	DepthEpsilon = 0.2
	SizeMin      = 0.2
	SizeMax      = 2.0
	SpeedMin     = 0.2
	SpeedMax     = 0.7
)

// Drift and wrap tuning for the stepper.
const (
	Margin                = 20.0 // Off-screen band in logical pixels before a particle wraps
	BaseVerticalFactor    = 0.3
	HorizontalDriftFactor = 0.2
	BaseHorizontalFactor  = 0.1
)

// Parallax strength per unit of normalized scroll, scaled by depth factor.
const (
	HorizontalParallax = 120.0
	VerticalParallax   = 60.0
)
