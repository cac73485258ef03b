// Package physics provides the scalar helpers shared by the star field
// simulation and the rasterizer: distances, guarded division and wrapping.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(DistanceSquared(x1, y1, x2, y2))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// AtLeastOne clamps a divisor to a minimum of 1.
// Zero, negative and NaN inputs all come back as 1.
func AtLeastOne(v float64) float64 {
	if !(v >= 1) {
		return 1
	}
	return v
}

// Mod returns x modulo m in the range [0, m).
// m is clamped with AtLeastOne so the result is never NaN for finite x.
func Mod(x, m float64) float64 {
	m = AtLeastOne(m)
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// WrapHorizontal applies the edge-to-edge rule used for sideways drift:
// leaving past the right margin re-enters at the left margin and vice versa.
// Returns the new x and whether a wrap happened.
func WrapHorizontal(x, width, margin float64) (float64, bool) {
	switch {
	case x > width+margin:
		return -margin, true
	case x < -margin:
		return width + margin, true
	}
	return x, false
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
