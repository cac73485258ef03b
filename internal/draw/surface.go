// Package draw provides the raster surfaces the star field paints on and the
// terminal output path that turns a raster into half-block cells.
package draw

// Surface is a 2D paint target addressed in logical pixels.
// Implementations own the mapping to their backing store.
type Surface interface {
	// Bounds returns the logical width and height.
	Bounds() (width, height float64)
	// FillVerticalGradient paints the whole surface from top to bottom.
	FillVerticalGradient(top, bottom Color)
	// FillCircle paints a filled circle with a soft glow extending blur
	// logical pixels past the radius.
	FillCircle(cx, cy, radius float64, c Color, blur float64)
}

// Presenter is implemented by surfaces that must be flushed to their output
// after a frame is painted.
type Presenter interface {
	Present() error
}
