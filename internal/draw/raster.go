package draw

import (
	"image"
	"image/color"
	"math"

	"github.com/tomz197/starfield/internal/physics"
)

// GlowStrength is the peak alpha of the glow halo relative to the fill alpha.
const GlowStrength = 0.35

// Raster is a software Surface backed by an RGBA image.
// Logical coordinates are multiplied by the device pixel ratio to reach
// backing-store pixels.
type Raster struct {
	img    *image.RGBA
	dpr    float64
	width  float64 // Logical width
	height float64 // Logical height
}

// NewRaster creates a raster for a logical width×height at the given DPR.
// Backing dimensions are rounded and never smaller than 1×1.
func NewRaster(width, height, dpr float64) *Raster {
	r := &Raster{}
	r.Resize(width, height, dpr)
	return r
}

// NewRasterPixels creates a raster with a fixed backing size; the logical size
// is derived as pixels / dpr.
func NewRasterPixels(pixelWidth, pixelHeight int, dpr float64) *Raster {
	if !(dpr > 0) {
		dpr = 1
	}
	return NewRaster(float64(pixelWidth)/dpr, float64(pixelHeight)/dpr, dpr)
}

// Resize reallocates the backing store when its pixel size changes.
func (r *Raster) Resize(width, height, dpr float64) {
	if !(dpr > 0) {
		dpr = 1
	}
	pw := max(int(math.Round(width*dpr)), 1)
	ph := max(int(math.Round(height*dpr)), 1)

	if r.img == nil || r.img.Rect.Dx() != pw || r.img.Rect.Dy() != ph {
		r.img = image.NewRGBA(image.Rect(0, 0, pw, ph))
	}
	r.dpr = dpr
	r.width = float64(pw) / dpr
	r.height = float64(ph) / dpr
}

// Bounds returns the logical size.
func (r *Raster) Bounds() (width, height float64) {
	return r.width, r.height
}

// DPR returns the device pixel ratio.
func (r *Raster) DPR() float64 {
	return r.dpr
}

// PixelSize returns the backing-store dimensions.
func (r *Raster) PixelSize() (width, height int) {
	return r.img.Rect.Dx(), r.img.Rect.Dy()
}

// Image exposes the backing store. Callers must not hold it across a Resize.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// At returns the backing pixel at (px, py), or transparent black when out of range.
func (r *Raster) At(px, py int) color.RGBA {
	if !(image.Point{X: px, Y: py}.In(r.img.Rect)) {
		return color.RGBA{}
	}
	return r.img.RGBAAt(px, py)
}

// Clear resets every pixel to transparent black.
func (r *Raster) Clear() {
	clear(r.img.Pix)
}

// FillVerticalGradient replaces every row with the blend of top and bottom
// sampled at the row center.
func (r *Raster) FillVerticalGradient(top, bottom Color) {
	pw, ph := r.PixelSize()
	for y := 0; y < ph; y++ {
		c := premultiply(Lerp(top, bottom, (float64(y)+0.5)/float64(ph)))
		row := r.img.Pix[y*r.img.Stride : y*r.img.Stride+pw*4]
		for x := 0; x < len(row); x += 4 {
			row[x+0] = c.R
			row[x+1] = c.G
			row[x+2] = c.B
			row[x+3] = c.A
		}
	}
}

// FillCircle composites an antialiased disc plus a quadratic glow halo.
// Everything outside the backing store is clipped.
func (r *Raster) FillCircle(cx, cy, radius float64, c Color, blur float64) {
	if c.A <= 0 || radius <= 0 {
		return
	}
	bx := cx * r.dpr
	by := cy * r.dpr
	br := radius * r.dpr
	bb := math.Max(blur, 0) * r.dpr
	extent := br + bb + 1

	pw, ph := r.PixelSize()
	x0 := max(int(math.Floor(bx-extent)), 0)
	y0 := max(int(math.Floor(by-extent)), 0)
	x1 := min(int(math.Ceil(bx+extent)), pw-1)
	y1 := min(int(math.Ceil(by+extent)), ph-1)

	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			d := physics.Distance(float64(px)+0.5, float64(py)+0.5, bx, by)

			// Core coverage with a one-pixel antialiased edge
			coverage := physics.Clamp(br+0.5-d, 0, 1)
			if bb > 0 && d > br && d < br+bb {
				falloff := 1 - (d-br)/bb
				coverage = math.Max(coverage, falloff*falloff*GlowStrength)
			}
			if coverage <= 0 {
				continue
			}
			r.blend(px, py, c, c.A*coverage)
		}
	}
}

// blend composites c at alpha a over the pixel using source-over.
func (r *Raster) blend(px, py int, c Color, a float64) {
	a = physics.Clamp(a, 0, 1)
	i := r.img.PixOffset(px, py)
	p := r.img.Pix[i : i+4 : i+4]
	inv := 1 - a
	p[0] = uint8(math.Min(255, float64(c.R)*a+float64(p[0])*inv+0.5))
	p[1] = uint8(math.Min(255, float64(c.G)*a+float64(p[1])*inv+0.5))
	p[2] = uint8(math.Min(255, float64(c.B)*a+float64(p[2])*inv+0.5))
	p[3] = uint8(math.Min(255, 255*a+float64(p[3])*inv+0.5))
}

func premultiply(c Color) color.RGBA {
	a := physics.Clamp(c.A, 0, 1)
	return color.RGBA{
		R: uint8(float64(c.R)*a + 0.5),
		G: uint8(float64(c.G)*a + 0.5),
		B: uint8(float64(c.B)*a + 0.5),
		A: uint8(255*a + 0.5),
	}
}

// Ensure Raster satisfies Surface.
var _ Surface = (*Raster)(nil)
