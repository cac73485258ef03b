package draw

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaster_DPRScaling(t *testing.T) {
	r := NewRaster(100, 50, 2)

	pw, ph := r.PixelSize()
	assert.Equal(t, 200, pw)
	assert.Equal(t, 100, ph)

	w, h := r.Bounds()
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 50.0, h)
	assert.Equal(t, 2.0, r.DPR())
}

func TestRaster_NonPositiveInputsClamp(t *testing.T) {
	r := NewRaster(0, -5, 0)

	pw, ph := r.PixelSize()
	assert.Equal(t, 1, pw)
	assert.Equal(t, 1, ph)
	assert.Equal(t, 1.0, r.DPR())
}

func TestRasterPixels_DerivesLogicalSize(t *testing.T) {
	r := NewRasterPixels(120, 80, 0.25)

	w, h := r.Bounds()
	assert.Equal(t, 480.0, w)
	assert.Equal(t, 320.0, h)
}

func TestRaster_FillVerticalGradient(t *testing.T) {
	r := NewRaster(4, 100, 1)
	top := RGB(0, 0, 0)
	bottom := RGB(200, 0, 100)

	r.FillVerticalGradient(top, bottom)

	first := r.At(0, 0)
	last := r.At(3, 99)
	assert.Equal(t, uint8(255), first.A)
	assert.LessOrEqual(t, first.R, uint8(2))
	assert.GreaterOrEqual(t, last.R, uint8(198))
	assert.Equal(t, r.At(0, 50), r.At(3, 50), "rows are uniform")
}

func TestRaster_FillCircleCenterIsOpaque(t *testing.T) {
	r := NewRaster(20, 20, 1)
	r.FillVerticalGradient(RGB(0, 0, 0), RGB(0, 0, 0))

	r.FillCircle(10, 10, 3, RGB(255, 255, 255), 0)

	assert.Equal(t, color.RGBA{255, 255, 255, 255}, r.At(10, 10))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, r.At(0, 0), "far pixels untouched")
}

func TestRaster_FillCircleRespectsAlpha(t *testing.T) {
	r := NewRaster(20, 20, 1)
	r.FillVerticalGradient(RGB(0, 0, 0), RGB(0, 0, 0))

	r.FillCircle(10, 10, 3, RGB(200, 200, 200).WithAlpha(0.5), 0)

	got := r.At(10, 10)
	assert.InDelta(t, 100, int(got.R), 1)
}

func TestRaster_GlowExtendsPastRadius(t *testing.T) {
	sharp := NewRaster(40, 40, 1)
	soft := NewRaster(40, 40, 1)
	for _, r := range []*Raster{sharp, soft} {
		r.FillVerticalGradient(RGB(0, 0, 0), RGB(0, 0, 0))
	}

	sharp.FillCircle(20, 20, 2, RGB(255, 255, 255), 0)
	soft.FillCircle(20, 20, 2, RGB(255, 255, 255), 8)

	assert.Equal(t, uint8(0), sharp.At(25, 20).R)
	assert.Greater(t, soft.At(25, 20).R, uint8(0))
}

func TestRaster_FillCircleClipsOutside(t *testing.T) {
	r := NewRaster(10, 10, 1)
	require.NotPanics(t, func() {
		r.FillCircle(-50, -50, 5, RGB(255, 255, 255), 10)
		r.FillCircle(500, 3, 5, RGB(255, 255, 255), 10)
		r.FillCircle(9.9, 9.9, 30, RGB(255, 255, 255), 10)
	})
	assert.Equal(t, color.RGBA{}, r.At(-1, 0))
}

func TestRaster_DPRScalesCircle(t *testing.T) {
	r := NewRaster(10, 10, 3)
	r.FillCircle(5, 5, 1, RGB(255, 255, 255), 0)

	// Logical (5,5) lands on backing (15,15); radius 1 covers 3 backing px
	assert.Equal(t, uint8(255), r.At(15, 15).R)
	assert.Equal(t, uint8(255), r.At(16, 15).R)
	assert.Equal(t, uint8(0), r.At(20, 15).R)
}
