package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanvas_LogicalSizeFollowsDPR(t *testing.T) {
	c := NewCanvas(120, 40, 0.25)

	w, h := c.Bounds()
	assert.Equal(t, 480.0, w)
	assert.Equal(t, 320.0, h)
	pw, ph := c.PixelSize()
	assert.Equal(t, 120, pw)
	assert.Equal(t, 80, ph)
}

func TestCanvas_RenderEmitsTruecolorHalfBlocks(t *testing.T) {
	c := NewCanvas(2, 1, 1)
	c.FillVerticalGradient(RGB(10, 20, 30), RGB(10, 20, 30))

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "\033[1;1H"))
	assert.Equal(t, 2, strings.Count(out, string(BlockUpperHalf)))
	assert.Contains(t, out, "\033[38;2;10;20;30;48;2;10;20;30m")
	assert.True(t, strings.HasSuffix(out, "\033[0m"))
}

func TestCanvas_RenderSkipsUnchangedCells(t *testing.T) {
	c := NewCanvas(4, 2, 1)
	c.FillVerticalGradient(RGB(0, 0, 0), RGB(0, 0, 0))

	var buf bytes.Buffer
	c.Render(&buf)
	buf.Reset()

	c.Render(&buf)
	assert.Empty(t, buf.String(), "nothing changed")

	c.FillCircle(0.5, 0.5, 0.5, RGB(255, 255, 255), 0)
	c.Render(&buf)
	assert.Equal(t, 1, strings.Count(buf.String(), string(BlockUpperHalf)))

	buf.Reset()
	c.ForceRedraw()
	c.Render(&buf)
	assert.Equal(t, 8, strings.Count(buf.String(), string(BlockUpperHalf)))
}

func TestCanvas_OffsetShiftsCursor(t *testing.T) {
	c := NewCanvas(1, 1, 1)
	c.SetOffset(5, 2)
	c.FillVerticalGradient(RGB(1, 1, 1), RGB(1, 1, 1))

	var buf bytes.Buffer
	c.Render(&buf)

	assert.True(t, strings.HasPrefix(buf.String(), "\033[3;6H"))
	assert.Equal(t, 5, c.OffsetCol())
	assert.Equal(t, 2, c.OffsetRow())
}

func TestCanvas_ResizeForcesRedraw(t *testing.T) {
	c := NewCanvas(2, 2, 1)
	var buf bytes.Buffer
	c.Render(&buf)
	buf.Reset()

	c.Resize(3, 1, 1)
	c.Render(&buf)

	assert.Equal(t, 3, c.TerminalWidth())
	assert.Equal(t, 1, c.TerminalHeight())
	assert.Equal(t, 3, strings.Count(buf.String(), string(BlockUpperHalf)))
}

func TestCanvas_RenderBorder(t *testing.T) {
	c := NewCanvas(3, 1, 1)
	c.SetOffset(1, 1)

	var buf bytes.Buffer
	c.RenderBorder(&buf)

	assert.Contains(t, buf.String(), "┌───┐")
	assert.Contains(t, buf.String(), "└───┘")
	assert.Contains(t, buf.String(), "│")
}

func TestMaxChunkSizeLeavesHeaderRoom(t *testing.T) {
	// SSH packet plus TCP/IP headers must fit with the chunk in a 1500-byte MTU
	assert.Equal(t, 1400, maxChunkSize)
}
