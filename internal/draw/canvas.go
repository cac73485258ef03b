package draw

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Canvas is a Raster displayed on a terminal with 2x vertical resolution:
// each cell shows its top sub-pixel as the foreground of an upper half block
// and its bottom sub-pixel as the background.
//
// The backing store is termWidth × termHeight*2 sub-pixels; the logical size
// is that divided by the DPR, so a DPR below 1 lets a small terminal show a
// wide logical field.
type Canvas struct {
	*Raster

	termWidth  int // Actual terminal columns
	termHeight int // Actual terminal rows

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Last presented sub-pixel colors, for skipping unchanged cells
	prev        []color.RGBA
	forceRedraw bool

	// Reusable buffers to reduce allocations
	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewCanvas creates a canvas for the given terminal dimensions.
func NewCanvas(termWidth, termHeight int, dpr float64) *Canvas {
	c := &Canvas{Raster: &Raster{}}
	c.Resize(termWidth, termHeight, dpr)
	return c
}

// Resize updates the canvas for new terminal dimensions.
// Any change in size forces the next Render to redraw every cell.
func (c *Canvas) Resize(termWidth, termHeight int, dpr float64) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	if !(dpr > 0) {
		dpr = 1
	}

	if termWidth != c.termWidth || termHeight != c.termHeight || dpr != c.dpr {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.Raster.Resize(float64(termWidth)/dpr, float64(termHeight*2)/dpr, dpr)
		c.prev = make([]color.RGBA, termWidth*termHeight*2)
		c.forceRedraw = true
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.forceRedraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render emit every cell, e.g. after the terminal
// was cleared.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// maxChunkSize is the maximum bytes to write at once. 1400 bytes keeps a chunk
// plus SSH and TCP/IP headers inside a typical 1500-byte MTU.
const maxChunkSize = 1400

// Render outputs changed cells to the writer as truecolor upper half blocks.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 8)

	force := c.forceRedraw
	c.forceRedraw = false

	for row := 0; row < c.termHeight; row++ {
		// Cursor position is only re-emitted after a skipped cell
		contiguous := false
		for col := 0; col < c.termWidth; col++ {
			top := c.Raster.At(col, row*2)
			bottom := c.Raster.At(col, row*2+1)

			ti := (row*2)*c.termWidth + col
			bi := ti + c.termWidth
			if !force && c.prev[ti] == top && c.prev[bi] == bottom {
				contiguous = false
				continue
			}
			c.prev[ti] = top
			c.prev[bi] = bottom

			if !contiguous {
				c.writeCursor(col+1+c.offsetCol, row+1+c.offsetRow)
				contiguous = true
			}
			c.writeCell(top, bottom)
		}
	}
	if c.renderBuf.Len() > 0 {
		c.renderBuf.WriteString("\033[0m")
	}

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) writeCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// writeCell emits foreground (top) and background (bottom) SGR codes and the block.
func (c *Canvas) writeCell(top, bottom color.RGBA) {
	c.renderBuf.WriteString("\033[38;2;")
	c.writeRGB(top)
	c.renderBuf.WriteString(";48;2;")
	c.writeRGB(bottom)
	c.renderBuf.WriteByte('m')
	c.renderBuf.WriteRune(BlockUpperHalf)
}

func (c *Canvas) writeRGB(p color.RGBA) {
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(p.R), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(p.G), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(p.B), 10))
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder

	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, strings.Repeat("─", c.termWidth))
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, strings.Repeat("─", c.termWidth))
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			// No horizontal borders, side bars span full canvas height
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	io.WriteString(w, buf.String())
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// Ensure Canvas satisfies Surface.
var _ Surface = (*Canvas)(nil)
