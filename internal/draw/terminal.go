package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Session escapes. Mouse tracking uses SGR extended coordinates, which is what
// delivers wheel events as ESC [ < 64/65 ; x ; y M.
const (
	seqClear     = "\033[H\033[2J"
	seqBeginView = "\033[?25l\033[?1000h\033[?1006h" + seqClear
	seqEndView   = "\033[?1006l\033[?1000l\033[0m" + seqClear + "\033[?25h"
)

// BeginSession hides the cursor, enables wheel reporting and clears the screen.
func BeginSession(w io.Writer) error {
	_, err := io.WriteString(w, seqBeginView)
	return err
}

// EndSession reverts BeginSession and leaves a clean screen with the default
// style.
func EndSession(w io.Writer) error {
	_, err := io.WriteString(w, seqEndView)
	return err
}

// ChunkWriter collects one frame's overlay text and canvas output, then sends
// it in MTU-sized chunks. Positions are 1-based render-area coordinates; the
// centering offset of the render area is added on write.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset moves the render area, e.g. after a terminal resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// Clear queues a full screen clear. Cells outside the render area are wiped
// too, so callers force a canvas redraw afterwards.
func (cw *ChunkWriter) Clear() {
	cw.buf.WriteString(seqClear)
}

// Write implements io.Writer for Canvas.Render.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteAt queues s at col, row.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
	cw.buf.WriteString(s)
}

// WriteCentered queues s on row, centered within width columns. Text wider
// than the area is dropped.
func (cw *ChunkWriter) WriteCentered(row, width int, s string) {
	if len(s) > width {
		return
	}
	cw.WriteAt((width-len(s))/2+1, row, s)
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush sends the queued bytes in maxChunkSize pieces and resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data[:min(len(data), maxChunkSize)]
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc reports the terminal size in cells. SSH sessions supply one fed
// by window-change events.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}
