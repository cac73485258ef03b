// Package input turns raw terminal bytes into scroll and quit intents and
// fans viewport/scroll readings out to subscribed listeners.
package input

import (
	"bufio"
	"bytes"
	"strconv"
)

// Input is everything read since the previous frame.
type Input struct {
	Quit        bool
	ScrollLines int // Positive scrolls down (content moves up)
	ScrollPages int
	Home        bool // Jump to the top; applied before line/page deltas
	End         bool // Jump to the bottom; applied before line/page deltas
	Pause       bool // Toggle stepping; an even number of presses cancels out
	Closed      bool // Underlying reader hit EOF or an error
	Pressed     []byte
}

// Active reports whether the frame carried any user input.
func (in Input) Active() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes from a reader via a buffered channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r returns an error.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and parses them.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Parse(buf)
	in.Closed = s.closed
	return in
}

// Parse interprets a batch of terminal bytes.
//
// Recognized: arrows, PgUp/PgDn, Home/End (both CSI forms), SGR mouse wheel
// reports, vi-style j/k/g/G, w/s, space and b for paging, p to pause,
// q or Ctrl-C to quit.
// A lone ESC at the end of the batch also quits.
func Parse(buf []byte) Input {
	in := Input{Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			if i+1 >= len(buf) {
				in.Quit = true
				continue
			}
			if buf[i+1] == '[' {
				if n := parseCSI(buf[i+2:], &in); n > 0 {
					i += 1 + n
					continue
				}
			}
			continue
		}

		applyByte(&in, b)
	}
	return in
}

// parseCSI handles the bytes after ESC [ and returns how many it consumed,
// or 0 when the sequence is not recognized.
func parseCSI(seq []byte, in *Input) int {
	if len(seq) == 0 {
		return 0
	}
	switch seq[0] {
	case 'A':
		in.ScrollLines--
		return 1
	case 'B':
		in.ScrollLines++
		return 1
	case 'C', 'D':
		return 1
	case 'H':
		in.Home = true
		return 1
	case 'F':
		in.End = true
		return 1
	case '<':
		return parseSGRMouse(seq, in)
	}

	// ESC [ <digit> ~
	if len(seq) >= 2 && seq[1] == '~' {
		switch seq[0] {
		case '1', '7':
			in.Home = true
		case '4', '8':
			in.End = true
		case '5':
			in.ScrollPages--
		case '6':
			in.ScrollPages++
		default:
			return 0
		}
		return 2
	}
	return 0
}

// parseSGRMouse handles "<b;x;yM" or "<b;x;ym". Button 64 is wheel up,
// 65 wheel down; other buttons are consumed and ignored.
func parseSGRMouse(seq []byte, in *Input) int {
	end := bytes.IndexAny(seq, "Mm")
	if end < 0 {
		return 0
	}
	fields := bytes.Split(seq[1:end], []byte{';'})
	if len(fields) != 3 {
		return end + 1
	}
	button, err := strconv.Atoi(string(fields[0]))
	if err != nil {
		return end + 1
	}
	switch button {
	case 64:
		in.ScrollLines--
	case 65:
		in.ScrollLines++
	}
	return end + 1
}

// applyByte updates the input for a single-byte key.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'k', 'K', 'w', 'W':
		in.ScrollLines--
	case 'j', 'J', 's', 'S':
		in.ScrollLines++
	case ' ':
		in.ScrollPages++
	case 'b', 'B':
		in.ScrollPages--
	case 'g':
		in.Home = true
	case 'G':
		in.End = true
	case 'p', 'P':
		in.Pause = !in.Pause
	}
}
