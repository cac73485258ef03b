package client

import (
	"fmt"
	"time"

	"github.com/tomz197/starfield/internal/loop/config"
)

const keyHint = "arrows/wheel: scroll   p: pause   q: quit"

// drawFrame presents the canvas the engine just painted, plus text overlays.
func (c *Client) drawFrame() error {
	// On overlay transitions, do a full terminal clear so text from the
	// previous overlay doesn't persist on cells the diff skips.
	if ov := c.state.overlay(); ov != c.state.prevOverlay {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
		c.state.prevOverlay = ov
	}

	c.canvas.Render(c.chunkWriter)

	// Border when the terminal exceeds the max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawUI draws the text overlay.
func (c *Client) drawUI() {
	width := c.canvas.TerminalWidth()
	height := c.canvas.TerminalHeight()
	centerY := height / 2

	if c.state.ViewState == ViewStateShutdown {
		c.drawShutdownScreen(width, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(width, centerY)
		return
	}

	cw := c.chunkWriter
	if c.state.Paused {
		cw.WriteAt(2, 1, "PAUSED")
	}
	if c.state.notice != "" {
		cw.WriteCentered(1, width, c.state.notice)
	}
	if c.state.hintTimer > 0 {
		cw.WriteCentered(height, width, keyHint)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(width, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerY-2, width, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteCentered(centerY, width, msg)
	cw.WriteCentered(centerY+2, width, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(width, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerY-3, width, "SERVER SHUTTING DOWN")
	cw.WriteCentered(centerY-1, width, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	cw.WriteCentered(centerY+1, width, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	cw.WriteCentered(centerY+3, width, "Press Q to disconnect now")
}
