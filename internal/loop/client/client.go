// Package client runs a star field session on a terminal: it reads keys and
// wheel reports, tracks the terminal size and paints the engine's frames as
// half blocks, locally or over SSH.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/engine"
	"github.com/tomz197/starfield/internal/input"
	"github.com/tomz197/starfield/internal/loop"
	"github.com/tomz197/starfield/internal/loop/config"
	"github.com/tomz197/starfield/internal/loop/server"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.Hub
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates frame output for chunked writes
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	host         *input.Dispatcher
	engine       *engine.Engine
	sched        *loop.Manual
	log          *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	// Engine carries the star field settings. Surface, Scheduler and
	// Viewport are provided by the client.
	Engine engine.Options
	Logger *log.Logger
	// JoinNotice, when set, is sent to the other sessions once this one is
	// registered.
	JoinNotice string
}

// surface paints onto the canvas and presents through the client.
type surface struct {
	*draw.Canvas
	present func() error
}

func (s surface) Present() error { return s.present() }

// NewClient registers with the server and builds the session's engine.
func NewClient(gs server.Hub, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewCanvas(renderWidth, renderHeight, config.TermDPR)
	canvas.SetOffset(offsetCol, offsetRow)

	width, height := canvas.Bounds()
	c := &Client{
		server:       gs,
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		host:         input.NewDispatcher(width, height, config.TermDPR),
		sched:        &loop.Manual{},
		log:          logger,
	}

	eopts := opts.Engine
	eopts.Surface = surface{Canvas: canvas, present: c.drawFrame}
	eopts.Scheduler = c.sched
	eopts.Viewport.Width, eopts.Viewport.Height, eopts.Viewport.DPR = width, height, config.TermDPR
	if eopts.Logger == nil {
		eopts.Logger = logger
	}
	eng, err := engine.New(eopts)
	if err != nil {
		return nil, err
	}
	c.engine = eng

	handle, err := gs.RegisterClient(opts.Username)
	if err != nil {
		return nil, fmt.Errorf("register client: %w", err)
	}
	c.handle = handle
	if opts.JoinNotice != "" {
		gs.BroadcastExcept(handle.ID, server.ClientEvent{Type: server.EventNotice, Message: opts.JoinNotice})
	}
	c.inputStream = input.StartStream(r)
	return c, nil
}

// ID returns the server-assigned session ID.
func (c *Client) ID() string {
	return c.handle.ID
}

// Run starts the client loop. Blocks until the client quits, the reader
// closes, ctx is cancelled or the server shutdown countdown ends.
func (c *Client) Run(ctx context.Context) error {
	defer c.server.UnregisterClient(c.handle.ID)
	if err := draw.BeginSession(c.writer); err != nil {
		return err
	}
	defer draw.EndSession(c.writer)

	if err := c.engine.Mount(c.host); err != nil {
		return err
	}
	defer c.engine.Unmount()

	frameTime := time.Second / config.ClientTargetFPS
	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		select {
		case <-ctx.Done():
			c.state.Running = false
			continue
		default:
		}

		// Process input
		c.processInput()

		// Check for server events
		c.processServerEvents()

		// Handle screen resize
		c.updateScreen()

		// Advance timers and overlays
		c.updateState()

		// Step and draw one frame; presenting happens inside the tick
		c.sched.Pump()
		if err := c.engine.Err(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}
	return nil
}

// processInput reads input and applies scroll, pause and quit intents.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)
	in := c.state.Input

	if in.Active() {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit || in.Closed {
		c.state.Running = false
	}
	c.applyInput(in)
}

// applyInput maps key intents onto the scroll host and the engine.
func (c *Client) applyInput(in input.Input) {
	c.host.Apply(in, config.ScrollSteps)
	if in.Pause {
		c.state.Paused = !c.state.Paused
		c.engine.SetFrozen(c.state.Paused)
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				if c.state.ViewState != ViewStateShutdown {
					c.state.ViewState = ViewStateShutdown
					c.state.shutdownTimer = config.ShutdownDisplaySeconds
				}
			case server.EventNotice:
				c.state.notice = event.Message
				c.state.noticeTimer = config.NoticeSeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content), then
// reports the new logical size to the engine.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight, config.TermDPR)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)

	width, height := c.canvas.Bounds()
	c.host.Resize(width, height, config.TermDPR)
}

// updateState advances the overlay and shutdown timers.
func (c *Client) updateState() {
	dt := c.state.delta.Seconds()
	countdown(&c.state.hintTimer, dt)
	countdown(&c.state.noticeTimer, dt)
	if c.state.noticeTimer == 0 {
		c.state.notice = ""
	}

	if c.state.ViewState == ViewStateShutdown {
		c.state.shutdownTimer -= dt
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
