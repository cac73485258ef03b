package client

import (
	"time"

	"github.com/tomz197/starfield/internal/input"
	"github.com/tomz197/starfield/internal/loop/config"
)

// ViewState represents the current phase of a session.
type ViewState int

const (
	ViewStateRunning  ViewState = iota // Star field with optional overlays
	ViewStateShutdown                  // Server is shutting down
)

// ClientState holds per-session state (input, timers, overlays).
type ClientState struct {
	Input         input.Input
	ViewState     ViewState
	Paused        bool          // Stepping disabled; scroll still moves the field
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	hintTimer     float64       // Remaining seconds of the key hint
	notice        string        // Latest server notice
	noticeTimer   float64       // Remaining seconds of the notice
	prevOverlay   overlay       // Overlay drawn last frame
}

// overlay identifies what text is drawn over the canvas. Any change forces a
// full redraw so stale text does not linger on cells the diff would skip.
type overlay struct {
	state    ViewState
	inactive bool
	paused   bool
	hint     bool
	notice   string
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		ViewState: ViewStateRunning,
		Running:   true,
		hintTimer: config.HintSeconds,
	}
}

func (s *ClientState) overlay() overlay {
	return overlay{
		state:    s.ViewState,
		inactive: s.isInactive,
		paused:   s.Paused,
		hint:     s.hintTimer > 0,
		notice:   s.notice,
	}
}

// countdown decrements a timer by dt seconds, flooring at zero.
func countdown(timer *float64, dt float64) {
	if *timer > 0 {
		*timer -= dt
		if *timer < 0 {
			*timer = 0
		}
	}
}
