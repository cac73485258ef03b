// Package config centralizes the tunables of the terminal hosts.
package config

import "github.com/tomz197/starfield/internal/input"

// Client rendering
const (
	ClientTargetFPS = 60

	// TermDPR maps logical pixels onto half-block sub-pixels: one sub-pixel
	// covers 1/TermDPR logical pixels in each direction.
	TermDPR = 0.25
)

// Max render resolution in terminal cells. Larger terminals get a centered,
// bordered render area.
const (
	MaxTermWidth  = 240
	MaxTermHeight = 70
)

// Scrolling, in logical pixels
const (
	ScrollStep     = 40.0  // Arrow keys, j/k, one wheel notch
	ScrollPageStep = 400.0 // PgUp/PgDn, space
	ScrollMax      = 6000.0
)

// ScrollSteps bundles the scroll sizes for input.Dispatcher.Apply.
var ScrollSteps = input.ScrollSteps{Line: ScrollStep, Page: ScrollPageStep, Max: ScrollMax}

// Overlay text
const (
	HintSeconds   = 6.0 // Key hint shown after connecting
	NoticeSeconds = 5.0 // Server notices
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 600 // Seconds
	InactivityDisconnectUser = 900 // Seconds
)
