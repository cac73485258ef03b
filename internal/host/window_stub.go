//go:build !cgo

package host

import (
	"errors"

	"github.com/tomz197/starfield/internal/engine"
)

// ErrNoWindow is returned when the binary was built without cgo.
var ErrNoWindow = errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")

// WindowOptions configures the desktop window.
type WindowOptions struct {
	Title            string
	Width, Height    int
	Fullscreen       bool
	Floating         bool
	MousePassthrough bool
}

// RunWindow always fails without cgo.
func RunWindow(_ engine.Options, _ WindowOptions) error {
	return ErrNoWindow
}
