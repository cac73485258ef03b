package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/field"
	"github.com/tomz197/starfield/internal/loop"
)

// Defaults for the construction-time options.
const (
	DefaultParticleCount = 300
	DefaultMaxDepth      = 8.0
	DefaultAutoMoveSpeed = 0.5
	DefaultFPS           = loop.DefaultFPS
)

// Safe minimums used by Sanitize.
const (
	MinParticleCount = 1
	MinMaxDepth      = 0.5
)

// Validation errors.
var (
	ErrInvalidParticleCount = errors.New("particle count must be positive")
	ErrInvalidMaxDepth      = errors.New("max depth must be positive")
	ErrInvalidAutoMoveSpeed = errors.New("auto move speed must be finite")
	ErrInvalidFPS           = errors.New("fps must be positive")
)

// Options configures an Engine. Start from DefaultOptions.
type Options struct {
	ParticleCount int
	Color         draw.Color
	MaxDepth      float64
	AutoMoveSpeed float64
	FPS           int

	// Seed fixes the random source; 0 seeds from the clock.
	Seed uint64
	// Rand overrides Seed when set.
	Rand field.RandSource

	// Viewport is the initial layout. When zero and Surface is set, the
	// surface bounds are used.
	Viewport field.Viewport
	// Surface is painted every tick. Nil leaves rendering a no-op.
	Surface draw.Surface
	// Scheduler drives ticks; nil means loop.NewTicker(FPS).
	Scheduler loop.Scheduler
	// Clock feeds the twinkle phase; nil means time since New.
	Clock func() time.Duration
	// Background gradient, top to bottom.
	Background Gradient

	Logger *log.Logger
}

// Gradient is a two-stop vertical gradient.
type Gradient struct {
	Top, Bottom draw.Color
}

// DefaultBackground is the deep violet night sky.
var DefaultBackground = Gradient{
	Top:    draw.RGB(6, 6, 23),
	Bottom: draw.RGB(18, 3, 40),
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		ParticleCount: DefaultParticleCount,
		Color:         draw.RGB(255, 255, 255),
		MaxDepth:      DefaultMaxDepth,
		AutoMoveSpeed: DefaultAutoMoveSpeed,
		FPS:           DefaultFPS,
		Background:    DefaultBackground,
	}
}

// Validate reports every invalid field.
func (o Options) Validate() error {
	var errs []error
	if o.ParticleCount <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidParticleCount, o.ParticleCount))
	}
	if !(o.MaxDepth > 0) || math.IsInf(o.MaxDepth, 0) {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrInvalidMaxDepth, o.MaxDepth))
	}
	if math.IsNaN(o.AutoMoveSpeed) || math.IsInf(o.AutoMoveSpeed, 0) {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrInvalidAutoMoveSpeed, o.AutoMoveSpeed))
	}
	if o.FPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidFPS, o.FPS))
	}
	return errors.Join(errs...)
}

// Sanitize clamps invalid fields to safe values instead of rejecting them.
func (o Options) Sanitize() Options {
	if o.ParticleCount <= 0 {
		o.ParticleCount = MinParticleCount
	}
	if !(o.MaxDepth > 0) || math.IsInf(o.MaxDepth, 0) {
		o.MaxDepth = MinMaxDepth
	}
	if math.IsNaN(o.AutoMoveSpeed) || math.IsInf(o.AutoMoveSpeed, 0) {
		o.AutoMoveSpeed = DefaultAutoMoveSpeed
	}
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	return o
}
