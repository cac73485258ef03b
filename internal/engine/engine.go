// Package engine runs the ambient star field: it owns one field, paints it
// onto a surface every tick and couples it to a host's viewport and scroll
// readings.
//
// All simulation and painting happen on the scheduler's tick goroutine.
// Resize and SetScroll may be called from any goroutine; they only write
// atomic cells that the next tick picks up.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/field"
	"github.com/tomz197/starfield/internal/input"
	"github.com/tomz197/starfield/internal/loop"
)

// Host supplies viewport and scroll readings and a way to subscribe to changes.
// *input.Dispatcher implements it.
type Host interface {
	Viewport() (width, height, dpr float64)
	ScrollY() float64
	Subscribe(l input.Listener) (unsubscribe func())
}

// Engine is a single star field instance.
type Engine struct {
	opts     Options
	log      *log.Logger
	field    *field.Field
	renderer Renderer
	sched    loop.Scheduler
	surface  draw.Surface
	clock    func() time.Duration

	scrollBits atomic.Uint64
	pending    atomic.Pointer[field.Viewport]
	stopped    atomic.Bool // Teardown flag checked at the top of every tick
	frozen     atomic.Bool

	mu          sync.Mutex // Lifecycle only; never held by a tick
	running     bool
	unsubscribe func()

	errMu sync.Mutex // Guards err and done, which a failed run replaces on Start
	err   error
	done  chan struct{}
}

// New validates opts and builds an engine with a fully generated field.
// The engine starts stopped.
func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("engine options: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	rng := opts.Rand
	if rng == nil {
		if opts.Seed != 0 {
			rng = field.NewRand(opts.Seed)
		} else {
			rng = field.NewTimeRand()
		}
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = loop.NewTicker(opts.FPS)
	}
	clock := opts.Clock
	if clock == nil {
		start := time.Now()
		clock = func() time.Duration { return time.Since(start) }
	}

	vp := opts.Viewport
	if vp == (field.Viewport{}) && opts.Surface != nil {
		w, h := opts.Surface.Bounds()
		vp = field.Viewport{Width: w, Height: h, DPR: 1}
	}
	vp = field.NewViewport(vp.Width, vp.Height, vp.DPR)

	e := &Engine{
		opts:  opts,
		log:   logger,
		field: field.New(opts.ParticleCount, opts.MaxDepth, rng, vp),
		renderer: Renderer{
			Color:      opts.Color,
			Background: opts.Background,
			Compositor: field.Compositor{AutoMoveSpeed: opts.AutoMoveSpeed},
		},
		sched:   sched,
		surface: opts.Surface,
		clock:   clock,
		done:    make(chan struct{}),
	}
	e.stopped.Store(true)
	return e, nil
}

// Resize requests a full regeneration for a new viewport. While running the
// request is applied at the start of the next tick; otherwise immediately.
func (e *Engine) Resize(width, height, dpr float64) {
	vp := field.NewViewport(width, height, dpr)
	e.pending.Store(&vp)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		e.applyPending()
	}
}

// SetScroll records the latest scroll offset in logical pixels.
func (e *Engine) SetScroll(y float64) {
	if math.IsNaN(y) || math.IsInf(y, 0) {
		y = 0
	}
	e.scrollBits.Store(math.Float64bits(y))
}

// Scroll returns the latest scroll offset.
func (e *Engine) Scroll() float64 {
	return math.Float64frombits(e.scrollBits.Load())
}

// OnResize implements input.Listener.
func (e *Engine) OnResize(width, height, dpr float64) {
	e.Resize(width, height, dpr)
}

// OnScroll implements input.Listener.
func (e *Engine) OnScroll(y float64) {
	e.SetScroll(y)
}

// SetFrozen disables or re-enables stepping. A frozen engine still renders,
// with the frame counter held, so only scroll moves particles on screen.
func (e *Engine) SetFrozen(frozen bool) {
	e.frozen.Store(frozen)
}

// Field returns the simulated field. Only read it from the tick goroutine,
// or while the engine is stopped.
func (e *Engine) Field() *field.Field {
	return e.field
}

// Start begins ticking. Calling Start on a running engine does nothing.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}
	e.resetErr()
	e.stopped.Store(false)
	if err := e.sched.Start(e.tick); err != nil {
		e.stopped.Store(true)
		return fmt.Errorf("start scheduler: %w", err)
	}
	e.running = true
	return nil
}

// Stop halts ticking. It is idempotent; once it returns no tick runs.
// The engine can be started again.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.stopped.Store(true)
	e.sched.Stop()
	e.running = false

	// Anything posted during the last tick still applies
	e.applyPending()
}

// Running reports whether the engine is between Start and Stop.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Mount reads the host's current viewport and scroll, subscribes to its
// updates and starts ticking.
func (e *Engine) Mount(h Host) error {
	width, height, dpr := h.Viewport()
	e.Resize(width, height, dpr)
	e.SetScroll(h.ScrollY())

	e.mu.Lock()
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	e.unsubscribe = h.Subscribe(e)
	e.mu.Unlock()

	return e.Start()
}

// Unmount stops ticking and removes the subscription made by Mount.
func (e *Engine) Unmount() {
	e.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// Done is closed when presenting a frame fails. The owner should Stop.
func (e *Engine) Done() <-chan struct{} {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.done
}

// Err returns the presenting error that closed Done, if any.
func (e *Engine) Err() error {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.err
}

// Advance applies any pending resize and, unless frozen, steps the field once.
// Call it only from the tick goroutine or while stopped.
func (e *Engine) Advance() {
	e.applyPending()
	if !e.frozen.Load() {
		e.field.Step()
	}
}

// RenderTo paints the current state onto s. Hosts that paint outside the tick
// (such as a game engine's draw callback) use it with their own surface.
func (e *Engine) RenderTo(s draw.Surface) {
	e.renderer.Render(s, e.field, e.Scroll(), e.clock())
}

// tick is the scheduled per-frame callback.
func (e *Engine) tick() {
	if e.stopped.Load() {
		return
	}
	e.Advance()
	if e.surface == nil {
		return
	}
	e.RenderTo(e.surface)

	if p, ok := e.surface.(draw.Presenter); ok {
		if err := p.Present(); err != nil {
			e.fail(err)
		}
	}
}

// fail records the first presenting error and prevents further ticks from
// touching state.
func (e *Engine) fail(err error) {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	if e.err != nil {
		return
	}
	e.err = fmt.Errorf("present frame: %w", err)
	e.stopped.Store(true)
	e.log.Warn("star field stopped", "err", err)
	close(e.done)
}

// resetErr clears a previous run's failure so a restarted engine reports
// only its own.
func (e *Engine) resetErr() {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	if e.err == nil {
		return
	}
	e.err = nil
	e.done = make(chan struct{})
}

func (e *Engine) applyPending() {
	vp := e.pending.Swap(nil)
	if vp == nil {
		return
	}
	if *vp == e.field.Viewport() {
		return
	}
	e.field.Resize(vp.Width, vp.Height, vp.DPR)
	e.log.Debug("star field resized", "width", vp.Width, "height", vp.Height, "dpr", vp.DPR)
}

// Run starts the engine and blocks until ctx is cancelled or presenting fails.
// The engine is stopped on return.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Start(); err != nil {
		return err
	}
	defer e.Stop()
	done := e.Done()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	case <-done:
		return e.Err()
	}
}
