package input

import (
	"sync"

	"github.com/tomz197/starfield/internal/physics"
)

// Listener receives viewport and scroll readings.
// Callbacks run on the goroutine that delivered the reading and must not block.
type Listener interface {
	OnResize(width, height, dpr float64)
	OnScroll(y float64)
}

// Dispatcher is the host side of the listener contract: it keeps the latest
// viewport and scroll readings and forwards changes to subscribers.
//
// Subscribe hands back the exact function that removes the subscription, so
// teardown always unregisters the same handler that was registered.
type Dispatcher struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener

	width, height, dpr float64
	scrollY            float64
}

// NewDispatcher creates a dispatcher with an initial viewport.
func NewDispatcher(width, height, dpr float64) *Dispatcher {
	return &Dispatcher{
		listeners: make(map[int]Listener),
		width:     width,
		height:    height,
		dpr:       dpr,
	}
}

// Subscribe registers l. The returned function is idempotent.
func (d *Dispatcher) Subscribe(l Listener) (unsubscribe func()) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.listeners, id)
			d.mu.Unlock()
		})
	}
}

// Len returns the number of active subscriptions.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// Viewport returns the latest viewport reading.
func (d *Dispatcher) Viewport() (width, height, dpr float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height, d.dpr
}

// ScrollY returns the latest scroll reading.
func (d *Dispatcher) ScrollY() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scrollY
}

// Resize records a viewport and notifies listeners if it changed.
func (d *Dispatcher) Resize(width, height, dpr float64) {
	d.mu.Lock()
	if width == d.width && height == d.height && dpr == d.dpr {
		d.mu.Unlock()
		return
	}
	d.width, d.height, d.dpr = width, height, dpr
	targets := d.snapshot()
	d.mu.Unlock()

	for _, l := range targets {
		l.OnResize(width, height, dpr)
	}
}

// Scroll records an absolute scroll position and notifies listeners if it changed.
func (d *Dispatcher) Scroll(y float64) {
	d.mu.Lock()
	if y == d.scrollY {
		d.mu.Unlock()
		return
	}
	d.scrollY = y
	targets := d.snapshot()
	d.mu.Unlock()

	for _, l := range targets {
		l.OnScroll(y)
	}
}

// ScrollBy moves the scroll position by delta, clamped to [0, limit], and
// returns the new position.
func (d *Dispatcher) ScrollBy(delta, limit float64) float64 {
	y := physics.Clamp(d.ScrollY()+delta, 0, limit)
	d.Scroll(y)
	return y
}

// snapshot copies the listener set. Caller holds d.mu.
func (d *Dispatcher) snapshot() []Listener {
	out := make([]Listener, 0, len(d.listeners))
	for _, l := range d.listeners {
		out = append(out, l)
	}
	return out
}

// ScrollSteps sizes key-driven scrolling, in logical pixels.
type ScrollSteps struct {
	Line float64
	Page float64
	Max  float64
}

// Apply moves the scroll position for the Home/End jumps and the line and
// page deltas carried by in.
func (d *Dispatcher) Apply(in Input, steps ScrollSteps) {
	if in.Home {
		d.Scroll(0)
	}
	if in.End {
		d.Scroll(steps.Max)
	}
	delta := float64(in.ScrollLines)*steps.Line + float64(in.ScrollPages)*steps.Page
	if delta != 0 {
		d.ScrollBy(delta, steps.Max)
	}
}
