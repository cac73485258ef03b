// Package loop provides the frame schedulers that drive the star field:
// a goroutine-plus-ticker loop for standalone hosts and a manual pump for
// hosts that already own an event loop.
package loop

import (
	"errors"
	"sync"
	"time"
)

// ErrRunning is returned by Start when the scheduler is already running.
var ErrRunning = errors.New("scheduler already running")

// Scheduler runs a tick callback once per frame between Start and Stop.
//
// Stop is idempotent, and once it returns no tick is running or will run.
// It must not be called from inside the tick callback.
type Scheduler interface {
	Start(tick func()) error
	Stop()
}

// DefaultFPS is used when a non-positive rate is requested.
const DefaultFPS = 60

// Ticker calls tick from its own goroutine at a fixed rate.
// A tick that overruns its slot delays the next one; missed slots are dropped.
type Ticker struct {
	interval time.Duration

	mu   sync.Mutex
	quit chan struct{}
	done chan struct{}
}

// NewTicker creates a ticker running at fps frames per second.
func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Ticker{interval: time.Second / time.Duration(fps)}
}

// Interval returns the time between ticks.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Start launches the tick goroutine. It can be called again after Stop.
func (t *Ticker) Start(tick func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.quit != nil {
		return ErrRunning
	}
	t.quit = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(tick, t.quit, t.done)
	return nil
}

func (t *Ticker) run(tick func(), quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-quit:
			return
		case <-tk.C:
			// Both channels can be ready at once; quit wins
			select {
			case <-quit:
				return
			default:
			}
			tick()
		}
	}
}

// Stop signals the goroutine and waits for it to exit.
func (t *Ticker) Stop() {
	t.mu.Lock()
	quit, done := t.quit, t.done
	t.quit, t.done = nil, nil
	t.mu.Unlock()

	if quit == nil {
		return
	}
	close(quit)
	<-done
}

// Running reports whether the tick goroutine is active.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.quit != nil
}

// Manual runs a tick only when the host calls Pump, e.g. from a game
// engine's update callback or from a test.
type Manual struct {
	mu   sync.Mutex
	tick func()
}

// Start registers the tick callback.
func (m *Manual) Start(tick func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tick != nil {
		return ErrRunning
	}
	m.tick = tick
	return nil
}

// Stop drops the callback. A Pump in progress finishes first.
func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick = nil
}

// Pump runs one tick. Returns false when stopped.
func (m *Manual) Pump() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tick == nil {
		return false
	}
	m.tick()
	return true
}

// Running reports whether a callback is registered.
func (m *Manual) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tick != nil
}

// Compile-time checks.
var (
	_ Scheduler = (*Ticker)(nil)
	_ Scheduler = (*Manual)(nil)
)
