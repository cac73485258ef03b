package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/field"
	"github.com/tomz197/starfield/internal/input"
	"github.com/tomz197/starfield/internal/loop"
)

type circle struct {
	X, Y, Radius, Blur float64
	Color              draw.Color
}

// recordingSurface keeps the calls of the most recent frame.
type recordingSurface struct {
	mu         sync.Mutex
	width      float64
	height     float64
	gradients  int
	circles    []circle
	presents   int
	presentErr error
}

func newRecordingSurface(w, h float64) *recordingSurface {
	return &recordingSurface{width: w, height: h}
}

func (s *recordingSurface) Bounds() (float64, float64) { return s.width, s.height }

func (s *recordingSurface) FillVerticalGradient(top, bottom draw.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gradients++
	s.circles = s.circles[:0]
}

func (s *recordingSurface) FillCircle(cx, cy, radius float64, c draw.Color, blur float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.circles = append(s.circles, circle{X: cx, Y: cy, Radius: radius, Blur: blur, Color: c})
}

func (s *recordingSurface) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presents++
	return s.presentErr
}

func (s *recordingSurface) frame() []circle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]circle(nil), s.circles...)
}

func (s *recordingSurface) presented() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

func testOptions(count int, maxDepth float64, surface draw.Surface, sched loop.Scheduler) Options {
	opts := DefaultOptions()
	opts.ParticleCount = count
	opts.MaxDepth = maxDepth
	opts.Seed = 42
	opts.Viewport = field.NewViewport(100, 100, 1)
	opts.Surface = surface
	opts.Scheduler = sched
	opts.Clock = func() time.Duration { return 0 }
	return opts
}

func TestEngine_ScenarioA_TicksKeepParticlesBounded(t *testing.T) {
	sched := &loop.Manual{}
	surface := newRecordingSurface(100, 100)
	e, err := New(testOptions(10, 2, surface, sched))
	require.NoError(t, err)
	require.NoError(t, e.Start())
	defer e.Stop()

	for tick := 0; tick < 1000; tick++ {
		require.True(t, sched.Pump())
		require.Equal(t, 10, e.Field().Store().Len())
		e.Field().Store().Each(func(i int, p field.Particle) {
			require.GreaterOrEqual(t, p.Y, -field.Margin)
			require.LessOrEqual(t, p.Y, 100+field.Margin)
		})
	}
	assert.Equal(t, 1000, surface.presented())
	assert.Len(t, surface.frame(), 10)
}

func TestEngine_ScenarioB_ResizeBeforeTick(t *testing.T) {
	sched := &loop.Manual{}
	e, err := New(testOptions(25, 8, nil, sched))
	require.NoError(t, err)

	e.Resize(50, 50, 1)

	require.Equal(t, 25, e.Field().Store().Len())
	e.Field().Store().Each(func(i int, p field.Particle) {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.Less(t, p.X, 50.0)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.Less(t, p.Y, 50.0)
	})
}

func TestEngine_ResizeWhileRunningAppliesAtNextTick(t *testing.T) {
	sched := &loop.Manual{}
	e, err := New(testOptions(25, 8, nil, sched))
	require.NoError(t, err)
	require.NoError(t, e.Start())
	defer e.Stop()

	e.Resize(50, 40, 1)
	assert.Equal(t, field.NewViewport(100, 100, 1), e.Field().Viewport())

	e.SetFrozen(true)
	require.True(t, sched.Pump())
	assert.Equal(t, field.NewViewport(50, 40, 1), e.Field().Viewport())
	e.Field().Store().Each(func(i int, p field.Particle) {
		assert.Less(t, p.X, 50.0)
		assert.Less(t, p.Y, 40.0)
	})
}

func TestEngine_ScenarioC_ScrollParallax(t *testing.T) {
	sched := &loop.Manual{}
	surface := newRecordingSurface(100, 100)
	e, err := New(testOptions(20, 8, surface, sched))
	require.NoError(t, err)
	e.SetFrozen(true)
	require.NoError(t, e.Start())
	defer e.Stop()

	e.SetScroll(0)
	require.True(t, sched.Pump())
	before := surface.frame()

	e.SetScroll(500)
	require.True(t, sched.Pump())
	after := surface.frame()

	require.Len(t, before, 20)
	require.Len(t, after, 20)

	scrollOffset := 500.0 / 100.0
	for i, p := range e.Field().Store().Snapshot() {
		df := p.DepthFactor()
		assert.InDelta(t, scrollOffset*field.VerticalParallax*df, before[i].Y-after[i].Y, 1e-9, "particle %d", i)
		assert.InDelta(t, scrollOffset*field.HorizontalParallax*df, before[i].X-after[i].X, 1e-9, "particle %d", i)
	}
	assert.Equal(t, uint64(0), e.Field().Frame())
}

func TestEngine_StopIsIdempotent(t *testing.T) {
	sched := &loop.Manual{}
	surface := newRecordingSurface(100, 100)
	e, err := New(testOptions(5, 8, surface, sched))
	require.NoError(t, err)

	require.NoError(t, e.Start())
	require.True(t, sched.Pump())
	e.Stop()
	e.Stop()

	assert.False(t, e.Running())
	assert.False(t, sched.Pump())
	assert.Equal(t, 1, surface.presented())
}

func TestEngine_StartTwiceIsNoop(t *testing.T) {
	sched := &loop.Manual{}
	e, err := New(testOptions(5, 8, nil, sched))
	require.NoError(t, err)

	require.NoError(t, e.Start())
	require.NoError(t, e.Start())
	e.Stop()
	assert.False(t, sched.Running())
}

func TestEngine_NoTickAfterStopWithTicker(t *testing.T) {
	surface := newRecordingSurface(100, 100)
	e, err := New(testOptions(5, 8, surface, loop.NewTicker(200)))
	require.NoError(t, err)

	require.NoError(t, e.Start())
	require.Eventually(t, func() bool { return surface.presented() > 2 }, 2*time.Second, time.Millisecond)
	e.Stop()

	n := surface.presented()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, surface.presented())
}

func TestEngine_NilSurfaceStillSteps(t *testing.T) {
	sched := &loop.Manual{}
	e, err := New(testOptions(5, 8, nil, sched))
	require.NoError(t, err)
	require.NoError(t, e.Start())
	defer e.Stop()

	require.NotPanics(t, func() {
		sched.Pump()
		sched.Pump()
	})
	assert.Equal(t, uint64(2), e.Field().Frame())
	assert.NoError(t, e.Err())
}

func TestEngine_PresentErrorStopsTicks(t *testing.T) {
	sched := &loop.Manual{}
	surface := newRecordingSurface(100, 100)
	surface.presentErr = errors.New("broken pipe")
	e, err := New(testOptions(5, 8, surface, sched))
	require.NoError(t, err)
	require.NoError(t, e.Start())

	sched.Pump()
	sched.Pump()

	select {
	case <-e.Done():
	default:
		t.Fatal("done not closed")
	}
	require.Error(t, e.Err())
	assert.ErrorIs(t, e.Err(), surface.presentErr)
	assert.Equal(t, 1, surface.presented())
	assert.Equal(t, uint64(1), e.Field().Frame())
	e.Stop()
}

func TestEngine_RestartAfterPresentError(t *testing.T) {
	sched := &loop.Manual{}
	surface := newRecordingSurface(100, 100)
	surface.presentErr = errors.New("broken pipe")
	e, err := New(testOptions(5, 8, surface, sched))
	require.NoError(t, err)
	require.NoError(t, e.Start())

	sched.Pump()
	require.Error(t, e.Err())
	failed := e.Done()
	e.Stop()

	surface.presentErr = nil
	require.NoError(t, e.Start())
	defer e.Stop()
	assert.NoError(t, e.Err())
	select {
	case <-e.Done():
		t.Fatal("done still closed after restart")
	default:
	}

	sched.Pump()
	sched.Pump()
	assert.NoError(t, e.Err())
	assert.Equal(t, uint64(3), e.Field().Frame())
	assert.Equal(t, 3, surface.presented())

	select {
	case <-failed:
	default:
		t.Fatal("earlier done channel reopened")
	}
}

func TestEngine_MountUnmountLeavesNoListeners(t *testing.T) {
	host := input.NewDispatcher(80, 60, 2)
	host.Scroll(120)

	for i := 0; i < 5; i++ {
		e, err := New(testOptions(5, 8, nil, &loop.Manual{}))
		require.NoError(t, err)

		require.NoError(t, e.Mount(host))
		assert.Equal(t, 1, host.Len())
		assert.Equal(t, field.NewViewport(80, 60, 2), e.Field().Viewport())
		assert.Equal(t, 120.0, e.Scroll())

		host.Scroll(300)
		assert.Equal(t, 300.0, e.Scroll())

		e.Unmount()
		e.Unmount()
		assert.Equal(t, 0, host.Len())
		host.Scroll(120)
	}
}

func TestEngine_HostResizeRegenerates(t *testing.T) {
	host := input.NewDispatcher(100, 100, 1)
	sched := &loop.Manual{}
	e, err := New(testOptions(10, 8, nil, sched))
	require.NoError(t, err)
	require.NoError(t, e.Mount(host))
	defer e.Unmount()

	host.Resize(30, 20, 1)
	require.True(t, sched.Pump())
	assert.Equal(t, field.NewViewport(30, 20, 1), e.Field().Viewport())
}

func TestEngine_RunReturnsOnCancel(t *testing.T) {
	e, err := New(testOptions(5, 8, nil, loop.NewTicker(120)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- e.Run(ctx) }()

	require.Eventually(t, e.Running, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.False(t, e.Running())
}

func TestEngine_RunReturnsPresentError(t *testing.T) {
	surface := newRecordingSurface(100, 100)
	surface.presentErr = errors.New("closed")
	e, err := New(testOptions(5, 8, surface, loop.NewTicker(120)))
	require.NoError(t, err)

	err = e.Run(context.Background())
	assert.ErrorIs(t, err, surface.presentErr)
	assert.False(t, e.Running())
}

func TestEngine_NewRejectsInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.ParticleCount = 0
	opts.MaxDepth = -1

	_, err := New(opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParticleCount)
	assert.ErrorIs(t, err, ErrInvalidMaxDepth)
}

func TestEngine_ViewportFromSurfaceBounds(t *testing.T) {
	opts := DefaultOptions()
	opts.ParticleCount = 3
	opts.Seed = 1
	opts.Surface = newRecordingSurface(64, 48)
	opts.Scheduler = &loop.Manual{}

	e, err := New(opts)
	require.NoError(t, err)
	assert.Equal(t, field.NewViewport(64, 48, 1), e.Field().Viewport())
}
