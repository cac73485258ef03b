package loop

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicker_RunsTicks(t *testing.T) {
	tk := NewTicker(200)
	var ticks atomic.Int32

	require.NoError(t, tk.Start(func() { ticks.Add(1) }))
	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)
	tk.Stop()
}

func TestTicker_NoTickAfterStop(t *testing.T) {
	tk := NewTicker(500)
	var ticks atomic.Int32

	require.NoError(t, tk.Start(func() { ticks.Add(1) }))
	assert.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, time.Millisecond)

	tk.Stop()
	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, after, ticks.Load())
	assert.False(t, tk.Running())
}

func TestTicker_StopIsIdempotent(t *testing.T) {
	tk := NewTicker(60)
	tk.Stop()

	require.NoError(t, tk.Start(func() {}))
	tk.Stop()
	tk.Stop()
	assert.False(t, tk.Running())
}

func TestTicker_StartTwice(t *testing.T) {
	tk := NewTicker(60)
	require.NoError(t, tk.Start(func() {}))
	defer tk.Stop()

	assert.ErrorIs(t, tk.Start(func() {}), ErrRunning)
}

func TestTicker_Restart(t *testing.T) {
	tk := NewTicker(200)
	var ticks atomic.Int32

	require.NoError(t, tk.Start(func() {}))
	tk.Stop()

	require.NoError(t, tk.Start(func() { ticks.Add(1) }))
	assert.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, time.Millisecond)
	tk.Stop()
}

func TestNewTicker_DefaultRate(t *testing.T) {
	assert.Equal(t, time.Second/DefaultFPS, NewTicker(0).Interval())
	assert.Equal(t, time.Second/30, NewTicker(30).Interval())
}

func TestManual_Pump(t *testing.T) {
	var m Manual
	ticks := 0

	assert.False(t, m.Pump(), "not started")

	require.NoError(t, m.Start(func() { ticks++ }))
	assert.ErrorIs(t, m.Start(func() {}), ErrRunning)
	assert.True(t, m.Pump())
	assert.True(t, m.Pump())
	assert.Equal(t, 2, ticks)

	m.Stop()
	m.Stop()
	assert.False(t, m.Pump())
	assert.Equal(t, 2, ticks)
	assert.False(t, m.Running())
}
