package workflow

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/service_plan/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestDeleteGuardTwoStep(t *testing.T) {
	t.Parallel()

	t.Run("first click never deletes", func(t *testing.T) {
		g := NewDeleteGuard(clock.NewManual(epoch), DefaultDeleteWindow)
		assert.False(t, g.Click())
		assert.True(t, g.Armed())
	})

	t.Run("second click within window deletes", func(t *testing.T) {
		c := clock.NewManual(epoch)
		g := NewDeleteGuard(c, DefaultDeleteWindow)

		require.False(t, g.Click())
		c.Advance(2999 * time.Millisecond)
		assert.True(t, g.Click())
		assert.False(t, g.Armed())
	})

	t.Run("click after window is a first click again", func(t *testing.T) {
		c := clock.NewManual(epoch)
		g := NewDeleteGuard(c, DefaultDeleteWindow)

		require.False(t, g.Click())
		c.Advance(3 * time.Second)
		assert.False(t, g.Armed())
		assert.False(t, g.Click(), "expired arm must not confirm")
		assert.True(t, g.Armed())

		c.Advance(time.Second)
		assert.True(t, g.Click())
	})

	t.Run("reset disarms", func(t *testing.T) {
		g := NewDeleteGuard(clock.NewManual(epoch), DefaultDeleteWindow)
		require.False(t, g.Click())
		g.Reset()
		assert.False(t, g.Armed())
		assert.False(t, g.Click())
	})
}

func TestDeleteGuardTimerCallsOnDisarm(t *testing.T) {
	t.Parallel()

	g := NewDeleteGuard(clock.NewSystem(), 20*time.Millisecond)
	var fired atomic.Int32
	g.OnDisarm(func() { fired.Add(1) })

	require.False(t, g.Click())
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, g.Armed())
}

func TestDeleteGuardResetSuppressesOnDisarm(t *testing.T) {
	t.Parallel()

	g := NewDeleteGuard(clock.NewSystem(), 20*time.Millisecond)
	var fired atomic.Int32
	g.OnDisarm(func() { fired.Add(1) })

	require.False(t, g.Click())
	g.Reset()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestDeleteGuardRearmRestartsTimer(t *testing.T) {
	t.Parallel()

	c := clock.NewManual(epoch)
	g := NewDeleteGuard(c, 200*time.Millisecond)
	var fired atomic.Int32
	g.OnDisarm(func() { fired.Add(1) })

	require.False(t, g.Click())
	c.Advance(time.Second)
	require.False(t, g.Click(), "stale arm re-arms")

	require.Eventually(t, func() bool { return fired.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load(), "first timer must be superseded")
}
