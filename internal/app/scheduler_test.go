package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingResyncer struct {
	calls atomic.Int32
	err   error
}

func (c *countingResyncer) Resync(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestSchedulerResyncsPeriodically(t *testing.T) {
	t.Parallel()

	r := &countingResyncer{}
	s := NewScheduler(r, 10*time.Millisecond, zap.NewNop())
	s.Start(context.Background())

	require.Eventually(t, func() bool {
		return r.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	stopped := r.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, r.calls.Load())

	// повторный Stop безопасен
	s.Stop()
}

func TestSchedulerKeepsRunningAfterErrors(t *testing.T) {
	t.Parallel()

	r := &countingResyncer{err: errors.New("db down")}
	s := NewScheduler(r, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	require.Eventually(t, func() bool {
		return r.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	s.Stop()
}

func TestSchedulerDisabled(t *testing.T) {
	t.Parallel()

	r := &countingResyncer{}
	s := NewScheduler(r, 0, zap.NewNop())
	s.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	assert.Zero(t, r.calls.Load())
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := NewLogger("development", "loud")
	require.Error(t, err)

	logger, err := NewLogger("production", "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
}
