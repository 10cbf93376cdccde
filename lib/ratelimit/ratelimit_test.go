package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFirstWaitIsImmediate(t *testing.T) {
	i := NewInterval(time.Hour)
	slept := false
	i.sleep = func(context.Context, time.Duration) error {
		slept = true
		return nil
	}

	err := i.Wait(context.Background())
	require.NoError(t, err)
	require.False(t, slept)
}

func TestWaitSpacesCalls(t *testing.T) {
	now := time.Unix(1000, 0)
	i := NewInterval(time.Second)
	i.now = func() time.Time { return now }

	var sleptFor time.Duration
	i.sleep = func(_ context.Context, d time.Duration) error {
		sleptFor += d
		now = now.Add(d)
		return nil
	}

	require.NoError(t, i.Wait(context.Background()))
	require.Equal(t, time.Duration(0), sleptFor)

	// 300ms of work elapses, the limiter owes 700ms
	now = now.Add(300 * time.Millisecond)
	require.NoError(t, i.Wait(context.Background()))
	require.Equal(t, 700*time.Millisecond, sleptFor)
}

func TestZeroIntervalNeverSleeps(t *testing.T) {
	i := NewInterval(0)
	i.sleep = func(context.Context, time.Duration) error {
		t.Fatal("should not sleep")
		return nil
	}
	for n := 0; n < 3; n++ {
		require.NoError(t, i.Wait(context.Background()))
	}
}

func TestWaitHonorsCancellation(t *testing.T) {
	i := NewInterval(time.Minute)
	require.NoError(t, i.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := i.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
