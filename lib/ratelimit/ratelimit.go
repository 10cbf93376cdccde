// Package ratelimit provides a fixed-interval pacing primitive for
// scrapers that must keep a courtesy delay between requests to the
// same origin.
package ratelimit

import (
	"context"
	"time"
)

// Interval spaces calls to Wait at least `every` apart. The first call
// returns immediately. An Interval is owned by a single goroutine; it
// is not safe for concurrent use.
type Interval struct {
	every time.Duration
	last  time.Time
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

func NewInterval(every time.Duration) *Interval {
	return &Interval{
		every: every,
		now:   time.Now,
		sleep: sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until at least the configured interval has elapsed since
// the previous Wait returned, or the context is cancelled.
func (i *Interval) Wait(ctx context.Context) error {
	if i.every <= 0 {
		return ctx.Err()
	}
	if !i.last.IsZero() {
		elapsed := i.now().Sub(i.last)
		if remaining := i.every - elapsed; remaining > 0 {
			if err := i.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	i.last = i.now()
	return nil
}
