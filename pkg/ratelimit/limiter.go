// Package ratelimit paces outgoing registry requests.
//
// A [Limiter] enforces two rules for every client that shares it:
//   - at most one request is in flight at a time
//   - consecutive request starts are at least the configured interval apart
//
// The crates.io crawler policy asks for one request per second or less, so
// the interval is usually a second. A zero interval still serializes
// requests; it only removes the spacing.
//
// # Usage
//
//	limiter := ratelimit.New(time.Second)
//
//	permit, err := limiter.Acquire(ctx)
//	if err != nil {
//	    return err // ctx was cancelled while waiting
//	}
//	resp, err := httpClient.Do(req)
//	if err != nil {
//	    permit.Abort() // never reached the server: keep the previous stamp
//	    return err
//	}
//	defer permit.Release()
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Limiter serializes requests and spaces their start times.
//
// All methods are safe for concurrent use. A Limiter holds no goroutines
// and needs no cleanup.
type Limiter struct {
	interval time.Duration
	slot     *semaphore.Weighted

	// last is the start time of the most recent committed request.
	// It is only read or written while holding slot.
	last time.Time

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// New creates a Limiter with the given minimum spacing between request
// starts. Negative intervals are treated as zero.
func New(interval time.Duration) *Limiter {
	return &Limiter{
		interval: max(interval, 0),
		slot:     semaphore.NewWeighted(1),
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Interval returns the configured minimum spacing.
func (l *Limiter) Interval() time.Duration { return l.interval }

// Acquire blocks until the caller may start a request, then returns a
// permit that holds the in-flight slot. Acquire fails only if ctx is done
// before the slot is granted and the interval has elapsed.
func (l *Limiter) Acquire(ctx context.Context) (*Permit, error) {
	if err := l.slot.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	if !l.last.IsZero() {
		if wait := l.interval - l.now().Sub(l.last); wait > 0 {
			if err := l.sleep(ctx, wait); err != nil {
				l.slot.Release(1)
				return nil, err
			}
		}
	}

	return &Permit{limiter: l, start: l.now()}, nil
}

// Permit is the right to run exactly one request. It must be ended with
// either Release or Abort; further calls are no-ops.
type Permit struct {
	limiter *Limiter
	start   time.Time
	once    sync.Once
}

// Start returns the time at which the permit was granted.
func (p *Permit) Start() time.Time { return p.start }

// Release records the permit's start time as the latest request start and
// frees the slot. Call it once the request has been answered, whatever the
// HTTP status.
func (p *Permit) Release() {
	p.once.Do(func() {
		p.limiter.last = p.start
		p.limiter.slot.Release(1)
	})
}

// Abort frees the slot without recording a start time. Use it when the
// request failed before reaching the server.
func (p *Permit) Abort() {
	p.once.Do(func() {
		p.limiter.slot.Release(1)
	})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
