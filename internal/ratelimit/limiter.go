// Package ratelimit paces outgoing authenticated requests on the client side.
package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter allows a number of requests per period with a burst of the same size.
// A nil *Limiter never blocks.
type Limiter struct {
	limiter  *rate.Limiter
	requests int
	period   time.Duration

	admitted atomic.Int64
	canceled atomic.Int64
	waited   atomic.Int64
}

// New returns a limiter admitting requests per period, or nil when requests or period
// is not positive.
func New(requests int, period time.Duration) *Limiter {
	if requests <= 0 || period <= 0 {
		return nil
	}
	every := period / time.Duration(requests)
	return &Limiter{
		limiter:  rate.NewLimiter(rate.Every(every), requests),
		requests: requests,
		period:   period,
	}
}

// Wait blocks until a request may be sent or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		l.canceled.Add(1)
		return fmt.Errorf("rate limit wait: %w", err)
	}
	l.admitted.Add(1)
	if time.Since(start) > time.Millisecond {
		l.waited.Add(1)
	}
	return nil
}

// Allow reports whether a request may be sent now without waiting.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	if !l.limiter.Allow() {
		return false
	}
	l.admitted.Add(1)
	return true
}

// String describes the configured pace, e.g. "600/1m0s".
func (l *Limiter) String() string {
	if l == nil {
		return "unlimited"
	}
	return fmt.Sprintf("%d/%s", l.requests, l.period)
}

// Stats returns a snapshot of limiter usage.
func (l *Limiter) Stats() Stats {
	if l == nil {
		return Stats{}
	}
	return Stats{
		Admitted: l.admitted.Load(),
		Canceled: l.canceled.Load(),
		Waited:   l.waited.Load(),
	}
}

// Stats is a point-in-time capture of limiter usage.
type Stats struct {
	// Admitted counts requests let through.
	Admitted int64
	// Canceled counts waits abandoned because the context ended.
	Canceled int64
	// Waited counts admitted requests that had to block first.
	Waited int64
}
