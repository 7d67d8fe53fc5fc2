// Package throttle limits how fast one connection may submit commands.
package throttle

import (
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket for one connection. It is used only by that
// connection's read goroutine and consulted before the state lock is taken.
type Limiter struct {
	bucket *rate.Limiter
	now    func() time.Time
}

type LimiterOpt func(*Limiter)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) LimiterOpt {
	return func(l *Limiter) {
		l.now = now
	}
}

// NewLimiter admits burst commands at once and refills perSecond tokens
// every second.
func NewLimiter(burst int, perSecond float64, opts ...LimiterOpt) *Limiter {
	l := &Limiter{
		bucket: rate.NewLimiter(rate.Limit(perSecond), burst),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow takes a token if one is available.
func (l *Limiter) Allow() bool {
	return l.bucket.AllowN(l.now(), 1)
}
