// internal/platform/rate/rate.go

// Package rate implements a token bucket limiter used to pace outbound
// requests from lookup units.
package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket: tokens refill at a fixed per-second rate up
// to the burst capacity, and each operation consumes one token.
type Limiter struct {
	perSec float64
	burst  float64

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// New builds a limiter allowing perSec operations per second with the
// given burst capacity. Non-positive arguments are clamped to 1.
func New(perSec float64, burst int) *Limiter {
	if perSec <= 0 {
		perSec = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		perSec: perSec,
		burst:  float64(burst),
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// Allow consumes a token if one is available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill(time.Now())
	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}

// Wait blocks until a token is available or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.untilNextToken()):
		}
	}
}

// Tokens reports the currently available tokens.
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill(time.Now())
	return l.tokens
}

// Reset refills the bucket to capacity.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tokens = l.burst
	l.last = time.Now()
}

// refill credits tokens for the elapsed time. Caller holds l.mu.
func (l *Limiter) refill(now time.Time) {
	l.tokens += now.Sub(l.last).Seconds() * l.perSec
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.last = now
}

func (l *Limiter) untilNextToken() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill(time.Now())
	if l.tokens >= 1 {
		return 0
	}
	missing := 1 - l.tokens
	return time.Duration(missing / l.perSec * float64(time.Second))
}
