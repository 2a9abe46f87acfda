// Package backoff provides retry delay strategies for failed jobs.
// All strategies are safe for concurrent use (they are stateless).
package backoff

import (
	"math"
	"time"
)

// Strategy computes the delay before a retry attempt.
type Strategy interface {
	// Delay returns how long to wait before the next attempt, given the
	// number of attempts already made (1-indexed: after the first failed
	// attempt n is 1).
	Delay(attempt int) time.Duration
}

// ──────────────────────────────────────────────────
// Constant
// ──────────────────────────────────────────────────

// Constant always returns the same delay regardless of attempt number.
type Constant struct {
	Interval time.Duration
}

// NewConstant creates a constant backoff strategy.
func NewConstant(interval time.Duration) *Constant {
	return &Constant{Interval: interval}
}

// Delay returns the fixed interval.
func (c *Constant) Delay(_ int) time.Duration {
	return c.Interval
}

// ──────────────────────────────────────────────────
// Exponential
// ──────────────────────────────────────────────────

// Exponential waits Base^attempt seconds: with Base 2 the first retry
// waits 2s, the second 4s, the third 8s. Max, when positive, caps the
// delay so a large attempt count cannot push a retry years out.
type Exponential struct {
	Base int
	Max  time.Duration
}

// NewExponential creates an exponential backoff strategy.
func NewExponential(base int, maxDelay time.Duration) *Exponential {
	return &Exponential{Base: base, Max: maxDelay}
}

// Delay returns Base^attempt seconds, capped at Max.
func (e *Exponential) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	secs := math.Pow(float64(e.Base), float64(attempt))
	d := time.Duration(secs * float64(time.Second))
	if e.Max > 0 && (d > e.Max || d < 0) {
		return e.Max
	}
	return d
}

// ──────────────────────────────────────────────────
// Default
// ──────────────────────────────────────────────────

// Default returns the strategy used when no backoff-base is configured:
// exponential with base 2, capped at one hour.
func Default() Strategy {
	return NewExponential(2, time.Hour)
}
