package transport

import (
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy defines the interface for calculating retry delays.
// Implementations should be safe for concurrent use.
type BackoffStrategy interface {
	// NextInterval returns the next backoff duration based on the attempt number.
	// Attempt starts at 1 for the first retry.
	NextInterval(attempt int) time.Duration
}

// ExponentialBackoff implements exponential backoff with optional jitter.
// Jitter prevents thundering herd when multiple clients retry simultaneously.
type ExponentialBackoff struct {
	MinTimeout time.Duration
	Factor     float64
	Randomize  bool
}

// NextInterval calculates the delay before retry n as MinTimeout * Factor^(n-1).
// With Randomize set, the result is multiplied by a random factor in [1, 2) so
// synchronized clients spread their retries out.
func (e ExponentialBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	min := e.MinTimeout
	if min == 0 {
		min = 10 * time.Millisecond
	}

	factor := e.Factor
	if factor == 0 {
		factor = 6
	}

	interval := float64(min) * math.Pow(factor, float64(attempt-1))

	if e.Randomize {
		interval *= 1 + rand.Float64()
	}

	return time.Duration(interval)
}

// FixedBackoff implements a constant delay between retries.
type FixedBackoff struct {
	// Interval is the fixed delay between retries
	Interval time.Duration
}

// NextInterval always returns the same interval regardless of attempt number.
func (f FixedBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return f.Interval
}

// DefaultBackoffStrategy returns the backoff used when none is configured:
// 10ms growing by a factor of 6 per attempt, with jitter.
func DefaultBackoffStrategy() BackoffStrategy {
	return ExponentialBackoff{
		MinTimeout: 10 * time.Millisecond,
		Factor:     6,
		Randomize:  true,
	}
}
