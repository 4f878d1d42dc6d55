package retry

import (
	"math"
	"math/rand"
	"time"
)

// Backoff returns the pre-jitter delay for a 0-based attempt index:
// InitialDelay * BackoffMultiplier^attempt, capped at MaxDelay.
func Backoff(attempt int, p Policy) time.Duration {
	delay := float64(p.InitialDelay) * math.Pow(p.BackoffMultiplier, float64(attempt))
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	return time.Duration(delay)
}

// jitter perturbs a base delay by up to ±base*fraction, drawn uniformly.
// Spreading delays keeps simultaneous failures from retrying in lockstep.
// The result never goes below zero.
func jitter(base time.Duration, fraction float64, rng *rand.Rand) time.Duration {
	if fraction == 0 || base == 0 {
		return base
	}
	u := rng.Float64()*2 - 1 // uniform in [-1, 1)
	d := float64(base) + float64(base)*fraction*u
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
