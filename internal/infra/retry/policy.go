package retry

import (
	"fmt"
	"time"
)

// Policy defines retry behavior for a single call site. It is read-only
// after construction and safe to share.
type Policy struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
	JitterFraction    float64
}

// DefaultPolicy provides sensible defaults for backend calls.
var DefaultPolicy = Policy{
	MaxAttempts:       3,
	InitialDelay:      500 * time.Millisecond,
	MaxDelay:          5 * time.Second,
	BackoffMultiplier: 2.0,
	JitterFraction:    0.2,
}

// Validate checks policy invariants.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be >= 1, got %d", p.MaxAttempts)
	}
	if p.InitialDelay < 0 {
		return fmt.Errorf("initial delay must be >= 0, got %v", p.InitialDelay)
	}
	if p.InitialDelay > p.MaxDelay {
		return fmt.Errorf("initial delay %v exceeds max delay %v", p.InitialDelay, p.MaxDelay)
	}
	if p.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff multiplier must be > 1, got %v", p.BackoffMultiplier)
	}
	if p.JitterFraction < 0 || p.JitterFraction > 1 {
		return fmt.Errorf("jitter fraction must be in [0, 1], got %v", p.JitterFraction)
	}
	return nil
}
