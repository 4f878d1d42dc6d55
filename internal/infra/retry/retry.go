// Package retry executes backend operations with exponential backoff.
//
// The engine is parameterized by a Policy, an error classifier, and a
// randomness source, so backoff timing is fully deterministic under test.
// Errors the classifier does not recognize are terminal.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Classifier reports whether an error is worth retrying.
type Classifier func(error) bool

// OnRetry is notified before each backoff wait. attempt is the 1-based
// number of the attempt that just failed.
type OnRetry func(attempt int, err error, delay time.Duration)

// Retrier runs operations under a Policy. It holds no state across Do
// calls beyond its randomness source.
type Retrier struct {
	policy   Policy
	classify Classifier
	onRetry  OnRetry
	rng      *rand.Rand
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithClassifier sets the retryability check. Without one, every error is
// terminal.
func WithClassifier(c Classifier) Option {
	return func(r *Retrier) { r.classify = c }
}

// WithOnRetry sets an observer invoked before each backoff wait.
func WithOnRetry(fn OnRetry) Option {
	return func(r *Retrier) { r.onRetry = fn }
}

// WithRand injects the randomness source used for jitter.
func WithRand(rng *rand.Rand) Option {
	return func(r *Retrier) { r.rng = rng }
}

// New creates a Retrier. The policy must validate.
func New(policy Policy, opts ...Option) (*Retrier, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	r := &Retrier{
		policy:   policy,
		classify: func(error) bool { return false },
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Policy returns the retrier's policy.
func (r *Retrier) Policy() Policy { return r.policy }

// Do invokes op up to MaxAttempts times. A success returns immediately.
// A terminal error, or a failure on the final attempt, propagates as-is —
// the caller always sees the real cause, never a synthetic "retries
// exhausted" error. Between retryable failures the calling goroutine waits
// for the backoff delay, or returns ctx.Err() if the context is cancelled
// first.
func Do[T any](ctx context.Context, r *Retrier, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < r.policy.MaxAttempts; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt == r.policy.MaxAttempts-1 {
			break
		}
		if !r.classify(err) {
			return zero, err
		}

		delay := jitter(Backoff(attempt, r.policy), r.policy.JitterFraction, r.rng)
		if r.onRetry != nil {
			r.onRetry(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}
