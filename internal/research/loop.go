// Package research drives a bounded sequence of research steps: fetch an
// artifact for the current subject, ask the backend for a follow-up
// subject, repeat. Execution is strictly sequential since each subject is
// discovered only after the prior step resolves.
package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/vietddude/inquest/internal/core/domain"
	"github.com/vietddude/inquest/internal/infra/backend"
	"github.com/vietddude/inquest/internal/infra/metrics"
	"github.com/vietddude/inquest/internal/infra/retry"
)

const (
	opResearch    = "research"
	opNextSubject = "next_subject"
)

// Backend is the knowledge service the loop talks to. FetchNextSubject may
// return an empty subject, meaning "no continuation" — that is not an error.
type Backend interface {
	FetchResearch(ctx context.Context, subject string) (domain.Artifact, error)
	FetchNextSubject(ctx context.Context, summary string) (string, error)
}

// OnRetry is notified whenever a backend call is about to be retried.
type OnRetry func(operation string, attempt int, err error, delay time.Duration)

// Runner executes research sessions. It owns the in-flight session; the
// retry layer holds no cross-call state, so a Runner is safe to reuse for
// independent sequential runs.
type Runner struct {
	backend Backend
	policy  retry.Policy
	log     *slog.Logger
	onRetry OnRetry
	rng     *rand.Rand
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithOnRetry sets a diagnostic callback observed on every retry, in
// addition to the runner's own logging.
func WithOnRetry(fn OnRetry) Option {
	return func(r *Runner) { r.onRetry = fn }
}

// WithRand injects the randomness source used for backoff jitter.
func WithRand(rng *rand.Rand) Option {
	return func(r *Runner) { r.rng = rng }
}

// NewRunner creates a Runner. The policy must validate.
func NewRunner(b Backend, policy retry.Policy, opts ...Option) (*Runner, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("retry policy: %w", err)
	}
	r := &Runner{
		backend: b,
		policy:  policy,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run executes up to requestedSteps research steps starting from subject.
//
// A research failure aborts the run: the partial session (termination
// "aborted") is returned together with the underlying error. A next-subject
// failure only ends the run early — continuation discovery is best-effort,
// so completed steps are kept and no error is returned.
func (r *Runner) Run(ctx context.Context, subject string, requestedSteps int) (*domain.Session, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, errors.New("subject is empty")
	}
	if requestedSteps < 1 {
		return nil, fmt.Errorf("requested steps must be >= 1, got %d", requestedSteps)
	}

	session := domain.NewSession(subject, requestedSteps)
	current := subject

	for i := 1; i <= requestedSteps; i++ {
		r.log.Info("Researching subject", "session", session.ID, "step", i, "subject", current)

		artifact, err := r.fetchResearch(ctx, current)
		if err != nil {
			r.finish(session, domain.TerminationAborted)
			return session, fmt.Errorf("step %d: research %q: %w", i, current, err)
		}

		session.Steps = append(session.Steps, domain.Step{
			Sequence: i,
			Subject:  current,
			Artifact: artifact,
		})
		metrics.StepsCompleted.Inc()

		if i == requestedSteps {
			r.finish(session, domain.TerminationExhausted)
			return session, nil
		}

		next, err := r.fetchNextSubject(ctx, artifact.Summary)
		if err != nil {
			// Completed steps are preserved; failing to find a continuation
			// is a stopping signal, not a session failure.
			r.log.Warn("Next-subject lookup failed, ending session early",
				"session", session.ID, "step", i, "error", err)
			r.finish(session, domain.TerminationNextInquiryFailed)
			return session, nil
		}
		if next == "" {
			r.log.Info("Backend proposed no continuation", "session", session.ID, "step", i)
			r.finish(session, domain.TerminationNoNextSubject)
			return session, nil
		}

		session.Steps[len(session.Steps)-1].NextSubject = next
		current = next
	}

	// Unreachable: the final iteration returns above.
	r.finish(session, domain.TerminationExhausted)
	return session, nil
}

func (r *Runner) finish(s *domain.Session, reason domain.TerminationReason) {
	s.Termination = reason
	s.FinishedAt = time.Now().UTC()
	metrics.SessionsTotal.WithLabelValues(string(reason)).Inc()
}

func (r *Runner) fetchResearch(ctx context.Context, subject string) (domain.Artifact, error) {
	retrier, err := r.newRetrier(opResearch)
	if err != nil {
		return domain.Artifact{}, err
	}
	return observe(ctx, opResearch, retrier, func(ctx context.Context) (domain.Artifact, error) {
		return r.backend.FetchResearch(ctx, subject)
	})
}

func (r *Runner) fetchNextSubject(ctx context.Context, summary string) (string, error) {
	retrier, err := r.newRetrier(opNextSubject)
	if err != nil {
		return "", err
	}
	return observe(ctx, opNextSubject, retrier, func(ctx context.Context) (string, error) {
		return r.backend.FetchNextSubject(ctx, summary)
	})
}

func (r *Runner) newRetrier(operation string) (*retry.Retrier, error) {
	opts := []retry.Option{
		retry.WithClassifier(backend.IsRetryable),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			r.log.Warn("Backend call failed, retrying",
				"operation", operation, "attempt", attempt, "delay", delay, "error", err)
			metrics.BackendRetriesTotal.WithLabelValues(operation).Inc()
			if r.onRetry != nil {
				r.onRetry(operation, attempt, err, delay)
			}
		}),
	}
	if r.rng != nil {
		opts = append(opts, retry.WithRand(r.rng))
	}
	return retry.New(r.policy, opts...)
}

// observe wraps a retried call with request and latency metrics.
func observe[T any](ctx context.Context, operation string, retrier *retry.Retrier, op func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := retry.Do(ctx, retrier, op)
	metrics.BackendLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.BackendRequestsTotal.WithLabelValues(operation, outcome).Inc()
	return v, err
}
