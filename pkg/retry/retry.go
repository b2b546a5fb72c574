// Package retry provides the retry strategy implementation
package retry

import (
	"context"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

// Strategy retries an operation with exponential backoff. It is stateless
// across calls and safe for concurrent reuse.
type Strategy struct {
	name         string
	maxAttempts  int
	initialDelay time.Duration
	factor       float64
	maxDelay     time.Duration
	jitter       JitterFunc
	retryIf      types.RetryPredicate
	clock        types.Clock
	logger       types.Logger
	eventHandler EventHandler
}

// New creates a retry strategy. Defaults: 3 retries after the initial
// attempt, 100ms initial delay, factor 2.0, types.IsTransient predicate,
// uncapped delay growth.
func New(opts ...Option) (*Strategy, error) {
	s := &Strategy{
		name:         "retry",
		maxAttempts:  DefaultMaxAttempts,
		initialDelay: DefaultInitialDelay,
		factor:       DefaultBackoffFactor,
		retryIf:      types.IsTransient,
		clock:        types.NewRealClock(),
		logger:       types.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Name returns the strategy name
func (s *Strategy) Name() string {
	return s.name
}

// Run invokes op up to maxAttempts+1 times. Between failed attempts it
// waits the current delay and then multiplies it by the backoff factor.
// A non-retryable error propagates unchanged after a single invocation;
// caller cancellation propagates immediately, even mid-delay, and is never
// retried. When the final attempt fails with a retryable error, Run returns
// a *types.RetryExhaustedError wrapping it.
func (s *Strategy) Run(ctx context.Context, op types.Operation) error {
	start := s.clock.Now()
	delay := s.initialDelay
	total := s.maxAttempts + 1

	var lastErr error
	for attempt := 1; attempt <= total; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if s.eventHandler != nil {
			s.eventHandler.OnAttempt(ctx, s.name, attempt)
		}

		err := op(ctx)
		if err == nil {
			if s.eventHandler != nil {
				s.eventHandler.OnSuccess(ctx, s.name, attempt, s.clock.Since(start))
			}
			return nil
		}

		// Cancellation surfaced through the operation is the caller's
		// signal, not a failure to retry
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !s.retryIf(err) {
			return err
		}

		lastErr = err
		s.logger.Warnf("%s: attempt %d/%d failed: %v", s.name, attempt, total, err)

		if attempt == total {
			break
		}

		wait := delay
		if s.maxDelay > 0 && wait > s.maxDelay {
			wait = s.maxDelay
		}
		if s.jitter != nil {
			wait = s.jitter(wait)
		}

		if s.eventHandler != nil {
			s.eventHandler.OnRetry(ctx, s.name, attempt, wait, err)
		}
		s.logger.Debugf("%s: retrying in %v (attempt %d/%d)", s.name, wait, attempt+1, total)

		timer := s.clock.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C():
		}

		delay = time.Duration(float64(delay) * s.factor)
	}

	if s.eventHandler != nil {
		s.eventHandler.OnGiveUp(ctx, s.name, total, lastErr)
	}
	return &types.RetryExhaustedError{Attempts: total, Err: lastErr}
}
