package retry

import (
	"fmt"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

// Default configuration values
const (
	DefaultMaxAttempts   = 3
	DefaultInitialDelay  = 100 * time.Millisecond
	DefaultBackoffFactor = 2.0
)

// Option is a configuration option for the retry strategy
type Option func(*Strategy)

// WithName sets the strategy name used in logs and metrics
func WithName(name string) Option {
	return func(s *Strategy) {
		s.name = name
	}
}

// WithMaxAttempts sets the number of retries after the initial attempt
func WithMaxAttempts(n int) Option {
	return func(s *Strategy) {
		s.maxAttempts = n
	}
}

// WithInitialDelay sets the delay before the first retry
func WithInitialDelay(d time.Duration) Option {
	return func(s *Strategy) {
		s.initialDelay = d
	}
}

// WithBackoffFactor sets the multiplier applied to the delay after each
// failed attempt
func WithBackoffFactor(f float64) Option {
	return func(s *Strategy) {
		s.factor = f
	}
}

// WithMaxDelay caps the backoff delay. Growth is uncapped by default.
func WithMaxDelay(d time.Duration) Option {
	return func(s *Strategy) {
		s.maxDelay = d
	}
}

// WithJitter applies a jitter function to each computed delay
func WithJitter(jitter JitterFunc) Option {
	return func(s *Strategy) {
		s.jitter = jitter
	}
}

// WithRetryIf sets the predicate deciding which errors are retried.
// Defaults to types.IsTransient.
func WithRetryIf(pred types.RetryPredicate) Option {
	return func(s *Strategy) {
		s.retryIf = pred
	}
}

// WithClock sets the clock for time operations
func WithClock(clock types.Clock) Option {
	return func(s *Strategy) {
		s.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger types.Logger) Option {
	return func(s *Strategy) {
		s.logger = logger
	}
}

// WithEventHandler sets the event handler
func WithEventHandler(handler EventHandler) Option {
	return func(s *Strategy) {
		s.eventHandler = handler
	}
}

func (s *Strategy) validate() error {
	if s.maxAttempts <= 0 {
		return fmt.Errorf("retry: max attempts must be positive, got %d", s.maxAttempts)
	}
	if s.initialDelay <= 0 {
		return fmt.Errorf("retry: initial delay must be positive, got %v", s.initialDelay)
	}
	if s.factor <= 1.0 {
		return fmt.Errorf("retry: backoff factor must be greater than 1.0, got %v", s.factor)
	}
	if s.maxDelay < 0 {
		return fmt.Errorf("retry: max delay must not be negative, got %v", s.maxDelay)
	}
	if s.retryIf == nil {
		return fmt.Errorf("retry: retry predicate must not be nil")
	}
	return nil
}
