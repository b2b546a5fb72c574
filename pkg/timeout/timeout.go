// Package timeout provides the timeout strategy implementation
package timeout

import (
	"context"
	"fmt"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

// EventHandler handles timeout events
type EventHandler interface {
	// OnTimeout fires when the deadline elapses before the operation
	// completes
	OnTimeout(name string, after time.Duration)
}

// Strategy races an operation against a deadline. It is stateless across
// calls and safe for concurrent reuse.
type Strategy struct {
	name         string
	timeout      time.Duration
	clock        types.Clock
	logger       types.Logger
	eventHandler EventHandler
}

// New creates a timeout strategy with the given deadline
func New(timeout time.Duration, opts ...Option) (*Strategy, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout: duration must be positive, got %v", timeout)
	}

	s := &Strategy{
		name:    "timeout",
		timeout: timeout,
		clock:   types.NewRealClock(),
		logger:  types.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Name returns the strategy name
func (s *Strategy) Name() string {
	return s.name
}

// Run invokes op under a cancellation signal derived from ctx. If the
// deadline fires first, the derived context is cancelled and Run returns
// *types.TimeoutError; the operation keeps running in the background until
// it observes the cancellation. If the caller's own ctx is what cancelled,
// Run returns ctx.Err(), never a timeout error. If the operation finishes
// first, its result propagates unchanged.
func (s *Strategy) Run(ctx context.Context, op types.Operation) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(runCtx)
	}()

	timer := s.clock.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		cancel()
		s.logger.Warnf("%s: operation timed out after %v", s.name, s.timeout)
		if s.eventHandler != nil {
			s.eventHandler.OnTimeout(s.name, s.timeout)
		}
		return &types.TimeoutError{After: s.timeout}
	}
}

// Option is a configuration option for the timeout strategy
type Option func(*Strategy)

// WithName sets the strategy name used in logs and metrics
func WithName(name string) Option {
	return func(s *Strategy) {
		s.name = name
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
