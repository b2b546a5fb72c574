package circuitbreaker

import (
	"fmt"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

// Default configuration values
const (
	DefaultFailureThreshold = 5
	DefaultBreakDuration    = 30 * time.Second
)

// Option is a configuration option for the circuit breaker
type Option func(*Breaker)

// WithName sets the breaker name used in logs and metrics
func WithName(name string) Option {
	return func(b *Breaker) {
		b.name = name
	}
}

// WithFailureThreshold sets the number of consecutive failures that opens
// the circuit
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		b.failureThreshold = n
	}
}

// WithBreakDuration sets how long the circuit stays open before admitting
// a probe call
func WithBreakDuration(d time.Duration) Option {
	return func(b *Breaker) {
		b.breakDuration = d
	}
}

// WithClock sets the clock for time operations
func WithClock(clock types.Clock) Option {
	return func(b *Breaker) {
		b.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger types.Logger) Option {
	return func(b *Breaker) {
		b.logger = logger
	}
}

// WithEventHandler sets the event handler
func WithEventHandler(handler EventHandler) Option {
	return func(b *Breaker) {
		b.eventHandler = handler
	}
}

// WithOnStateChange sets a callback fired on every state transition
func WithOnStateChange(fn func(name string, from, to State)) Option {
	return func(b *Breaker) {
		b.onStateChange = fn
	}
}

func (b *Breaker) validate() error {
	if b.failureThreshold <= 0 {
		return fmt.Errorf("circuitbreaker: failure threshold must be positive, got %d", b.failureThreshold)
	}
	if b.breakDuration <= 0 {
		return fmt.Errorf("circuitbreaker: break duration must be positive, got %v", b.breakDuration)
	}
	return nil
}
