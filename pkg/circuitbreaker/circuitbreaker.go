// Package circuitbreaker provides the circuit breaker strategy implementation
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

// State represents the state of the circuit breaker
type State int32

const (
	// StateClosed - normal operation, calls pass through
	StateClosed State = iota
	// StateOpen - calls are rejected immediately without invoking the
	// operation
	StateOpen
	// StateHalfOpen - a probe call is allowed to test recovery
	StateHalfOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// EventHandler handles circuit breaker events
type EventHandler interface {
	// OnStateChange fires on every state transition
	OnStateChange(name string, from, to State)

	// OnRejected fires when a call is fast-failed while the circuit is open
	OnRejected(name string)
}

// Breaker is a three-state circuit breaker. A single mutex guards the state
// machine; the lock is never held across the wrapped operation, so one slow
// downstream call does not serialize unrelated callers.
type Breaker struct {
	name             string
	failureThreshold int
	breakDuration    time.Duration
	clock            types.Clock
	logger           types.Logger
	eventHandler     EventHandler
	onStateChange    func(name string, from, to State)

	mu           sync.Mutex
	state        State
	failureCount int
	lastFailure  time.Time
	openUntil    time.Time
}

// New creates a circuit breaker. Defaults: failure threshold 5, break
// duration 30s.
func New(opts ...Option) (*Breaker, error) {
	b := &Breaker{
		name:             "circuit_breaker",
		failureThreshold: DefaultFailureThreshold,
		breakDuration:    DefaultBreakDuration,
		clock:            types.NewRealClock(),
		logger:           types.NewNopLogger(),
		state:            StateClosed,
	}

	for _, opt := range opts {
		opt(b)
	}

	if err := b.validate(); err != nil {
		return nil, err
	}

	return b, nil
}

// Name returns the strategy name
func (b *Breaker) Name() string {
	return b.name
}

// Run invokes op unless the circuit is open. While open and inside the
// break window, Run returns *types.CircuitOpenError without invoking op.
// Once the window elapses the next call transitions to half-open and runs
// as a probe: success closes the circuit, failure re-opens it.
func (b *Breaker) Run(ctx context.Context, op types.Operation) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := op(ctx)
	if err != nil {
		// Caller cancellation is not evidence against the dependency
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		b.recordFailure()
		return err
	}

	b.recordSuccess()
	return nil
}

// State returns the current state. The read is advisory: an open circuit
// whose break window has elapsed is reported as half-open, but the actual
// transition happens on the next call.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && !b.clock.Now().Before(b.openUntil) {
		return StateHalfOpen
	}
	return b.state
}

// Counts returns the current failure count and the time of the last
// recorded failure.
func (b *Breaker) Counts() (failures int, lastFailure time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failureCount, b.lastFailure
}

// allow is the entry critical section: reject, or admit and possibly
// transition to half-open.
func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed, StateHalfOpen:
		return nil
	case StateOpen:
		now := b.clock.Now()
		if now.Before(b.openUntil) {
			if b.eventHandler != nil {
				b.eventHandler.OnRejected(b.name)
			}
			return &types.CircuitOpenError{RetryAfter: b.openUntil.Sub(now)}
		}
		// Break window elapsed, admit this call as the probe
		b.transition(StateHalfOpen)
		return nil
	default:
		return nil
	}
}

// recordSuccess is the exit critical section for successful calls
func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failureCount = 0
	case StateHalfOpen:
		b.failureCount = 0
		b.transition(StateClosed)
	case StateOpen:
		// A stale probe raced with a failure that re-opened the circuit;
		// its success does not reset the break window
	}
}

// recordFailure is the exit critical section for failed calls
func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock.Now()
	b.lastFailure = now

	switch b.state {
	case StateClosed:
		b.failureCount++
		if b.failureCount >= b.failureThreshold {
			b.openUntil = now.Add(b.breakDuration)
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		b.failureCount++
		b.openUntil = now.Add(b.breakDuration)
		b.transition(StateOpen)
	case StateOpen:
		// Concurrent in-flight call failed after the circuit opened;
		// extend the break window
		b.openUntil = now.Add(b.breakDuration)
	}
}

// transition changes state and notifies observers. Callers hold b.mu.
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to

	b.logger.Infof("%s: state %s -> %s", b.name, from, to)
	if b.eventHandler != nil {
		b.eventHandler.OnStateChange(b.name, from, to)
	}
	if b.onStateChange != nil {
		b.onStateChange(b.name, from, to)
	}
}
