// Package types defines core interfaces and types for the resilience library
package types

import (
	"context"
	"sync"
	"time"
)

// Operation is a caller-supplied unit of work. It is invoked by reference on
// each attempt and must observe ctx to support cooperative cancellation.
type Operation func(ctx context.Context) error

// OperationFunc is a unit of work that produces a value.
type OperationFunc[T any] func(ctx context.Context) (T, error)

// Strategy wraps the execution of an Operation with a resilience policy.
// Implementations must be safe for concurrent reuse.
type Strategy interface {
	// Run invokes op zero or more times according to the strategy's policy
	// and returns the final outcome.
	Run(ctx context.Context, op Operation) error

	// Name returns the strategy name used in logs and metrics.
	Name() string
}

// Execute runs a value-producing operation under a strategy. Interface
// methods cannot be generic, so the valued form is a package-level adapter
// over Strategy.Run.
//
// The result variable is guarded because a timed-out attempt may still be
// completing in the background when a later attempt succeeds.
func Execute[T any](ctx context.Context, s Strategy, fn OperationFunc[T]) (T, error) {
	var (
		mu     sync.Mutex
		result T
	)

	err := s.Run(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		result = v
		mu.Unlock()
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	mu.Lock()
	defer mu.Unlock()
	return result, nil
}

// Result carries the outcome of an asynchronous execution.
type Result[T any] struct {
	Value    T
	Error    error
	Duration time.Duration
}

// ExecuteAsync runs a value-producing operation under a strategy without
// blocking the caller. The returned channel delivers exactly one Result and
// is then closed.
func ExecuteAsync[T any](ctx context.Context, s Strategy, fn OperationFunc[T]) <-chan Result[T] {
	resultChan := make(chan Result[T], 1)

	go func() {
		defer close(resultChan)

		start := time.Now()
		value, err := Execute(ctx, s, fn)
		resultChan <- Result[T]{
			Value:    value,
			Error:    err,
			Duration: time.Since(start),
		}
	}()

	return resultChan
}
