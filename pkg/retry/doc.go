// Package retry provides a retry strategy with exponential backoff and
// transient-failure classification.
//
// Key Features:
//
// 1. Bounded attempts:
//   - One initial attempt plus a configurable number of retries
//   - Non-retryable errors propagate unchanged after a single attempt
//   - Exhaustion is reported as *types.RetryExhaustedError wrapping the
//     final error
//
// 2. Exponential backoff:
//   - Delay multiplied by the backoff factor after each failed attempt
//   - Uncapped growth by default, optional WithMaxDelay cap
//   - Optional jitter functions (FullJitter, EqualJitter)
//
// 3. Cancellation:
//   - Caller cancellation aborts immediately, even during a backoff wait
//   - A cancelled operation is never re-invoked
//
// Basic usage example:
//
//	strategy, err := retry.New(
//		retry.WithMaxAttempts(3),
//		retry.WithInitialDelay(100*time.Millisecond),
//		retry.WithBackoffFactor(2.0),
//	)
//	if err != nil {
//		return err
//	}
//
//	result, err := types.Execute(ctx, strategy, func(ctx context.Context) (string, error) {
//		return doSomething(ctx)
//	})
//
// Custom retry conditions:
//
//	strategy, err := retry.New(retry.WithRetryIf(func(err error) bool {
//		return errors.Is(err, ErrBusy)
//	}))
//
// Thread safety:
//
// The strategy holds no per-call state and is safe for concurrent reuse.
package retry
