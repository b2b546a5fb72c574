// Package circuitbreaker provides a three-state circuit breaker that stops
// calling a failing dependency for a cooldown period after repeated
// failures.
//
// State machine:
//
//   - Closed (initial): calls pass through. Success resets the failure
//     count; reaching the failure threshold opens the circuit.
//   - Open: calls are rejected immediately with *types.CircuitOpenError
//     until the break duration elapses, then the next call is admitted as
//     a probe.
//   - HalfOpen: the probe's success closes the circuit, its failure
//     re-opens it.
//
// There is no direct Closed->HalfOpen or Open->Closed transition. The
// Open->HalfOpen transition is evaluated lazily on the next call rather
// than by a background timer.
//
// Basic usage example:
//
//	breaker, err := circuitbreaker.New(
//		circuitbreaker.WithFailureThreshold(5),
//		circuitbreaker.WithBreakDuration(30*time.Second),
//	)
//	if err != nil {
//		return err
//	}
//
//	err = breaker.Run(ctx, callDownstream)
//	if errors.Is(err, types.ErrCircuitOpen) {
//		return serveFromCache()
//	}
//
// Thread safety:
//
// A single mutex guards the state machine. The entry check and the exit
// bookkeeping are separate critical sections; the lock is never held while
// the wrapped operation runs.
package circuitbreaker
