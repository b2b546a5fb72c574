// Package retry provides jitter functions for backoff delays
package retry

import (
	"math/rand"
	"time"
)

// JitterFunc transforms a computed backoff delay before waiting
type JitterFunc func(time.Duration) time.Duration

// FullJitter full jitter function - random within [0, delay] range
func FullJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(delay)))
}

// EqualJitter equal jitter function - delay/2 + random(0, delay/2)
func EqualJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return 0
	}
	half := delay / 2
	if half <= 0 {
		// delay of a single nanosecond has no room to jitter
		return delay
	}
	return half + time.Duration(rand.Int63n(int64(half)))
}
