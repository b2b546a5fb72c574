package metrics

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jzx17/goresilience/pkg/circuitbreaker"
	"github.com/jzx17/goresilience/pkg/retry"
	"github.com/jzx17/goresilience/pkg/types"
)

func newTestCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.NewRegistry())
}

func TestCollector_RetryEvents(t *testing.T) {
	c := newTestCollector()
	ctx := context.Background()

	c.OnAttempt(ctx, "upstream", 1)
	c.OnAttempt(ctx, "upstream", 2)
	c.OnRetry(ctx, "upstream", 1, time.Millisecond, errors.New("flaky"))
	c.OnGiveUp(ctx, "upstream", 2, errors.New("flaky"))

	assert.Equal(t, float64(2), testutil.ToFloat64(c.attemptsTotal.WithLabelValues("upstream")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.retriesTotal.WithLabelValues("upstream")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.exhaustedTotal.WithLabelValues("upstream")))
}

func TestCollector_BreakerEvents(t *testing.T) {
	c := newTestCollector()

	c.OnStateChange("payments", circuitbreaker.StateClosed, circuitbreaker.StateOpen)
	c.OnRejected("payments")
	c.OnRejected("payments")

	assert.Equal(t, float64(circuitbreaker.StateOpen), testutil.ToFloat64(c.breakerState.WithLabelValues("payments")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.breakerTransitions.WithLabelValues("payments", "closed", "open")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.breakerRejected.WithLabelValues("payments")))
}

func TestCollector_TimeoutEvents(t *testing.T) {
	c := newTestCollector()

	c.OnTimeout("per-attempt", 50*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.timeoutsTotal.WithLabelValues("per-attempt")))
}

// End to end: the collector wires into a strategy through WithEventHandler.
func TestCollector_WiredIntoRetry(t *testing.T) {
	c := newTestCollector()

	s, err := retry.New(
		retry.WithName("wired"),
		retry.WithMaxAttempts(1),
		retry.WithInitialDelay(time.Millisecond),
		retry.WithEventHandler(c),
	)
	assert.NoError(t, err)

	var calls int32
	err = s.Run(context.Background(), func(ctx context.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return types.Transient(errors.New("flaky"))
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(c.attemptsTotal.WithLabelValues("wired")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.retriesTotal.WithLabelValues("wired")))
}

func TestCollector_WiredIntoBreaker(t *testing.T) {
	c := newTestCollector()

	b, err := circuitbreaker.New(
		circuitbreaker.WithName("wired"),
		circuitbreaker.WithFailureThreshold(1),
		circuitbreaker.WithBreakDuration(time.Minute),
		circuitbreaker.WithEventHandler(c),
	)
	assert.NoError(t, err)

	_ = b.Run(context.Background(), func(ctx context.Context) error {
		return errors.New("read timeout")
	})
	_ = b.Run(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.Equal(t, float64(circuitbreaker.StateOpen), testutil.ToFloat64(c.breakerState.WithLabelValues("wired")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.breakerRejected.WithLabelValues("wired")))
}
