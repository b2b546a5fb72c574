package composite

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jzx17/goresilience/pkg/circuitbreaker"
	"github.com/jzx17/goresilience/pkg/retry"
	"github.com/jzx17/goresilience/pkg/timeout"
	"github.com/jzx17/goresilience/pkg/types"
)

// tracingStrategy records entry/exit around the wrapped operation
type tracingStrategy struct {
	name string
	log  *[]string
}

func (s *tracingStrategy) Run(ctx context.Context, op types.Operation) error {
	*s.log = append(*s.log, s.name+":enter")
	err := op(ctx)
	*s.log = append(*s.log, s.name+":exit")
	return err
}

func (s *tracingStrategy) Name() string { return s.name }

// transformStrategy applies fn to a shared accumulator after the wrapped
// operation succeeds
type transformStrategy struct {
	name string
	v    *int
	fn   func(int) int
}

func (s *transformStrategy) Run(ctx context.Context, op types.Operation) error {
	if err := op(ctx); err != nil {
		return err
	}
	*s.v = s.fn(*s.v)
	return nil
}

func (s *transformStrategy) Name() string { return s.name }

func TestComposite_RequiresStrategies(t *testing.T) {
	_, err := New()
	assert.Error(t, err)

	_, err = New(nil)
	assert.Error(t, err)

	var log []string
	_, err = New(&tracingStrategy{name: "a", log: &log}, nil)
	assert.Error(t, err)
}

func TestComposite_FirstStrategyIsInnermost(t *testing.T) {
	var log []string
	a := &tracingStrategy{name: "a", log: &log}
	b := &tracingStrategy{name: "b", log: &log}

	c, err := New(a, b)
	assert.NoError(t, err)

	err = c.Run(context.Background(), func(ctx context.Context) error {
		log = append(log, "op")
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"b:enter", "a:enter", "op", "a:exit", "b:exit"}, log)
}

// With [double, addOne], double is innermost: op sets 10, double makes 20,
// addOne makes 21.
func TestComposite_NestingOrderObservable(t *testing.T) {
	var v int
	double := &transformStrategy{name: "double", v: &v, fn: func(n int) int { return n * 2 }}
	addOne := &transformStrategy{name: "add_one", v: &v, fn: func(n int) int { return n + 1 }}

	c, err := New(double, addOne)
	assert.NoError(t, err)

	err = c.Run(context.Background(), func(ctx context.Context) error {
		v = 10
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 21, v)

	// Reversed order: addOne first makes 11, doubling yields 22
	v = 0
	c, err = New(addOne, double)
	assert.NoError(t, err)

	err = c.Run(context.Background(), func(ctx context.Context) error {
		v = 10
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 22, v)
}

func TestComposite_SingleStrategy(t *testing.T) {
	var log []string
	a := &tracingStrategy{name: "a", log: &log}

	c, err := New(a)
	assert.NoError(t, err)

	err = c.Run(context.Background(), func(ctx context.Context) error {
		log = append(log, "op")
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"a:enter", "op", "a:exit"}, log)
}

func TestComposite_NoErrorTranslation(t *testing.T) {
	var log []string
	a := &tracingStrategy{name: "a", log: &log}
	b := &tracingStrategy{name: "b", log: &log}

	c, err := New(a, b)
	assert.NoError(t, err)

	boom := errors.New("boom")
	err = c.Run(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.Equal(t, boom, err)
}

func TestComposite_Name(t *testing.T) {
	var log []string
	c, err := New(
		&tracingStrategy{name: "a", log: &log},
		&tracingStrategy{name: "b", log: &log},
	)
	assert.NoError(t, err)
	assert.Equal(t, "composite(a,b)", c.Name())
}

func TestComposite_SuccessInvokesOperationOnce(t *testing.T) {
	to, err := timeout.New(time.Second)
	assert.NoError(t, err)
	rt, err := retry.New(retry.WithInitialDelay(time.Millisecond))
	assert.NoError(t, err)
	cb, err := circuitbreaker.New()
	assert.NoError(t, err)

	c, err := New(to, rt, cb)
	assert.NoError(t, err)

	var calls int32
	result, err := types.Execute(context.Background(), c, func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 7, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, result)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// Timeout innermost and breaker outermost: each attempt is individually
// time-bounded and every timeout counts toward the breaker.
func TestComposite_TimeoutsCountTowardBreaker(t *testing.T) {
	to, err := timeout.New(10 * time.Millisecond)
	assert.NoError(t, err)
	rt, err := retry.New(
		retry.WithMaxAttempts(1),
		retry.WithInitialDelay(time.Millisecond),
	)
	assert.NoError(t, err)
	cb, err := circuitbreaker.New(
		circuitbreaker.WithFailureThreshold(1),
		circuitbreaker.WithBreakDuration(time.Minute),
	)
	assert.NoError(t, err)

	c, err := New(to, rt, cb)
	assert.NoError(t, err)

	err = c.Run(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, types.ErrRetryExhausted)
	assert.Equal(t, circuitbreaker.StateOpen, cb.State())

	// Breaker now fast-fails without reaching the operation
	var calls int32
	err = c.Run(context.Background(), func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	assert.ErrorIs(t, err, types.ErrCircuitOpen)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

// Retry innermost relative to timeout: one deadline spans the whole retry
// sequence rather than each attempt.
func TestComposite_TimeoutBudgetSpansRetries(t *testing.T) {
	rt, err := retry.New(
		retry.WithMaxAttempts(10),
		retry.WithInitialDelay(20*time.Millisecond),
	)
	assert.NoError(t, err)
	to, err := timeout.New(30 * time.Millisecond)
	assert.NoError(t, err)

	c, err := New(rt, to)
	assert.NoError(t, err)

	var calls int32
	err = c.Run(context.Background(), func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return types.Transient(errors.New("flaky"))
	})

	assert.ErrorIs(t, err, types.ErrTimeout)
	assert.Less(t, atomic.LoadInt32(&calls), int32(11), "deadline cuts the retry sequence short")
}
