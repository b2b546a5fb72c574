// Package metrics provides Prometheus instrumentation for strategies
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jzx17/goresilience/pkg/circuitbreaker"
)

// Collector provides Prometheus metrics for the strategy lifecycle. It
// implements the retry, circuit breaker, and timeout event-handler
// interfaces, so a single collector wires into every strategy through the
// WithEventHandler options. It is safe for concurrent use.
type Collector struct {
	attemptsTotal   *prometheus.CounterVec
	retriesTotal    *prometheus.CounterVec
	exhaustedTotal  *prometheus.CounterVec
	executeDuration *prometheus.HistogramVec

	breakerState       *prometheus.GaugeVec
	breakerTransitions *prometheus.CounterVec
	breakerRejected    *prometheus.CounterVec

	timeoutsTotal *prometheus.CounterVec
}

// NewCollector creates a collector on the default registerer.
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector using the supplied registerer.
func NewCollectorWithRegistry(registry prometheus.Registerer) *Collector {
	return &Collector{
		attemptsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "goresilience_attempts_total",
				Help: "Total number of operation invocations",
			},
			[]string{"strategy"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "goresilience_retries_total",
				Help: "Total number of retries after a failed attempt",
			},
			[]string{"strategy"},
		),
		exhaustedTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "goresilience_retry_exhausted_total",
				Help: "Total number of executions that failed every attempt",
			},
			[]string{"strategy"},
		),
		executeDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goresilience_execution_duration_seconds",
				Help:    "Duration of successful executions including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		breakerState: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "goresilience_circuit_breaker_state",
				Help: "Current state of circuit breaker (0=closed, 1=open, 2=half-open)",
			},
			[]string{"name"},
		),
		breakerTransitions: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "goresilience_circuit_breaker_transitions_total",
				Help: "Total number of circuit breaker state transitions",
			},
			[]string{"name", "from", "to"},
		),
		breakerRejected: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "goresilience_circuit_breaker_rejected_total",
				Help: "Total number of calls rejected while the circuit was open",
			},
			[]string{"name"},
		),
		timeoutsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "goresilience_timeouts_total",
				Help: "Total number of operations that exceeded their deadline",
			},
			[]string{"name"},
		),
	}
}

// OnAttempt implements retry.EventHandler
func (c *Collector) OnAttempt(ctx context.Context, name string, attempt int) {
	c.attemptsTotal.WithLabelValues(name).Inc()
}

// OnRetry implements retry.EventHandler
func (c *Collector) OnRetry(ctx context.Context, name string, attempt int, delay time.Duration, err error) {
	c.retriesTotal.WithLabelValues(name).Inc()
}

// OnSuccess implements retry.EventHandler
func (c *Collector) OnSuccess(ctx context.Context, name string, attempts int, elapsed time.Duration) {
	c.executeDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// OnGiveUp implements retry.EventHandler
func (c *Collector) OnGiveUp(ctx context.Context, name string, attempts int, err error) {
	c.exhaustedTotal.WithLabelValues(name).Inc()
}

// OnStateChange implements circuitbreaker.EventHandler
func (c *Collector) OnStateChange(name string, from, to circuitbreaker.State) {
	c.breakerState.WithLabelValues(name).Set(float64(to))
	c.breakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
}

// OnRejected implements circuitbreaker.EventHandler
func (c *Collector) OnRejected(name string) {
	c.breakerRejected.WithLabelValues(name).Inc()
}

// OnTimeout implements timeout.EventHandler
func (c *Collector) OnTimeout(name string, after time.Duration) {
	c.timeoutsTotal.WithLabelValues(name).Inc()
}
